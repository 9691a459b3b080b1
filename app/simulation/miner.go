package simulation

import (
	"github.com/kaspanet/ghostdagsim/app/orphanpool"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// miner mines blocks at exponentially distributed intervals and
// broadcasts them through the hub. An honest miner points at all the tips
// of its DAG. An attacking miner points only at the last block it mined.
type miner struct {
	index      int
	hashRate   float64
	dag        externalapi.DAG
	orphanPool *orphanpool.OrphanPool

	isAttacker bool
	attackTip  *externalapi.DomainHash

	simulation *Simulation
}

func newMiner(simulation *Simulation, index int, hashRate float64, dag externalapi.DAG,
	genesis *externalapi.DomainHash, isAttacker bool) *miner {

	return &miner{
		index:      index,
		hashRate:   hashRate,
		dag:        dag,
		orphanPool: orphanpool.New(dag, simulation.cfg.MaxOrphans),
		isAttacker: isAttacker,
		attackTip:  genesis,
		simulation: simulation,
	}
}

func (m *miner) scheduleNextBlock() {
	delay := m.simulation.random.ExpFloat64() / (m.simulation.cfg.Lambda * m.hashRate)
	m.simulation.scheduler.schedule(delay, m.mine)
}

func (m *miner) mine() error {
	defer m.scheduleNextBlock()

	blockHash := m.simulation.hashSource.Next()
	parentHashes := m.dag.Tips()
	if m.isAttacker {
		parentHashes = []*externalapi.DomainHash{m.attackTip}
	}

	_, err := m.dag.AddNewBlock(blockHash, parentHashes)
	if err != nil {
		if !errors.As(err, &ruleerrors.RuleError{}) {
			return err
		}
		log.Debugf("Miner %d dropped its own block %s: %s", m.index, blockHash, err)
		return nil
	}
	if m.isAttacker {
		m.attackTip = blockHash
	}
	m.simulation.minedBlocks++

	return m.simulation.hub.Broadcast(m.index, &BlockMessage{
		Hash:    blockHash,
		Parents: parentHashes,
	})
}

func (m *miner) receive(message *BlockMessage) error {
	_, _, err := m.orphanPool.ProcessBlock(message.Hash, message.Parents)
	if err != nil {
		if !errors.As(err, &ruleerrors.RuleError{}) {
			return err
		}
		if ruleerrors.IsFinalityViolation(err) {
			log.Debugf("Miner %d rejected block %s: %s", m.index, message.Hash, err)
			return nil
		}
		log.Warnf("Miner %d rejected block %s: %s", m.index, message.Hash, err)
	}
	return nil
}
