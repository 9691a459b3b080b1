package replay

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus"
	"github.com/kaspanet/ghostdagsim/infrastructure/db/relationstore"
	"github.com/kaspanet/ghostdagsim/infrastructure/logger"
)

// Persist writes the relations of every block in dag into store, along
// with the DAG's tips and its finalized block as the pruning point
func Persist(store *relationstore.Store, dag *consensus.DAG) error {
	onEnd := logger.LogAndMeasureExecutionTime(log, "Persist")
	defer onEnd()

	for _, blockHash := range dag.BlockHashes() {
		blockInfo, err := dag.BlockInfo(blockHash)
		if err != nil {
			return err
		}
		err = store.PutBlock(blockHash, blockInfo.Parents)
		if err != nil {
			return err
		}
	}

	err := store.SetTips(dag.Tips())
	if err != nil {
		return err
	}
	err = store.SetPruningPoint(dag.Finalized())
	if err != nil {
		return err
	}

	log.Infof("Persisted %d blocks with pruning point %s", dag.BlockCount(), dag.Finalized())
	return nil
}
