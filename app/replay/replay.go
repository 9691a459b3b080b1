package replay

import (
	"github.com/gammazero/deque"
	"github.com/kaspanet/ghostdagsim/domain/consensus"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/dagconfig"
	"github.com/kaspanet/ghostdagsim/infrastructure/db/relationstore"
	"github.com/kaspanet/ghostdagsim/infrastructure/logger"
	"github.com/pkg/errors"
)

// Result is the outcome of a replay
type Result struct {
	DAG *consensus.DAG

	// Root is the block the DAG was rooted at
	Root *externalapi.DomainHash

	// Missing counts blocks whose relations were missing from the store
	Missing int

	// Rejected counts blocks the DAG rejected, together with their
	// descendants that were left with no parent to point at
	Rejected int
}

// Replay rebuilds the DAG persisted in store through a GHOSTDAG instance
// created with params. The traversal in the given order has to reach
// exactly one root, a block none of whose parents were reached, and the
// new DAG is rooted at it. Parents that were not reached are dropped
// from the blocks pointing at them.
func Replay(store *relationstore.Store, order Order, params *dagconfig.Params,
	observer model.ReachabilityObserver) (*Result, error) {

	onEnd := logger.LogAndMeasureExecutionTime(log, "Replay")
	defer onEnd()

	blocks, missing, err := Load(store, order)
	if err != nil {
		return nil, err
	}

	root, err := findRoot(blocks)
	if err != nil {
		return nil, err
	}

	params = params.Clone()
	params.GenesisHash = root
	dag, err := consensus.New(params, observer)
	if err != nil {
		return nil, err
	}

	rejected, err := insertInTopologicalOrder(dag, blocks, root)
	if err != nil {
		return nil, err
	}
	log.Infof("Replayed %d blocks, rejected %d", dag.BlockCount(), rejected)

	return &Result{
		DAG:      dag,
		Root:     root,
		Missing:  missing,
		Rejected: rejected,
	}, nil
}

func findRoot(blocks map[externalapi.DomainHash]*relationstore.BlockRelations) (*externalapi.DomainHash, error) {
	var root *externalapi.DomainHash
	for blockHash, blockRelations := range blocks {
		if len(loadedParents(blocks, blockRelations)) > 0 {
			continue
		}
		if root != nil {
			return nil, errors.Errorf("found more than one root: %s and %s", root, &blockHash)
		}
		blockHash := blockHash
		root = &blockHash
	}
	if root == nil {
		return nil, errors.New("no blocks were loaded")
	}
	return root, nil
}

func loadedParents(blocks map[externalapi.DomainHash]*relationstore.BlockRelations,
	blockRelations *relationstore.BlockRelations) []*externalapi.DomainHash {

	parents := make([]*externalapi.DomainHash, 0, len(blockRelations.Parents))
	for _, parent := range blockRelations.Parents {
		if _, ok := blocks[*parent]; ok {
			parents = append(parents, parent)
		}
	}
	return parents
}

// insertInTopologicalOrder adds all blocks but root to dag, each one
// after all of its loaded parents were handled
func insertInTopologicalOrder(dag *consensus.DAG, blocks map[externalapi.DomainHash]*relationstore.BlockRelations,
	root *externalapi.DomainHash) (rejected int, err error) {

	pendingParents := make(map[externalapi.DomainHash]int, len(blocks))
	for blockHash, blockRelations := range blocks {
		pendingParents[blockHash] = len(loadedParents(blocks, blockRelations))
	}

	queue := new(deque.Deque[*externalapi.DomainHash])
	queue.PushBack(root)
	for queue.Len() > 0 {
		blockHash := queue.PopFront()
		blockRelations := blocks[*blockHash]

		if !blockHash.Equal(root) {
			var parents []*externalapi.DomainHash
			for _, parent := range loadedParents(blocks, blockRelations) {
				if dag.HasBlock(parent) {
					parents = append(parents, parent)
				}
			}

			if len(parents) == 0 {
				log.Debugf("Block %s has no parent left in the DAG, skipping it", blockHash)
				rejected++
			} else {
				_, err := dag.AddNewBlock(blockHash, parents)
				if err != nil {
					if !consensus.IsRuleError(err) {
						return 0, err
					}
					log.Warnf("Block %s was rejected: %s", blockHash, err)
					rejected++
				}
			}
		}

		for _, child := range blockRelations.Children {
			if _, ok := blocks[*child]; !ok {
				continue
			}
			pendingParents[*child]--
			if pendingParents[*child] == 0 {
				queue.PushBack(child)
			}
		}
	}
	return rejected, nil
}
