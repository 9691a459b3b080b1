package reachabilitymanager

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/pkg/errors"
)

// reachabilityManager maintains a structure that allows to answer
// reachability queries in sub-linear time
type reachabilityManager struct {
	reachabilityDataStore model.ReachabilityDataStore
	observer              model.ReachabilityObserver
}

// New instantiates a new reachabilityManager. observer may be nil.
func New(
	reachabilityDataStore model.ReachabilityDataStore,
	observer model.ReachabilityObserver,
) model.ReachabilityManager {
	if observer == nil {
		observer = noopObserver{}
	}
	return &reachabilityManager{
		reachabilityDataStore: reachabilityDataStore,
		observer:              observer,
	}
}

// AddGenesis initializes the reachability tree with its root. interval
// has to hold at least two indexes, and its size has to be representable
// in 64 bits, which rules out [0, 2^64-1].
func (rt *reachabilityManager) AddGenesis(genesis model.BlockID, interval *model.ReachabilityInterval) error {
	if interval.End < interval.Start || intervalSize(interval) < 2 {
		return errors.Errorf("invalid genesis interval %s", interval)
	}
	rt.reachabilityDataStore.Insert(genesis, newReachabilityData(model.NoBlock))
	return rt.stageInterval(genesis, interval.Clone())
}

// AddBlock adds the block with the given blockID into the reachability
// tree as a child of selectedParent.
func (rt *reachabilityManager) AddBlock(blockID model.BlockID, selectedParent model.BlockID) error {
	if rt.reachabilityDataStore.HasReachabilityData(blockID) {
		return errors.Errorf("block %s already has reachability data", blockID)
	}
	if !rt.reachabilityDataStore.HasReachabilityData(selectedParent) {
		return errors.Errorf("selected parent %s of block %s has no reachability data",
			selectedParent, blockID)
	}
	rt.reachabilityDataStore.Insert(blockID, newReachabilityData(selectedParent))

	// Insert the node into the selected parent's reachability tree
	return rt.addChild(selectedParent, blockID)
}

func newReachabilityData(parent model.BlockID) *model.ReachabilityData {
	return &model.ReachabilityData{
		TreeNode: &model.ReachabilityTreeNode{
			Parent: parent,
		},
	}
}

type noopObserver struct{}

func (noopObserver) OnAllocation(model.BlockID, model.BlockID)            {}
func (noopObserver) OnReindex(model.BlockID, uint64)                      {}
func (noopObserver) OnConcentration(model.BlockID, model.BlockID, uint64) {}
