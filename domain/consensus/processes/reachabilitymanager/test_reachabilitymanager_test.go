package reachabilitymanager

import (
	"testing"

	"github.com/kaspanet/ghostdagsim/domain/consensus/datastructures/reachabilitydatastore"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
)

type recordingObserver struct {
	allocations    int
	reindexes      []uint64
	concentrations []uint64
}

func (ro *recordingObserver) OnAllocation(model.BlockID, model.BlockID) {
	ro.allocations++
}

func (ro *recordingObserver) OnReindex(_ model.BlockID, subtreeSize uint64) {
	ro.reindexes = append(ro.reindexes, subtreeSize)
}

func (ro *recordingObserver) OnConcentration(_ model.BlockID, _ model.BlockID, tightenedSize uint64) {
	ro.concentrations = append(ro.concentrations, tightenedSize)
}

type testHelper struct {
	*reachabilityManager
	t        *testing.T
	observer *recordingObserver
	nextID   model.BlockID
}

func newTestHelper(t *testing.T, rootInterval *model.ReachabilityInterval) (*testHelper, model.BlockID) {
	observer := &recordingObserver{}
	manager := New(reachabilitydatastore.New(0), observer).(*reachabilityManager)
	helper := &testHelper{reachabilityManager: manager, t: t, observer: observer}
	root := helper.newID()
	err := manager.AddGenesis(root, rootInterval)
	if err != nil {
		t.Fatalf("AddGenesis: %+v", err)
	}
	return helper, root
}

func (th *testHelper) newID() model.BlockID {
	id := th.nextID
	th.nextID++
	return id
}

func (th *testHelper) addChild(parent model.BlockID) model.BlockID {
	child := th.newID()
	err := th.AddBlock(child, parent)
	if err != nil {
		th.t.Fatalf("AddBlock: %+v", err)
	}
	return child
}

func (th *testHelper) mustInterval(blockID model.BlockID) *model.ReachabilityInterval {
	interval, err := th.interval(blockID)
	if err != nil {
		th.t.Fatalf("interval: %+v", err)
	}
	return interval
}

func (th *testHelper) mustRemaining(blockID model.BlockID) *model.ReachabilityInterval {
	remaining, err := th.remaining(blockID)
	if err != nil {
		th.t.Fatalf("remaining: %+v", err)
	}
	return remaining
}

func (th *testHelper) isTreeAncestorOf(blockA, blockB model.BlockID) bool {
	isAncestor, err := th.IsReachabilityTreeAncestorOf(blockA, blockB)
	if err != nil {
		th.t.Fatalf("IsReachabilityTreeAncestorOf: %+v", err)
	}
	return isAncestor
}

// insertNodeWithInterval stores a detached tree node with a fixed interval.
// It is used to set up future covering sets by hand.
func (th *testHelper) insertNodeWithInterval(start, end uint64) model.BlockID {
	blockID := th.newID()
	th.reachabilityDataStore.Insert(blockID, &model.ReachabilityData{
		TreeNode: &model.ReachabilityTreeNode{
			Parent:    model.NoBlock,
			Interval:  newReachabilityInterval(start, end),
			Remaining: newReachabilityInterval(start, end-1),
		},
	})
	return blockID
}

func newReachabilityDataStoreForTest() model.ReachabilityDataStore {
	return reachabilitydatastore.New(0)
}
