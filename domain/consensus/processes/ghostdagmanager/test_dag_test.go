package ghostdagmanager_test

import (
	"math"
	"testing"

	"github.com/kaspanet/ghostdagsim/domain/consensus/datastructures/blockindex"
	"github.com/kaspanet/ghostdagsim/domain/consensus/datastructures/blockrelationstore"
	"github.com/kaspanet/ghostdagsim/domain/consensus/datastructures/ghostdagdatastore"
	"github.com/kaspanet/ghostdagsim/domain/consensus/datastructures/reachabilitydatastore"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/kaspanet/ghostdagsim/domain/consensus/processes/ghostdagmanager"
	"github.com/kaspanet/ghostdagsim/domain/consensus/processes/reachabilitymanager"
	"github.com/kaspanet/ghostdagsim/domain/consensus/utils/hashes"
)

const genesisHash = 1 << 32

// testDAG wires the stores and managers the same way the consensus
// facade does, without any of its validation.
type testDAG struct {
	t                   *testing.T
	blockIndex          model.BlockIndex
	blockRelationStore  model.BlockRelationStore
	ghostdagDataStore   model.GHOSTDAGDataStore
	reachabilityManager model.ReachabilityManager
	ghostdagManager     model.GHOSTDAGManager
	genesis             model.BlockID
}

func newTestDAG(t *testing.T, k model.KType) *testDAG {
	td := &testDAG{
		t:                  t,
		blockIndex:         blockindex.New(0),
		blockRelationStore: blockrelationstore.New(0),
		ghostdagDataStore:  ghostdagdatastore.New(0),
	}
	td.reachabilityManager = reachabilitymanager.New(reachabilitydatastore.New(0), nil)
	td.ghostdagManager = ghostdagmanager.New(td.blockIndex, td.blockRelationStore, td.ghostdagDataStore,
		td.reachabilityManager, k)

	genesis, err := td.blockIndex.Add(hashes.FromUint64(genesisHash))
	if err != nil {
		t.Fatalf("Add: %+v", err)
	}
	td.genesis = genesis
	td.blockRelationStore.Insert(genesis, &model.BlockRelations{})
	td.ghostdagDataStore.Insert(genesis, model.NewBlockGHOSTDAGData(1, model.NoBlock, nil, nil,
		map[model.BlockID]model.KType{}))
	err = td.reachabilityManager.AddGenesis(genesis, &model.ReachabilityInterval{Start: 1, End: math.MaxUint64 - 1})
	if err != nil {
		t.Fatalf("AddGenesis: %+v", err)
	}
	return td
}

func (td *testDAG) addBlock(hash uint64, parents ...model.BlockID) model.BlockID {
	blockID, err := td.blockIndex.Add(hashes.FromUint64(hash))
	if err != nil {
		td.t.Fatalf("Add: %+v", err)
	}
	td.blockRelationStore.Insert(blockID, &model.BlockRelations{Parents: parents})
	for _, parent := range parents {
		err := td.blockRelationStore.AddChild(parent, blockID)
		if err != nil {
			td.t.Fatalf("AddChild: %+v", err)
		}
	}

	selectedParent, err := td.ghostdagManager.ChooseSelectedParent(parents...)
	if err != nil {
		td.t.Fatalf("ChooseSelectedParent: %+v", err)
	}
	err = td.reachabilityManager.AddBlock(blockID, selectedParent)
	if err != nil {
		td.t.Fatalf("AddBlock: %+v", err)
	}
	err = td.ghostdagManager.GHOSTDAG(blockID)
	if err != nil {
		td.t.Fatalf("GHOSTDAG: %+v", err)
	}
	return blockID
}

func (td *testDAG) ghostdagData(blockID model.BlockID) *model.BlockGHOSTDAGData {
	ghostdagData, err := td.ghostdagDataStore.Get(blockID)
	if err != nil {
		td.t.Fatalf("Get: %+v", err)
	}
	return ghostdagData
}

func (td *testDAG) isBlue(blockID, context model.BlockID) bool {
	isBlue, err := td.ghostdagManager.IsBlue(blockID, context)
	if err != nil {
		td.t.Fatalf("IsBlue: %+v", err)
	}
	return isBlue
}

func (td *testDAG) isDAGAncestorOf(blockA, blockB model.BlockID) bool {
	isAncestor, err := td.reachabilityManager.IsDAGAncestorOf(blockA, blockB)
	if err != nil {
		td.t.Fatalf("IsDAGAncestorOf: %+v", err)
	}
	return isAncestor
}
