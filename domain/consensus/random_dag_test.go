package consensus_test

import (
	"math/rand"
	"testing"

	"github.com/kaspanet/ghostdagsim/domain/consensus"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/consensus/ruleerrors"
	"github.com/kaspanet/ghostdagsim/domain/consensus/utils/hashes"
)

// TestRandomDAG builds a DAG out of blocks whose parents are the tips of
// a lagging view of the DAG, the way a node with network delay would
// mine, and checks the invariants of the resulting ordering.
func TestRandomDAG(t *testing.T) {
	const (
		blockCount = 300
		lag        = 4
	)
	dag := newTestDAG(t, newTestParams(4, 12))
	random := rand.New(rand.NewSource(22522))

	tipsHistory := [][]*externalapi.DomainHash{dag.Tips()}
	finalityViolations := 0
	for i := 0; i < blockCount; i++ {
		view := tipsHistory[len(tipsHistory)-1]
		if len(tipsHistory) > lag {
			view = tipsHistory[len(tipsHistory)-1-random.Intn(lag)]
		}
		parents := randomNonEmptySubset(random, view)

		blockHash := hashes.FromUint64(uint64(i + 1))
		previousFinalized := dag.Finalized()
		previousBlockCount := dag.BlockCount()
		blockInfo, err := dag.AddNewBlock(blockHash, parents)
		if err != nil {
			if !ruleerrors.IsFinalityViolation(err) {
				t.Fatalf("AddNewBlock: %+v", err)
			}
			finalityViolations++
			if dag.BlockCount() != previousBlockCount {
				t.Fatalf("a rejected block must not be added")
			}
			continue
		}
		tipsHistory = append(tipsHistory, dag.Tips())

		if blockInfo.LocalIndex != uint64(previousBlockCount) {
			t.Fatalf("expected local index %d, got %d", previousBlockCount, blockInfo.LocalIndex)
		}
		selectedParentBlueScore := mustBlueScore(t, dag, blockInfo.SelectedParent)
		expectedBlueScore := selectedParentBlueScore + 1 + uint64(len(blockInfo.MergeSetBlues))
		if blockInfo.BlueScore != expectedBlueScore {
			t.Fatalf("block %s: expected blue score %d, got %d", blockHash, expectedBlueScore, blockInfo.BlueScore)
		}
		if len(blockInfo.MergeSetBlues) > int(dag.Params().K) {
			t.Fatalf("block %s has %d merge set blues", blockHash, len(blockInfo.MergeSetBlues))
		}
		for _, parent := range parents {
			if mustBlueScore(t, dag, parent) > selectedParentBlueScore {
				t.Fatalf("block %s: parent %s has a higher blue score than the selected parent", blockHash, parent)
			}
			isAncestorOf, err := dag.IsAncestorOf(parent, blockHash)
			if err != nil {
				t.Fatalf("IsAncestorOf: %+v", err)
			}
			if !isAncestorOf {
				t.Fatalf("parent %s is expected to be an ancestor of %s", parent, blockHash)
			}
		}

		isPreviousFinalizedInChain, err := dag.IsInSelectedChainOf(previousFinalized, dag.Finalized())
		if err != nil {
			t.Fatalf("IsInSelectedChainOf: %+v", err)
		}
		if !isPreviousFinalizedInChain {
			t.Fatalf("the finalized block moved off the chain of the previously finalized block")
		}
		isFinalizedInChain, err := dag.IsInSelectedChainOf(dag.Finalized(), dag.Virtual())
		if err != nil {
			t.Fatalf("IsInSelectedChainOf: %+v", err)
		}
		if !isFinalizedInChain {
			t.Fatalf("the finalized block is not on the selected chain of the virtual")
		}
	}

	var maxBlueScore uint64
	for _, tip := range dag.Tips() {
		blueScore := mustBlueScore(t, dag, tip)
		if blueScore > maxBlueScore {
			maxBlueScore = blueScore
		}
	}
	if mustBlueScore(t, dag, dag.Virtual()) != maxBlueScore {
		t.Fatalf("expected the virtual to have the highest blue score %d", maxBlueScore)
	}
	if mustBlueScore(t, dag, dag.Finalized())+dag.Params().FinalityWindow > maxBlueScore {
		t.Fatalf("the finalized block is not buried under a full finality window")
	}

	err := dag.ValidateIntervals()
	if err != nil {
		t.Fatalf("ValidateIntervals: %+v", err)
	}

	exported, err := dag.Export()
	if err != nil {
		t.Fatalf("Export: %+v", err)
	}
	if len(exported) != dag.BlockCount() {
		t.Fatalf("expected %d exported blocks, got %d", dag.BlockCount(), len(exported))
	}
	if len(exported[0].Parents) != 0 {
		t.Fatalf("expected genesis to be exported with no parents")
	}

	stats, err := dag.Stats()
	if err != nil {
		t.Fatalf("Stats: %+v", err)
	}
	if stats.BlockCount != dag.BlockCount() || stats.AverageParents <= 0 {
		t.Fatalf("unexpected stats: %s", stats)
	}
	t.Logf("%d finality violations, %s", finalityViolations, stats)
}

type countingObserver struct {
	allocations    int
	reindexes      int
	concentrations int
}

func (o *countingObserver) OnAllocation(model.BlockID, model.BlockID) { o.allocations++ }
func (o *countingObserver) OnReindex(model.BlockID, uint64)           { o.reindexes++ }
func (o *countingObserver) OnConcentration(model.BlockID, model.BlockID, uint64) {
	o.concentrations++
}

// TestRandomDAGAncestryUnderTightIntervals runs random DAGs in a genesis
// interval small enough to force reindexing, with a finality window short
// enough to concentrate intervals often, and compares IsAncestorOf against
// past sets computed from the parents.
func TestRandomDAGAncestryUnderTightIntervals(t *testing.T) {
	const (
		blockCount = 200
		lag        = 4
	)
	for _, seed := range []int64{1, 2, 3, 4, 5, 6} {
		params := newTestParams(4, 6)
		params.GenesisInterval = model.ReachabilityInterval{Start: 1, End: 2000}
		observer := &countingObserver{}
		dag, err := consensus.New(params, observer)
		if err != nil {
			t.Fatalf("New: %+v", err)
		}
		random := rand.New(rand.NewSource(seed))

		past := map[externalapi.DomainHash]map[externalapi.DomainHash]struct{}{
			*dag.Genesis(): {*dag.Genesis(): {}},
		}
		tipsHistory := [][]*externalapi.DomainHash{dag.Tips()}
		for i := 0; i < blockCount; i++ {
			view := tipsHistory[len(tipsHistory)-1]
			if len(tipsHistory) > lag {
				view = tipsHistory[len(tipsHistory)-1-random.Intn(lag)]
			}
			parents := randomNonEmptySubset(random, view)

			blockHash := hashes.FromUint64(uint64(i + 1))
			_, err := dag.AddNewBlock(blockHash, parents)
			if err != nil {
				if !ruleerrors.IsFinalityViolation(err) {
					t.Fatalf("seed %d: AddNewBlock: %+v", seed, err)
				}
				continue
			}
			tipsHistory = append(tipsHistory, dag.Tips())

			blockPast := map[externalapi.DomainHash]struct{}{*blockHash: {}}
			for _, parent := range parents {
				for ancestor := range past[*parent] {
					blockPast[ancestor] = struct{}{}
				}
			}
			past[*blockHash] = blockPast
		}

		if observer.reindexes == 0 || observer.concentrations == 0 {
			t.Fatalf("seed %d: expected both reindexes and concentrations, got %d reindexes and %d concentrations",
				seed, observer.reindexes, observer.concentrations)
		}
		err = dag.ValidateIntervals()
		if err != nil {
			t.Fatalf("seed %d: ValidateIntervals: %+v", seed, err)
		}

		blockHashes := dag.BlockHashes()
		mismatches := 0
		for _, a := range blockHashes {
			for _, b := range blockHashes {
				isAncestorOf, err := dag.IsAncestorOf(a, b)
				if err != nil {
					t.Fatalf("seed %d: IsAncestorOf: %+v", seed, err)
				}
				_, expected := past[*b][*a]
				if isAncestorOf != expected {
					mismatches++
					t.Errorf("seed %d: IsAncestorOf(%s, %s): expected %t, got %t", seed, a, b, expected, isAncestorOf)
				}
			}
		}
		if mismatches > 0 {
			t.Fatalf("seed %d: %d ancestry mismatches over %d blocks", seed, mismatches, len(blockHashes))
		}
	}
}

func randomNonEmptySubset(random *rand.Rand, blockHashes []*externalapi.DomainHash) []*externalapi.DomainHash {
	subset := make([]*externalapi.DomainHash, 0, len(blockHashes))
	for _, blockHash := range blockHashes {
		if random.Intn(3) > 0 {
			subset = append(subset, blockHash)
		}
	}
	if len(subset) == 0 {
		subset = append(subset, blockHashes[random.Intn(len(blockHashes))])
	}
	return subset
}
