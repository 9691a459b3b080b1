package reachabilitymanager

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/pkg/errors"
)

func TestAddChildChain(t *testing.T) {
	// root -> a -> b -> c...
	helper, root := newTestHelper(t, newReachabilityInterval(1, 100))

	// Add a chain of child nodes just before a reindex occurs (2^6=64 < 100)
	chain := []model.BlockID{root}
	expectedIntervals := []*model.ReachabilityInterval{
		newReachabilityInterval(1, 50),
		newReachabilityInterval(1, 25),
		newReachabilityInterval(1, 12),
		newReachabilityInterval(1, 6),
		newReachabilityInterval(1, 3),
		newReachabilityInterval(1, 1),
	}
	for i, expectedInterval := range expectedIntervals {
		child := helper.addChild(chain[len(chain)-1])
		chain = append(chain, child)
		if !reflect.DeepEqual(helper.mustInterval(child), expectedInterval) {
			t.Fatalf("TestAddChildChain: unexpected interval for chain block #%d. "+
				"want: %s, got: %s", i, expectedInterval, helper.mustInterval(child))
		}
	}
	if helper.observer.allocations != len(expectedIntervals) || len(helper.observer.reindexes) != 0 {
		t.Fatalf("TestAddChildChain: expected %d allocations and no reindexes, got %d and %d",
			len(expectedIntervals), helper.observer.allocations, len(helper.observer.reindexes))
	}

	// Add another node to the tip of the chain to trigger a reindex
	lastChild := helper.addChild(chain[len(chain)-1])
	chain = append(chain, lastChild)

	// The reindex climbs up to the first ancestor whose interval is big enough
	// for its subtree: the block with [1,3] and a subtree of 3
	if !reflect.DeepEqual(helper.observer.reindexes, []uint64{3}) {
		t.Fatalf("TestAddChildChain: unexpected reindexes: %v", helper.observer.reindexes)
	}

	// Expect the tip to have an interval of 1 and remaining interval of 0
	tipInterval := intervalSize(helper.mustInterval(lastChild))
	if tipInterval != 1 {
		t.Fatalf("TestAddChildChain: unexpected tip interval size: want: 1, got: %d", tipInterval)
	}
	tipRemainingInterval := intervalSize(helper.mustRemaining(lastChild))
	if tipRemainingInterval != 0 {
		t.Fatalf("TestAddChildChain: unexpected tip remaining size: want: 0, got: %d", tipRemainingInterval)
	}

	// Expect all nodes to be descendant nodes of all their ancestors
	for i := range chain {
		for j := i; j < len(chain); j++ {
			if !helper.isTreeAncestorOf(chain[i], chain[j]) {
				t.Fatalf("TestAddChildChain: chain block #%d is not an ancestor of chain block #%d", i, j)
			}
			if i != j && helper.isTreeAncestorOf(chain[j], chain[i]) {
				t.Fatalf("TestAddChildChain: chain block #%d is unexpectedly an ancestor of chain block #%d", j, i)
			}
		}
	}

	err := helper.ValidateIntervals(root)
	if err != nil {
		t.Fatalf("TestAddChildChain: ValidateIntervals: %+v", err)
	}
}

func TestAddChildSiblings(t *testing.T) {
	// root -> a, b, c...
	helper, root := newTestHelper(t, newReachabilityInterval(1, 100))

	// The remaining interval of root is halved by every child, so 7
	// children fit in [1,99] before it runs out
	childNodes := make([]model.BlockID, 7)
	for i := range childNodes {
		childNodes[i] = helper.addChild(root)
	}
	if helper.observer.allocations != 7 || len(helper.observer.reindexes) != 0 {
		t.Fatalf("TestAddChildSiblings: expected 7 allocations and no reindexes, got %d and %d",
			helper.observer.allocations, len(helper.observer.reindexes))
	}
	if !intervalIsEmpty(helper.mustRemaining(root)) {
		t.Fatalf("TestAddChildSiblings: expected the remaining interval of root to be empty, got %s",
			helper.mustRemaining(root))
	}

	// Add another node to the root to trigger a reindex
	lastChild := helper.addChild(root)
	childNodes = append(childNodes, lastChild)
	if !reflect.DeepEqual(helper.observer.reindexes, []uint64{9}) {
		t.Fatalf("TestAddChildSiblings: unexpected reindexes: %v", helper.observer.reindexes)
	}

	for i, childNode := range childNodes {
		if !helper.isTreeAncestorOf(root, childNode) {
			t.Fatalf("TestAddChildSiblings: child #%d is not a descendant of root", i)
		}
		for j, sibling := range childNodes {
			if i != j && helper.isTreeAncestorOf(childNode, sibling) {
				t.Fatalf("TestAddChildSiblings: child #%d is unexpectedly an ancestor of child #%d", i, j)
			}
		}
	}

	err := helper.ValidateIntervals(root)
	if err != nil {
		t.Fatalf("TestAddChildSiblings: ValidateIntervals: %+v", err)
	}
}

func TestTreeOverflow(t *testing.T) {
	helper, root := newTestHelper(t, newReachabilityInterval(1, 4))

	// A root interval of size 4 indexes at most 4 blocks
	current := root
	for i := 0; i < 3; i++ {
		current = helper.addChild(current)
	}

	err := helper.AddBlock(helper.newID(), current)
	if !errors.Is(err, ErrTreeOverflow) {
		t.Fatalf("TestTreeOverflow: expected ErrTreeOverflow, got: %v", err)
	}
}

func TestAddGenesisInvalidInterval(t *testing.T) {
	tests := []*model.ReachabilityInterval{
		newReachabilityInterval(5, 4),
		newReachabilityInterval(5, 5),
		newReachabilityInterval(0, ^uint64(0)),
	}
	for i, interval := range tests {
		manager := New(newReachabilityDataStoreForTest(), nil)
		err := manager.AddGenesis(0, interval)
		if err == nil {
			t.Errorf("TestAddGenesisInvalidInterval: expected an error in test #%d", i)
		}
	}
}

func TestReindexPreservesTreeAncestry(t *testing.T) {
	helper, root := newTestHelper(t, newReachabilityInterval(1, 2000))
	random := rand.New(rand.NewSource(42))

	parents := map[model.BlockID]model.BlockID{root: model.NoBlock}
	blocks := []model.BlockID{root}
	for i := 0; i < 400; i++ {
		// Favor recent blocks so that the tree grows deep as well as wide
		var parent model.BlockID
		if random.Intn(4) == 0 {
			parent = blocks[random.Intn(len(blocks))]
		} else {
			parent = blocks[len(blocks)-1-random.Intn(minInt(len(blocks), 3))]
		}
		child := helper.addChild(parent)
		parents[child] = parent
		blocks = append(blocks, child)

		err := helper.ValidateIntervals(root)
		if err != nil {
			t.Fatalf("TestReindexPreservesTreeAncestry: ValidateIntervals after block %s: %+v", child, err)
		}
	}
	if len(helper.observer.reindexes) == 0 {
		t.Fatalf("TestReindexPreservesTreeAncestry: expected at least one reindex")
	}

	isAncestorByWalking := func(ancestor, block model.BlockID) bool {
		for current := block; current != model.NoBlock; current = parents[current] {
			if current == ancestor {
				return true
			}
		}
		return false
	}
	for _, blockA := range blocks {
		for _, blockB := range blocks {
			expected := isAncestorByWalking(blockA, blockB)
			if helper.isTreeAncestorOf(blockA, blockB) != expected {
				t.Fatalf("TestReindexPreservesTreeAncestry: IsReachabilityTreeAncestorOf(%s, %s) "+
					"should be %t", blockA, blockB, expected)
			}
		}
	}
}

func TestReindexIdempotent(t *testing.T) {
	helper, root := newTestHelper(t, newReachabilityInterval(1, 1000))
	a := helper.addChild(root)
	b := helper.addChild(root)
	a1 := helper.addChild(a)
	a2 := helper.addChild(a)
	b1 := helper.addChild(b)
	blocks := []model.BlockID{root, a, b, a1, a2, b1}

	relations := func() map[[2]model.BlockID]bool {
		result := make(map[[2]model.BlockID]bool)
		for _, blockA := range blocks {
			for _, blockB := range blocks {
				result[[2]model.BlockID{blockA, blockB}] = helper.isTreeAncestorOf(blockA, blockB)
			}
		}
		return result
	}
	before := relations()

	// Force a reindex of the whole tree even though capacity is available
	subTreeSizeMap := make(map[model.BlockID]uint64)
	err := helper.countSubtrees(root, subTreeSizeMap)
	if err != nil {
		t.Fatalf("countSubtrees: %+v", err)
	}
	if subTreeSizeMap[root] != uint64(len(blocks)) {
		t.Fatalf("TestReindexIdempotent: unexpected subtree size of root: want: %d, got: %d",
			len(blocks), subTreeSizeMap[root])
	}
	if subTreeSizeMap[a] != 3 || subTreeSizeMap[b] != 2 {
		t.Fatalf("TestReindexIdempotent: unexpected subtree sizes of a and b: %d, %d",
			subTreeSizeMap[a], subTreeSizeMap[b])
	}
	err = helper.propagateInterval(root, helper.mustInterval(root).Clone(), subTreeSizeMap)
	if err != nil {
		t.Fatalf("propagateInterval: %+v", err)
	}

	after := relations()
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("TestReindexIdempotent: reindexing changed ancestry relations")
	}
	err = helper.ValidateIntervals(root)
	if err != nil {
		t.Fatalf("TestReindexIdempotent: ValidateIntervals: %+v", err)
	}
}

func TestConcentrateInterval(t *testing.T) {
	helper, root := newTestHelper(t, newReachabilityInterval(1, 100))
	a := helper.addChild(root)
	b := helper.addChild(root)
	c := helper.addChild(root)
	b1 := helper.addChild(b)

	expectedIntervals := map[model.BlockID]*model.ReachabilityInterval{
		a:  newReachabilityInterval(1, 50),
		b:  newReachabilityInterval(51, 75),
		c:  newReachabilityInterval(76, 87),
		b1: newReachabilityInterval(51, 62),
	}
	for block, expectedInterval := range expectedIntervals {
		if !reflect.DeepEqual(helper.mustInterval(block), expectedInterval) {
			t.Fatalf("TestConcentrateInterval: unexpected interval for block %s before concentration. "+
				"want: %s, got: %s", block, expectedInterval, helper.mustInterval(block))
		}
	}

	err := helper.ConcentrateInterval(root, b)
	if err != nil {
		t.Fatalf("ConcentrateInterval: %+v", err)
	}

	expectedIntervals = map[model.BlockID]*model.ReachabilityInterval{
		a:  newReachabilityInterval(1, 1),
		b:  newReachabilityInterval(2, 98),
		c:  newReachabilityInterval(99, 99),
		b1: newReachabilityInterval(51, 62),
	}
	for block, expectedInterval := range expectedIntervals {
		if !reflect.DeepEqual(helper.mustInterval(block), expectedInterval) {
			t.Fatalf("TestConcentrateInterval: unexpected interval for block %s after concentration. "+
				"want: %s, got: %s", block, expectedInterval, helper.mustInterval(block))
		}
	}
	expectedRemaining := newReachabilityInterval(63, 97)
	if !reflect.DeepEqual(helper.mustRemaining(b), expectedRemaining) {
		t.Fatalf("TestConcentrateInterval: unexpected remaining interval for b. want: %s, got: %s",
			expectedRemaining, helper.mustRemaining(b))
	}
	if !reflect.DeepEqual(helper.observer.concentrations, []uint64{2}) {
		t.Fatalf("TestConcentrateInterval: unexpected concentrations: %v", helper.observer.concentrations)
	}

	// b keeps growing out of the freed capacity
	b2 := helper.addChild(b)
	expectedB2Interval := newReachabilityInterval(63, 80)
	if !reflect.DeepEqual(helper.mustInterval(b2), expectedB2Interval) {
		t.Fatalf("TestConcentrateInterval: unexpected interval for b2. want: %s, got: %s",
			expectedB2Interval, helper.mustInterval(b2))
	}

	if helper.isTreeAncestorOf(b, root) || helper.isTreeAncestorOf(a, b) || helper.isTreeAncestorOf(b, c) {
		t.Fatalf("TestConcentrateInterval: concentration created a false ancestry relation")
	}
	if !helper.isTreeAncestorOf(b, b1) || !helper.isTreeAncestorOf(b, b2) {
		t.Fatalf("TestConcentrateInterval: concentration broke b's subtree")
	}

	err = helper.ValidateIntervals(root)
	if err != nil {
		t.Fatalf("TestConcentrateInterval: ValidateIntervals: %+v", err)
	}
}

func TestFindAncestorOfThisAmongChildrenOfOther(t *testing.T) {
	helper, root := newTestHelper(t, newReachabilityInterval(1, 1000))
	a := helper.addChild(root)
	b := helper.addChild(root)
	c := helper.addChild(root)
	b1 := helper.addChild(b)
	b2 := helper.addChild(b1)

	ancestor, err := helper.FindAncestorOfThisAmongChildrenOfOther(b2, root)
	if err != nil {
		t.Fatalf("FindAncestorOfThisAmongChildrenOfOther: %+v", err)
	}
	if ancestor != b {
		t.Fatalf("TestFindAncestorOfThisAmongChildrenOfOther: want: %s, got: %s", b, ancestor)
	}

	_, err = helper.FindAncestorOfThisAmongChildrenOfOther(c, a)
	if err == nil {
		t.Fatalf("TestFindAncestorOfThisAmongChildrenOfOther: expected an error for unrelated blocks")
	}
}

func TestString(t *testing.T) {
	helper, root := newTestHelper(t, newReachabilityInterval(1, 100))
	helper.addChild(root)
	helper.addChild(root)

	str, err := helper.String(root)
	if err != nil {
		t.Fatalf("String: %+v", err)
	}
	expected := "[1,50][51,75]\n[1,100]"
	if str != expected {
		t.Fatalf("TestString: want: %q, got: %q", expected, str)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
