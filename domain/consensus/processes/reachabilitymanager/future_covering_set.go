package reachabilitymanager

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
)

// AddToFutureCoveringSet registers futureBlockID as a block in the future
// of blockID. The set stays ordered by interval:
//   - if a block in the set is already a tree ancestor of futureBlockID,
//     the set already covers it and nothing is inserted
//   - if futureBlockID is a tree ancestor of a block in the set, it
//     replaces that block
//   - otherwise it is inserted at its ordered position
func (rt *reachabilityManager) AddToFutureCoveringSet(blockID, futureBlockID model.BlockID) error {
	futureCoveringSet, err := rt.futureCoveringSet(blockID)
	if err != nil {
		return err
	}

	futureInterval, err := rt.interval(futureBlockID)
	if err != nil {
		return err
	}

	ancestorIndex, ok, err := rt.findAncestorIndexOfNode(futureCoveringSet, futureBlockID)
	if err != nil {
		return err
	}

	insertionIndex := 0
	if ok {
		candidate := futureCoveringSet[ancestorIndex]
		candidateInterval, err := rt.interval(candidate)
		if err != nil {
			return err
		}

		if intervalContainsIndex(candidateInterval, futureInterval.End) {
			// candidate is an ancestor of futureBlockID, no need to insert
			return nil
		}

		if intervalContainsIndex(futureInterval, candidateInterval.End) {
			// futureBlockID is an ancestor of candidate, and can thus replace it
			futureCoveringSet[ancestorIndex] = futureBlockID
			return nil
		}

		insertionIndex = ancestorIndex + 1
	}

	// Insert futureBlockID in the correct index to maintain futureCoveringSet
	// as a sorted-by-interval list.
	// Note that insertionIndex might be equal to len(futureCoveringSet)
	newSet := make(model.FutureCoveringTreeNodeSet, 0, len(futureCoveringSet)+1)
	newSet = append(newSet, futureCoveringSet[:insertionIndex]...)
	newSet = append(newSet, futureBlockID)
	newSet = append(newSet, futureCoveringSet[insertionIndex:]...)
	return rt.stageFutureCoveringSet(blockID, newSet)
}

// futureCoveringSetHasAncestorOf resolves whether the given block is in
// the subtree of any of the blocks in the future covering set of
// blockID. It runs a binary search over the set, so the query takes
// O(log(|futureCoveringSet|)).
func (rt *reachabilityManager) futureCoveringSetHasAncestorOf(blockID, other model.BlockID) (bool, error) {
	futureCoveringSet, err := rt.futureCoveringSet(blockID)
	if err != nil {
		return false, err
	}

	ancestorIndex, ok, err := rt.findAncestorIndexOfNode(futureCoveringSet, other)
	if err != nil {
		return false, err
	}

	if !ok {
		// No candidate to contain other
		return false, nil
	}

	candidate := futureCoveringSet[ancestorIndex]
	return rt.IsReachabilityTreeAncestorOf(candidate, other)
}

// IsDAGAncestorOf returns true if blockA is an ancestor of blockB in the
// DAG. A block counts as its own ancestor.
//
// Note: this method will return true if blockA == blockB
// The complexity of this method is O(log(|futureCoveringSet(blockA)|))
func (rt *reachabilityManager) IsDAGAncestorOf(blockA, blockB model.BlockID) (bool, error) {
	// Check if this node is a reachability tree ancestor of the
	// other node
	isReachabilityTreeAncestor, err := rt.IsReachabilityTreeAncestorOf(blockA, blockB)
	if err != nil {
		return false, err
	}
	if isReachabilityTreeAncestor {
		return true, nil
	}

	// Otherwise, use previously registered future blocks to complete the
	// reachability test
	return rt.futureCoveringSetHasAncestorOf(blockA, blockB)
}
