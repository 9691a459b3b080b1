package model

// ReachabilityManager maintains a structure that allows to answer
// reachability queries in sub-linear time
type ReachabilityManager interface {
	AddGenesis(genesis BlockID, interval *ReachabilityInterval) error
	AddBlock(blockID BlockID, selectedParent BlockID) error
	AddToFutureCoveringSet(blockID BlockID, futureBlockID BlockID) error
	IsReachabilityTreeAncestorOf(blockA BlockID, blockB BlockID) (bool, error)
	IsDAGAncestorOf(blockA BlockID, blockB BlockID) (bool, error)
	ConcentrateInterval(ancestor BlockID, chosenChild BlockID) error
	FindAncestorOfThisAmongChildrenOfOther(this BlockID, other BlockID) (BlockID, error)
	ValidateIntervals(root BlockID) error
	String(root BlockID) (string, error)
}

// ReachabilityObserver gets notified on every change the reachability
// manager makes to the interval allocation of the tree.
type ReachabilityObserver interface {
	// OnAllocation is called when child got an interval straight out of
	// parent's remaining capacity.
	OnAllocation(parent BlockID, child BlockID)

	// OnReindex is called after the subtree of reindexRoot, sized
	// subtreeSize, had its intervals re-propagated.
	OnReindex(reindexRoot BlockID, subtreeSize uint64)

	// OnConcentration is called after the siblings of chosenChild were
	// tightened into exact intervals. tightenedSize is the total size of
	// the tightened subtrees.
	OnConcentration(ancestor BlockID, chosenChild BlockID, tightenedSize uint64)
}
