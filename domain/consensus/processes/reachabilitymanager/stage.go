package reachabilitymanager

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
)

// stageInterval sets the interval of node and resets its remaining
// interval to everything but the last index, which is reserved for node
// itself. This keeps every ancestor interval a strict superset of its
// descendants' intervals.
func (rt *reachabilityManager) stageInterval(node model.BlockID, interval *model.ReachabilityInterval) error {
	treeNode, err := rt.treeNode(node)
	if err != nil {
		return err
	}
	treeNode.Interval = interval
	treeNode.Remaining = intervalRangeForChildAllocation(interval)
	return nil
}

func (rt *reachabilityManager) stageRemaining(node model.BlockID, remaining *model.ReachabilityInterval) error {
	treeNode, err := rt.treeNode(node)
	if err != nil {
		return err
	}
	treeNode.Remaining = remaining
	return nil
}

// stageEmptyRemaining marks all of node's allocation range as handed out.
func (rt *reachabilityManager) stageEmptyRemaining(node model.BlockID) error {
	treeNode, err := rt.treeNode(node)
	if err != nil {
		return err
	}
	treeNode.Remaining = newReachabilityInterval(treeNode.Interval.End, treeNode.Interval.End-1)
	return nil
}

func (rt *reachabilityManager) addChildAndStage(node, child model.BlockID) error {
	treeNode, err := rt.treeNode(node)
	if err != nil {
		return err
	}
	treeNode.Children = append(treeNode.Children, child)
	return nil
}

func (rt *reachabilityManager) stageFutureCoveringSet(node model.BlockID, set model.FutureCoveringTreeNodeSet) error {
	data, err := rt.data(node)
	if err != nil {
		return err
	}
	data.FutureCoveringSet = set
	return nil
}

// intervalRangeForChildAllocation returns the part of interval its
// owner may hand out to children. We subtract 1 from the end of the
// range to prevent the node from allocating the entire interval to its
// child, so its interval would *strictly* contain the interval of its child.
func intervalRangeForChildAllocation(interval *model.ReachabilityInterval) *model.ReachabilityInterval {
	return newReachabilityInterval(interval.Start, interval.End-1)
}
