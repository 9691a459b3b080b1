package reachabilitymanager

import (
	"strings"
	"time"

	"github.com/gammazero/deque"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/pkg/errors"
)

// ErrTreeOverflow is returned when reindexing cannot find an ancestor
// with enough interval capacity for its subtree. With a 64 bit root
// interval this requires more blocks than can ever be created, so
// callers should treat it as a broken invariant.
var ErrTreeOverflow = errors.New("reachability tree overflow")

// addChild adds child to this tree node. If this node has no
// remaining interval to allocate, a reindexing is triggered.
func (rt *reachabilityManager) addChild(node, child model.BlockID) error {
	remaining, err := rt.remaining(node)
	if err != nil {
		return err
	}

	// Set the parent-child relationship
	err = rt.addChildAndStage(node, child)
	if err != nil {
		return err
	}

	// Temporarily set the child's interval to be empty, at
	// the start of node's remaining interval.
	childNode, err := rt.treeNode(child)
	if err != nil {
		return err
	}
	childNode.Interval = newReachabilityInterval(remaining.Start, remaining.Start-1)
	childNode.Remaining = childNode.Interval.Clone()

	// No allocation space left -- reindex
	if intervalIsEmpty(remaining) {
		reindexStartTime := time.Now()
		err := rt.reindexIntervals(node)
		if err != nil {
			return err
		}
		reindexTimeElapsed := time.Since(reindexStartTime)
		log.Debugf("Reachability reindex triggered for "+
			"block %s. Took %dms.",
			node, reindexTimeElapsed.Milliseconds())
		return nil
	}

	// Allocate from the remaining space
	allocated, right, err := intervalSplitInHalf(remaining)
	if err != nil {
		return err
	}

	err = rt.stageInterval(child, allocated)
	if err != nil {
		return err
	}
	err = rt.stageRemaining(node, right)
	if err != nil {
		return err
	}
	rt.observer.OnAllocation(node, child)
	return nil
}

// reindexIntervals traverses the reachability subtree that's
// defined by this node and reallocates reachability interval space
// such that another reindexing is unlikely to occur shortly
// thereafter. It does this by traversing up the reachability
// tree until it finds a node with an interval size that's greater than
// or equal to its subtree size. See propagateInterval for further details.
func (rt *reachabilityManager) reindexIntervals(node model.BlockID) error {
	current := node

	// Initial interval and subtree sizes
	currentInterval, err := rt.interval(node)
	if err != nil {
		return err
	}

	size := intervalSize(currentInterval)
	subTreeSizeMap := make(map[model.BlockID]uint64)
	err = rt.countSubtrees(current, subTreeSizeMap)
	if err != nil {
		return err
	}

	currentSubtreeSize := subTreeSizeMap[current]

	// Find the first ancestor that has sufficient interval space
	for size < currentSubtreeSize {
		currentParent, err := rt.parent(current)
		if err != nil {
			return err
		}

		if currentParent == model.NoBlock {
			// If we ended up here it means that there are more
			// blocks than the root interval can index, which
			// shouldn't ever happen.
			return errors.Wrapf(ErrTreeOverflow, "root %s with interval %s "+
				"cannot index a subtree of %d blocks", current, currentInterval, currentSubtreeSize)
		}
		current = currentParent
		currentInterval, err = rt.interval(current)
		if err != nil {
			return err
		}

		size = intervalSize(currentInterval)
		err = rt.countSubtrees(current, subTreeSizeMap)
		if err != nil {
			return err
		}

		currentSubtreeSize = subTreeSizeMap[current]
	}

	// Propagate the interval to the subtree
	err = rt.propagateInterval(current, currentInterval, subTreeSizeMap)
	if err != nil {
		return err
	}
	rt.observer.OnReindex(current, currentSubtreeSize)
	return nil
}

// countSubtrees counts the size of each subtree under this node,
// and populates the provided subTreeSizeMap with the results.
// It is equivalent to the following recursive implementation:
//
//	func (rt *reachabilityManager) countSubtrees(node *model.ReachabilityTreeNode) uint64 {
//	    subtreeSize := uint64(0)
//	    for _, child := range node.children {
//	        subtreeSize += child.countSubtrees()
//	    }
//	    return subtreeSize + 1
//	}
//
// However, we are expecting (linearly) deep trees, and so a
// recursive stack-based approach is inefficient and will hit
// recursion limits. Instead, the same logic was implemented
// using a (queue-based) BFS method. At a high level, the
// algorithm uses BFS for reaching all leaves and pushes
// intermediate updates from leaves via parent chains until all
// size information is gathered at the root of the operation
// (i.e. at node).
func (rt *reachabilityManager) countSubtrees(node model.BlockID, subTreeSizeMap map[model.BlockID]uint64) error {
	queue := new(deque.Deque[model.BlockID])
	queue.PushBack(node)
	calculatedChildrenCount := make(map[model.BlockID]uint64)
	for queue.Len() > 0 {
		current := queue.PopFront()
		currentChildren, err := rt.children(current)
		if err != nil {
			return err
		}

		if len(currentChildren) == 0 {
			// We reached a leaf
			subTreeSizeMap[current] = 1
		} else if _, ok := subTreeSizeMap[current]; !ok {
			// We haven't yet calculated the subtree size of
			// the current node. Add all its children to the
			// queue
			for _, child := range currentChildren {
				queue.PushBack(child)
			}
			continue
		}

		// We reached a leaf or a pre-calculated subtree.
		// Push information up
		for current != node {
			current, err = rt.parent(current)
			if err != nil {
				return err
			}

			// If the current is now NoBlock, it means that the previous
			// `current` was the genesis block -- the only block that
			// does not have a parent
			if current == model.NoBlock {
				break
			}

			calculatedChildrenCount[current]++

			currentChildren, err := rt.children(current)
			if err != nil {
				return err
			}

			if calculatedChildrenCount[current] != uint64(len(currentChildren)) {
				// Not all subtrees of the current node are ready
				break
			}
			// All children of `current` have calculated their subtree size.
			// Sum them all together and add 1 to get the sub tree size of
			// `current`.
			childSubtreeSizeSum := uint64(0)
			for _, child := range currentChildren {
				childSubtreeSizeSum += subTreeSizeMap[child]
			}
			subTreeSizeMap[current] = childSubtreeSizeSum + 1
		}
	}

	return nil
}

// propagateInterval sets the interval of node and propagates it down
// the subtree using a BFS traversal. Subtree intervals are allocated
// according to subtree sizes and the allocation rule in
// intervalSplitWithExponentialBias. Every node that got its children
// re-allocated is left with an empty remaining interval.
func (rt *reachabilityManager) propagateInterval(node model.BlockID, interval *model.ReachabilityInterval,
	subTreeSizeMap map[model.BlockID]uint64) error {

	err := rt.stageInterval(node, interval)
	if err != nil {
		return err
	}

	queue := new(deque.Deque[model.BlockID])
	queue.PushBack(node)
	for queue.Len() > 0 {
		current := queue.PopFront()

		currentChildren, err := rt.children(current)
		if err != nil {
			return err
		}

		if len(currentChildren) == 0 {
			continue
		}

		sizes := make([]uint64, len(currentChildren))
		for i, child := range currentChildren {
			sizes[i] = subTreeSizeMap[child]
		}

		currentInterval, err := rt.interval(current)
		if err != nil {
			return err
		}

		intervals, err := intervalSplitWithExponentialBias(intervalRangeForChildAllocation(currentInterval), sizes)
		if err != nil {
			return err
		}
		for i, child := range currentChildren {
			err = rt.stageInterval(child, intervals[i])
			if err != nil {
				return err
			}
			queue.PushBack(child)
		}

		err = rt.stageEmptyRemaining(current)
		if err != nil {
			return err
		}
	}
	return nil
}

// ConcentrateInterval packs all tree children of ancestor other than
// chosenChild into tight intervals sized exactly to their subtrees, at
// both ends of ancestor's interval, and widens chosenChild's interval
// over all the space freed in between. chosenChild's new interval always
// contains its previous one, so no propagation into its subtree is
// required.
func (rt *reachabilityManager) ConcentrateInterval(ancestor, chosenChild model.BlockID) error {
	childrenBeforeChosen, childrenAfterChosen, err := rt.splitChildrenAroundChild(ancestor, chosenChild)
	if err != nil {
		return err
	}

	beforeSizes, beforeSubtreeSizeMaps, beforeSizesSum, err := rt.calcReachabilityTreeNodeSizes(childrenBeforeChosen)
	if err != nil {
		return err
	}
	afterSizes, afterSubtreeSizeMaps, afterSizesSum, err := rt.calcReachabilityTreeNodeSizes(childrenAfterChosen)
	if err != nil {
		return err
	}

	ancestorInterval, err := rt.interval(ancestor)
	if err != nil {
		return err
	}
	allocationRange := intervalRangeForChildAllocation(ancestorInterval)

	chosenChildInterval, err := rt.interval(chosenChild)
	if err != nil {
		return err
	}
	newChosenChildInterval := newReachabilityInterval(
		allocationRange.Start+beforeSizesSum,
		allocationRange.End-afterSizesSum,
	)
	if !intervalContains(newChosenChildInterval, chosenChildInterval) {
		return errors.Errorf("concentrated interval %s of block %s does not contain its "+
			"current interval %s", newChosenChildInterval, chosenChild, chosenChildInterval)
	}

	intervalBeforeChosen := newReachabilityInterval(allocationRange.Start, newChosenChildInterval.Start-1)
	err = rt.propagateChildIntervals(intervalBeforeChosen, childrenBeforeChosen, beforeSizes, beforeSubtreeSizeMaps)
	if err != nil {
		return err
	}

	intervalAfterChosen := newReachabilityInterval(newChosenChildInterval.End+1, allocationRange.End)
	err = rt.propagateChildIntervals(intervalAfterChosen, childrenAfterChosen, afterSizes, afterSubtreeSizeMaps)
	if err != nil {
		return err
	}

	// The indexes freed above the old interval directly follow
	// chosenChild's current remaining interval and are merged into it. The
	// indexes freed below it only widen the interval and never become
	// remaining.
	chosenChildRemaining, err := rt.remaining(chosenChild)
	if err != nil {
		return err
	}
	chosenChildNode, err := rt.treeNode(chosenChild)
	if err != nil {
		return err
	}
	chosenChildNode.Interval = newChosenChildInterval
	chosenChildNode.Remaining = newReachabilityInterval(chosenChildRemaining.Start, newChosenChildInterval.End-1)

	err = rt.stageEmptyRemaining(ancestor)
	if err != nil {
		return err
	}

	tightenedSize := beforeSizesSum + afterSizesSum
	log.Debugf("Concentrated the interval of block %s around %s. Tightened %d blocks, %s now spans %s",
		ancestor, chosenChild, tightenedSize, chosenChild, newChosenChildInterval)
	rt.observer.OnConcentration(ancestor, chosenChild, tightenedSize)
	return nil
}

// splitChildrenAroundChild splits the children of `node` into two slices:
// the nodes that are before `child` and the nodes that are after.
func (rt *reachabilityManager) splitChildrenAroundChild(node, child model.BlockID) (
	nodesBeforeChild, nodesAfterChild []model.BlockID, err error) {

	nodeChildren, err := rt.children(node)
	if err != nil {
		return nil, nil, err
	}

	for i, candidateChild := range nodeChildren {
		if candidateChild == child {
			return nodeChildren[:i], nodeChildren[i+1:], nil
		}
	}
	return nil, nil, errors.Errorf("block %s is not a tree child of %s", child, node)
}

func (rt *reachabilityManager) calcReachabilityTreeNodeSizes(treeNodes []model.BlockID) (
	sizes []uint64, subtreeSizeMaps []map[model.BlockID]uint64, sum uint64, err error) {

	sizes = make([]uint64, len(treeNodes))
	subtreeSizeMaps = make([]map[model.BlockID]uint64, len(treeNodes))
	sum = 0
	for i, node := range treeNodes {
		subtreeSizeMap := make(map[model.BlockID]uint64)
		err := rt.countSubtrees(node, subtreeSizeMap)
		if err != nil {
			return nil, nil, 0, err
		}

		subtreeSize := subtreeSizeMap[node]
		sizes[i] = subtreeSize
		subtreeSizeMaps[i] = subtreeSizeMap
		sum += subtreeSize
	}
	return sizes, subtreeSizeMaps, sum, nil
}

func (rt *reachabilityManager) propagateChildIntervals(interval *model.ReachabilityInterval,
	childNodes []model.BlockID, sizes []uint64, subtreeSizeMaps []map[model.BlockID]uint64) error {

	childIntervals, err := intervalSplitExact(interval, sizes)
	if err != nil {
		return err
	}

	for i, child := range childNodes {
		err = rt.propagateInterval(child, childIntervals[i], subtreeSizeMaps[i])
		if err != nil {
			return err
		}
	}

	return nil
}

// IsReachabilityTreeAncestorOf checks if this node is a reachability tree ancestor
// of the other node. Note that we use the graph theory convention
// here which defines that node is also an ancestor of itself.
func (rt *reachabilityManager) IsReachabilityTreeAncestorOf(node, other model.BlockID) (bool, error) {
	nodeInterval, err := rt.interval(node)
	if err != nil {
		return false, err
	}

	otherInterval, err := rt.interval(other)
	if err != nil {
		return false, err
	}

	return intervalContains(nodeInterval, otherInterval), nil
}

// FindAncestorOfThisAmongChildrenOfOther finds the reachability tree child
// of other which is also a reachability tree ancestor of this.
func (rt *reachabilityManager) FindAncestorOfThisAmongChildrenOfOther(this, other model.BlockID) (model.BlockID, error) {
	otherChildren, err := rt.children(other)
	if err != nil {
		return model.NoBlock, err
	}

	ancestor, ok, err := rt.findAncestorOfNode(otherChildren, this)
	if err != nil {
		return model.NoBlock, err
	}
	if !ok {
		return model.NoBlock, errors.Errorf("block %s is not an ancestor of %s", other, this)
	}

	return ancestor, nil
}

// ValidateIntervals walks the subtree of root and verifies that every
// child interval is strictly nested in its parent's allocation range,
// that siblings are ordered and disjoint, and that every remaining
// interval lies inside its owner's allocation range.
func (rt *reachabilityManager) ValidateIntervals(root model.BlockID) error {
	queue := new(deque.Deque[model.BlockID])
	queue.PushBack(root)
	for queue.Len() > 0 {
		current := queue.PopFront()
		currentNode, err := rt.treeNode(current)
		if err != nil {
			return err
		}

		allocationRange := intervalRangeForChildAllocation(currentNode.Interval)
		if !intervalIsEmpty(currentNode.Remaining) && !intervalContains(allocationRange, currentNode.Remaining) {
			return errors.Errorf("remaining interval %s of block %s exceeds its interval %s",
				currentNode.Remaining, current, currentNode.Interval)
		}

		var previous *model.ReachabilityInterval
		for _, child := range currentNode.Children {
			childNode, err := rt.treeNode(child)
			if err != nil {
				return err
			}
			if childNode.Parent != current {
				return errors.Errorf("block %s is a tree child of %s but its parent is %s",
					child, current, childNode.Parent)
			}
			if intervalIsEmpty(childNode.Interval) || !intervalContains(allocationRange, childNode.Interval) {
				return errors.Errorf("interval %s of block %s is not strictly contained in "+
					"the interval %s of its parent %s", childNode.Interval, child, currentNode.Interval, current)
			}
			if previous != nil && previous.End >= childNode.Interval.Start {
				return errors.Errorf("interval %s of block %s is not ordered after its sibling's interval %s",
					childNode.Interval, child, previous)
			}
			previous = childNode.Interval
			queue.PushBack(child)
		}
	}
	return nil
}

// String returns a string representation of a reachability tree node
// and its children.
func (rt *reachabilityManager) String(node model.BlockID) (string, error) {
	queue := new(deque.Deque[model.BlockID])
	queue.PushBack(node)
	nodeInterval, err := rt.interval(node)
	if err != nil {
		return "", err
	}

	lines := []string{nodeInterval.String()}
	for queue.Len() > 0 {
		current := queue.PopFront()
		currentChildren, err := rt.children(current)
		if err != nil {
			return "", err
		}

		if len(currentChildren) == 0 {
			continue
		}

		line := ""
		for _, child := range currentChildren {
			childInterval, err := rt.interval(child)
			if err != nil {
				return "", err
			}

			line += childInterval.String()
			queue.PushBack(child)
		}
		lines = append([]string{line}, lines...)
	}
	return strings.Join(lines, "\n"), nil
}
