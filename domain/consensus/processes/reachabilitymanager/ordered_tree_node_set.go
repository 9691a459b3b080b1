package reachabilitymanager

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
)

// findAncestorOfNode finds the reachability tree ancestor of `node`
// among the nodes in `tns`, which have to be ordered by interval.
func (rt *reachabilityManager) findAncestorOfNode(tns []model.BlockID, node model.BlockID) (model.BlockID, bool, error) {
	ancestorIndex, ok, err := rt.findAncestorIndexOfNode(tns, node)
	if err != nil {
		return model.NoBlock, false, err
	}

	if !ok {
		return model.NoBlock, false, nil
	}

	isAncestor, err := rt.IsReachabilityTreeAncestorOf(tns[ancestorIndex], node)
	if err != nil {
		return model.NoBlock, false, err
	}
	if !isAncestor {
		return model.NoBlock, false, nil
	}

	return tns[ancestorIndex], true, nil
}

// findAncestorIndexOfNode finds the index of the only candidate for being
// the reachability tree ancestor of `node` among the nodes in `tns`. It
// does so by finding the index of the block with the maximum start that
// is below the end of the given block. Callers still have to check that
// the candidate actually contains `node`.
func (rt *reachabilityManager) findAncestorIndexOfNode(tns []model.BlockID, node model.BlockID) (int, bool, error) {
	blockInterval, err := rt.interval(node)
	if err != nil {
		return 0, false, err
	}
	end := blockInterval.End

	low := 0
	high := len(tns)
	for low < high {
		middle := (low + high) / 2
		middleInterval, err := rt.interval(tns[middle])
		if err != nil {
			return 0, false, err
		}
		if end < middleInterval.Start {
			high = middle
		} else {
			low = middle + 1
		}
	}

	if low == 0 {
		return 0, false, nil
	}
	return low - 1, true, nil
}
