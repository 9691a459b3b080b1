package ghostdagmanager

import (
	"github.com/gammazero/deque"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
)

// mergeSet returns the anticone of selectedParent within the past of
// newBlock, sorted by GHOSTDAG order. Every block found is registered
// with the reachability manager as having newBlock in its future, which
// DAG reachability queries on newBlock depend upon.
func (gm *ghostdagManager) mergeSet(newBlock model.BlockID, selectedParent model.BlockID,
	blockParents []model.BlockID) ([]model.BlockID, error) {

	mergeSetMap := make(map[model.BlockID]struct{}, gm.k)
	mergeSetSlice := make([]model.BlockID, 0, gm.k)
	selectedParentPast := make(map[model.BlockID]struct{})
	queue := new(deque.Deque[model.BlockID])
	// Queueing all parents (other than the selected parent itself) for processing.
	for _, parent := range blockParents {
		if parent == selectedParent {
			continue
		}
		mergeSetMap[parent] = struct{}{}
		mergeSetSlice = append(mergeSetSlice, parent)
		queue.PushBack(parent)
	}

	for queue.Len() > 0 {
		current := queue.PopFront()
		err := gm.reachabilityManager.AddToFutureCoveringSet(current, newBlock)
		if err != nil {
			return nil, err
		}

		// For each parent of the current block we check whether it is in the past of the selected parent. If not,
		// we add it to the resulting anticone-set and queue it for further processing.
		currentRelations, err := gm.blockRelationStore.BlockRelation(current)
		if err != nil {
			return nil, err
		}
		for _, parent := range currentRelations.Parents {
			if _, ok := mergeSetMap[parent]; ok {
				continue
			}

			if _, ok := selectedParentPast[parent]; ok {
				continue
			}

			isAncestorOfSelectedParent, err := gm.reachabilityManager.IsDAGAncestorOf(parent, selectedParent)
			if err != nil {
				return nil, err
			}

			if isAncestorOfSelectedParent {
				selectedParentPast[parent] = struct{}{}
				continue
			}

			mergeSetMap[parent] = struct{}{}
			mergeSetSlice = append(mergeSetSlice, parent)
			queue.PushBack(parent)
		}
	}

	err := gm.sortByGHOSTDAGOrder(mergeSetSlice)
	if err != nil {
		return nil, err
	}

	return mergeSetSlice, nil
}
