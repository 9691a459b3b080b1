package ghostdagmanager

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
)

// IsBlue returns whether blockID is blue from the worldview of context.
// It walks down the selected parent chain of context for as long as
// blockID is in the past of the chain block, and succeeds once it finds a
// chain block that is blockID itself or that added blockID to its blues.
func (gm *ghostdagManager) IsBlue(blockID model.BlockID, context model.BlockID) (bool, error) {
	current := context
	for current != model.NoBlock {
		isInPast, err := gm.reachabilityManager.IsDAGAncestorOf(blockID, current)
		if err != nil {
			return false, err
		}
		if !isInPast {
			return false, nil
		}

		if current == blockID {
			return true, nil
		}

		currentGHOSTDAGData, err := gm.ghostdagDataStore.Get(current)
		if err != nil {
			return false, err
		}
		for _, blue := range currentGHOSTDAGData.MergeSetBlues {
			if blue == blockID {
				return true, nil
			}
		}
		current = currentGHOSTDAGData.SelectedParent
	}
	return false, nil
}
