package consensus

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
)

// updateVirtual promotes blockID to be the virtual if its blue score is
// higher than the current virtual's, and then advances the finalized
// block as far down the new virtual's selected chain as the finality
// window allows.
func (dag *DAG) updateVirtual(blockID model.BlockID) error {
	blockGHOSTDAGData, err := dag.ghostdagDataStore.Get(blockID)
	if err != nil {
		return err
	}
	virtualGHOSTDAGData, err := dag.ghostdagDataStore.Get(dag.virtual)
	if err != nil {
		return err
	}
	if blockGHOSTDAGData.BlueScore <= virtualGHOSTDAGData.BlueScore {
		return nil
	}

	dag.virtual = blockID
	log.Tracef("Block %s with blue score %d is the new virtual", dag.mustHash(blockID),
		blockGHOSTDAGData.BlueScore)

	for dag.finalized != dag.virtual {
		finalizedChild, err := dag.tryFinalizeChild(blockGHOSTDAGData)
		if err != nil {
			return err
		}
		if !finalizedChild {
			break
		}
	}
	return nil
}

// tryFinalizeChild finalizes the tree child of the finalized block that
// is on the virtual's selected chain, if the virtual's blue score is at
// least a finality window above it. The interval of the finalized block
// is then concentrated towards its newly finalized child.
func (dag *DAG) tryFinalizeChild(virtualGHOSTDAGData *model.BlockGHOSTDAGData) (bool, error) {
	candidate, err := dag.reachabilityManager.FindAncestorOfThisAmongChildrenOfOther(dag.virtual, dag.finalized)
	if err != nil {
		return false, err
	}

	candidateGHOSTDAGData, err := dag.ghostdagDataStore.Get(candidate)
	if err != nil {
		return false, err
	}
	if virtualGHOSTDAGData.BlueScore-candidateGHOSTDAGData.BlueScore < dag.params.FinalityWindow {
		return false, nil
	}

	err = dag.reachabilityManager.ConcentrateInterval(dag.finalized, candidate)
	if err != nil {
		return false, err
	}

	dag.finalized = candidate
	log.Debugf("Finalized block %s with blue score %d", dag.mustHash(candidate), candidateGHOSTDAGData.BlueScore)
	return true, nil
}
