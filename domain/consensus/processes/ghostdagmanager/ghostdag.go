package ghostdagmanager

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/pkg/errors"
)

// GHOSTDAG runs the GHOSTDAG protocol and calculates the block BlockGHOSTDAGData by the given parents.
// The function calculates MergeSetBlues by iterating over the blocks in
// the anticone of the new block selected parent (which is the parent with the
// highest blue score) and adds any block to newNode.blues if by adding
// it to MergeSetBlues these conditions will not be violated:
//
//  1. |anticone-of-candidate-block ∩ blue-set-of-newBlock| ≤ K
//
//  2. For every blue block in blue-set-of-newBlock:
//     |(anticone-of-blue-block ∩ blue-set-newBlock) ∪ {candidate-block}| ≤ K.
//     We validate this condition by maintaining a map BluesAnticoneSizes for
//     each block which holds all the blue anticone sizes that were affected by
//     the new added blue blocks.
//     So to find out what is |anticone-of-blue ∩ blue-set-of-newBlock| we just iterate in
//     the selected parent chain of the new block until we find an existing entry in
//     BluesAnticoneSizes.
//
// The block has to be registered in the relation store and added to the
// reachability tree under its selected parent before GHOSTDAG is called.
//
// For further details see the article https://eprint.iacr.org/2018/104.pdf
func (gm *ghostdagManager) GHOSTDAG(blockID model.BlockID) error {
	blockRelations, err := gm.blockRelationStore.BlockRelation(blockID)
	if err != nil {
		return err
	}

	selectedParent, err := gm.ChooseSelectedParent(blockRelations.Parents...)
	if err != nil {
		return err
	}

	selectedParentGHOSTDAGData, err := gm.ghostdagDataStore.Get(selectedParent)
	if err != nil {
		return err
	}

	newBlockData := &model.BlockGHOSTDAGData{
		SelectedParent:     selectedParent,
		MergeSetBlues:      make([]model.BlockID, 0, gm.k),
		MergeSetReds:       make([]model.BlockID, 0),
		BluesAnticoneSizes: map[model.BlockID]model.KType{selectedParent: 0},
	}

	mergeSetWithoutSelectedParent, err := gm.mergeSet(blockID, selectedParent, blockRelations.Parents)
	if err != nil {
		return err
	}

	for _, blueCandidate := range mergeSetWithoutSelectedParent {
		if len(newBlockData.MergeSetBlues) == int(gm.k) {
			// No more than k blues are added per block
			newBlockData.MergeSetReds = append(newBlockData.MergeSetReds, blueCandidate)
			continue
		}

		isBlue, candidateBluesAnticoneSizes, err := gm.checkBlueCandidate(blockID, newBlockData, blueCandidate)
		if err != nil {
			return err
		}

		if isBlue {
			// No k-cluster violation found, we can now set the candidate block as blue
			newBlockData.MergeSetBlues = append(newBlockData.MergeSetBlues, blueCandidate)
			newBlockData.BluesAnticoneSizes[blueCandidate] = model.KType(len(candidateBluesAnticoneSizes))
			for blue, blueAnticoneSize := range candidateBluesAnticoneSizes {
				newBlockData.BluesAnticoneSizes[blue] = blueAnticoneSize + 1
			}
		} else {
			newBlockData.MergeSetReds = append(newBlockData.MergeSetReds, blueCandidate)
		}
	}

	newBlockData.BlueScore = selectedParentGHOSTDAGData.BlueScore + 1 + uint64(len(newBlockData.MergeSetBlues))

	gm.ghostdagDataStore.Insert(blockID, newBlockData)
	log.Tracef("Block %s: selected parent %s, blue score %d, %d blues, %d reds", blockID,
		selectedParent, newBlockData.BlueScore, len(newBlockData.MergeSetBlues), len(newBlockData.MergeSetReds))
	return nil
}

// checkBlueCandidate iterates over all blocks in
// blue-set(newBlock) ∩ [past(newBlock) \ past(blueCandidate)], which is the
// blue anticone of blueCandidate as seen from newBlock, and checks that
// none of them would violate the k-cluster rule if blueCandidate turned blue.
// The blue anticone sizes it looked up are returned so they can be
// incremented once the candidate is accepted.
func (gm *ghostdagManager) checkBlueCandidate(newBlock model.BlockID, newBlockData *model.BlockGHOSTDAGData,
	blueCandidate model.BlockID) (isBlue bool, candidateBluesAnticoneSizes map[model.BlockID]model.KType, err error) {

	candidateBluesAnticoneSizes = make(map[model.BlockID]model.KType, gm.k)

	chainBlock := newBlock
	chainBlockData := newBlockData
	for {
		// newBlock is in the future of blueCandidate, so it is neither
		// in its past nor in its anticone
		if chainBlock != newBlock {
			isAncestorOfBlueCandidate, err := gm.reachabilityManager.IsDAGAncestorOf(chainBlock, blueCandidate)
			if err != nil {
				return false, nil, err
			}
			if isAncestorOfBlueCandidate {
				// All remaining blues are in past(chainBlock) and thus in past(blueCandidate)
				break
			}

			isBlue, err := gm.checkBlueCandidateWithBlueBlock(newBlock, newBlockData, chainBlock,
				candidateBluesAnticoneSizes)
			if err != nil {
				return false, nil, err
			}
			if !isBlue {
				return false, nil, nil
			}
		}

		for _, block := range chainBlockData.MergeSetBlues {
			isAncestorOfBlueCandidate, err := gm.reachabilityManager.IsDAGAncestorOf(block, blueCandidate)
			if err != nil {
				return false, nil, err
			}
			if isAncestorOfBlueCandidate {
				continue
			}

			isBlue, err := gm.checkBlueCandidateWithBlueBlock(newBlock, newBlockData, block,
				candidateBluesAnticoneSizes)
			if err != nil {
				return false, nil, err
			}
			if !isBlue {
				return false, nil, nil
			}
		}

		chainBlock = chainBlockData.SelectedParent
		if chainBlock == model.NoBlock {
			return false, nil, errors.Errorf("walked past genesis while checking blue candidate %s of block %s",
				blueCandidate, newBlock)
		}
		chainBlockData, err = gm.ghostdagDataStore.Get(chainBlock)
		if err != nil {
			return false, nil, err
		}
	}

	return true, candidateBluesAnticoneSizes, nil
}

// checkBlueCandidateWithBlueBlock records the blue anticone size of
// blueBlock and reports whether the candidate may still turn blue. Two
// k-cluster violations are possible here:
//
//   - the candidate's blue anticone has become larger than k
//   - blueBlock already has k blues in its own anticone
func (gm *ghostdagManager) checkBlueCandidateWithBlueBlock(newBlock model.BlockID,
	newBlockData *model.BlockGHOSTDAGData, blueBlock model.BlockID,
	candidateBluesAnticoneSizes map[model.BlockID]model.KType) (bool, error) {

	blueAnticoneSize, err := gm.blueAnticoneSize(blueBlock, newBlock, newBlockData)
	if err != nil {
		return false, err
	}
	if blueAnticoneSize > gm.k {
		return false, errors.Errorf("found blue anticone size %d larger than k=%d for block %s",
			blueAnticoneSize, gm.k, blueBlock)
	}
	candidateBluesAnticoneSizes[blueBlock] = blueAnticoneSize

	if len(candidateBluesAnticoneSizes) > int(gm.k) || blueAnticoneSize == gm.k {
		return false, nil
	}
	return true, nil
}

// blueAnticoneSize returns the blue anticone size of 'block' from the worldview of 'context'.
// Expects 'block' to be in the blue set of 'context'. contextData is passed
// explicitly since context may not be in the GHOSTDAG data store yet.
func (gm *ghostdagManager) blueAnticoneSize(block model.BlockID, context model.BlockID,
	contextData *model.BlockGHOSTDAGData) (model.KType, error) {

	current := context
	currentData := contextData
	for {
		isAncestor, err := gm.reachabilityManager.IsDAGAncestorOf(block, current)
		if err != nil {
			return 0, err
		}
		if !isAncestor {
			break
		}

		if blueAnticoneSize, ok := currentData.BluesAnticoneSizes[block]; ok {
			return blueAnticoneSize, nil
		}

		current = currentData.SelectedParent
		if current == model.NoBlock {
			break
		}
		currentData, err = gm.ghostdagDataStore.Get(current)
		if err != nil {
			return 0, err
		}
	}
	return 0, errors.Errorf("block %s is not in blue set of %s", block, context)
}
