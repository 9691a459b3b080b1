package ghostdagmanager

import (
	"sort"

	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/consensus/utils/hashes"
	"github.com/pkg/errors"
)

// ChooseSelectedParent returns the block with the highest blue score
// among blockIDs, breaking ties by the higher hash.
func (gm *ghostdagManager) ChooseSelectedParent(blockIDs ...model.BlockID) (model.BlockID, error) {
	if len(blockIDs) == 0 {
		return model.NoBlock, errors.New("cannot choose a selected parent out of no blocks")
	}

	selectedParent := blockIDs[0]
	selectedParentGHOSTDAGData, err := gm.ghostdagDataStore.Get(selectedParent)
	if err != nil {
		return model.NoBlock, err
	}
	for _, blockID := range blockIDs[1:] {
		blockGHOSTDAGData, err := gm.ghostdagDataStore.Get(blockID)
		if err != nil {
			return model.NoBlock, err
		}

		if gm.Less(selectedParent, selectedParentGHOSTDAGData, blockID, blockGHOSTDAGData) {
			selectedParent = blockID
			selectedParentGHOSTDAGData = blockGHOSTDAGData
		}
	}

	return selectedParent, nil
}

// Less returns whether blockA precedes blockB in the GHOSTDAG order:
// lower blue score first, ties broken by the lower hash.
func (gm *ghostdagManager) Less(blockA model.BlockID, ghostdagDataA *model.BlockGHOSTDAGData,
	blockB model.BlockID, ghostdagDataB *model.BlockGHOSTDAGData) bool {

	blockBlueScoreA := ghostdagDataA.BlueScore
	blockBlueScoreB := ghostdagDataB.BlueScore
	if blockBlueScoreA == blockBlueScoreB {
		return hashes.Less(gm.mustHash(blockA), gm.mustHash(blockB))
	}

	return blockBlueScoreA < blockBlueScoreB
}

// sortByGHOSTDAGOrder sorts blockIDs ascending by Less. Since a block's
// blue score is greater than the blue scores of all its parents, this
// is a reverse topological order agreed upon by all nodes.
func (gm *ghostdagManager) sortByGHOSTDAGOrder(blockIDs []model.BlockID) error {
	ghostdagData := make(map[model.BlockID]*model.BlockGHOSTDAGData, len(blockIDs))
	for _, blockID := range blockIDs {
		blockGHOSTDAGData, err := gm.ghostdagDataStore.Get(blockID)
		if err != nil {
			return err
		}
		ghostdagData[blockID] = blockGHOSTDAGData
	}

	sort.Slice(blockIDs, func(i, j int) bool {
		return gm.Less(blockIDs[i], ghostdagData[blockIDs[i]], blockIDs[j], ghostdagData[blockIDs[j]])
	})
	return nil
}

// mustHash returns the hash of a block that is known to be indexed.
// Every BlockID handed to the manager comes out of the block index, so
// a failure here means the stores went out of sync.
func (gm *ghostdagManager) mustHash(blockID model.BlockID) *externalapi.DomainHash {
	blockHash, err := gm.blockIndex.Hash(blockID)
	if err != nil {
		panic(errors.Wrapf(err, "block %s is not indexed", blockID))
	}
	return blockHash
}
