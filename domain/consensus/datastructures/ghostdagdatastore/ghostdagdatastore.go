package ghostdagdatastore

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/pkg/errors"
)

// ghostdagDataStore represents a store of BlockGHOSTDAGData
type ghostdagDataStore struct {
	data []*model.BlockGHOSTDAGData
}

// New instantiates a new GHOSTDAGDataStore
func New(capacity int) model.GHOSTDAGDataStore {
	return &ghostdagDataStore{
		data: make([]*model.BlockGHOSTDAGData, 0, capacity),
	}
}

// Insert stores the given blockGHOSTDAGData for the given blockID
func (gds *ghostdagDataStore) Insert(blockID model.BlockID, blockGHOSTDAGData *model.BlockGHOSTDAGData) {
	for uint64(len(gds.data)) <= uint64(blockID) {
		gds.data = append(gds.data, nil)
	}
	gds.data[blockID] = blockGHOSTDAGData
}

// Get gets the blockGHOSTDAGData associated with the given blockID
func (gds *ghostdagDataStore) Get(blockID model.BlockID) (*model.BlockGHOSTDAGData, error) {
	if !gds.Has(blockID) {
		return nil, errors.Wrapf(model.ErrNotFound, "GHOSTDAG data of block %s", blockID)
	}
	return gds.data[blockID], nil
}

// Has returns whether GHOSTDAG data was stored for the given blockID
func (gds *ghostdagDataStore) Has(blockID model.BlockID) bool {
	return uint64(blockID) < uint64(len(gds.data)) && gds.data[blockID] != nil
}
