package reachabilitydatastore

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/pkg/errors"
)

// reachabilityDataStore represents a store of ReachabilityData
type reachabilityDataStore struct {
	data []*model.ReachabilityData
}

// New instantiates a new ReachabilityDataStore
func New(capacity int) model.ReachabilityDataStore {
	return &reachabilityDataStore{
		data: make([]*model.ReachabilityData, 0, capacity),
	}
}

// Insert stores the given reachabilityData for the given blockID
func (rds *reachabilityDataStore) Insert(blockID model.BlockID, reachabilityData *model.ReachabilityData) {
	for uint64(len(rds.data)) <= uint64(blockID) {
		rds.data = append(rds.data, nil)
	}
	rds.data[blockID] = reachabilityData
}

// ReachabilityData returns the reachabilityData associated with the given blockID
func (rds *reachabilityDataStore) ReachabilityData(blockID model.BlockID) (*model.ReachabilityData, error) {
	if !rds.HasReachabilityData(blockID) {
		return nil, errors.Wrapf(model.ErrNotFound, "reachability data of block %s", blockID)
	}
	return rds.data[blockID], nil
}

// HasReachabilityData returns whether reachabilityData was stored for the given blockID
func (rds *reachabilityDataStore) HasReachabilityData(blockID model.BlockID) bool {
	return uint64(blockID) < uint64(len(rds.data)) && rds.data[blockID] != nil
}
