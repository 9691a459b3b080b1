package blockrelationstore

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/pkg/errors"
)

// blockRelationStore represents a store of BlockRelations
type blockRelationStore struct {
	relations []*model.BlockRelations
}

// New instantiates a new BlockRelationStore
func New(capacity int) model.BlockRelationStore {
	return &blockRelationStore{
		relations: make([]*model.BlockRelations, 0, capacity),
	}
}

// Insert stores the given blockRelations for the given blockID
func (brs *blockRelationStore) Insert(blockID model.BlockID, blockRelations *model.BlockRelations) {
	for uint64(len(brs.relations)) <= uint64(blockID) {
		brs.relations = append(brs.relations, nil)
	}
	brs.relations[blockID] = blockRelations
}

// BlockRelation returns the relations of the given blockID
func (brs *blockRelationStore) BlockRelation(blockID model.BlockID) (*model.BlockRelations, error) {
	if !brs.Has(blockID) {
		return nil, errors.Wrapf(model.ErrNotFound, "relations of block %s", blockID)
	}
	return brs.relations[blockID], nil
}

// AddChild registers childID as a DAG child of blockID
func (brs *blockRelationStore) AddChild(blockID model.BlockID, childID model.BlockID) error {
	relations, err := brs.BlockRelation(blockID)
	if err != nil {
		return err
	}
	relations.Children = append(relations.Children, childID)
	return nil
}

// Has returns whether relations were stored for the given blockID
func (brs *blockRelationStore) Has(blockID model.BlockID) bool {
	return uint64(blockID) < uint64(len(brs.relations)) && brs.relations[blockID] != nil
}
