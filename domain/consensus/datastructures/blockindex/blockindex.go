package blockindex

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// blockIndex assigns every block hash a BlockID in insertion order
type blockIndex struct {
	ids    map[externalapi.DomainHash]model.BlockID
	hashes []*externalapi.DomainHash
}

// New instantiates a new BlockIndex
func New(capacity int) model.BlockIndex {
	return &blockIndex{
		ids:    make(map[externalapi.DomainHash]model.BlockID, capacity),
		hashes: make([]*externalapi.DomainHash, 0, capacity),
	}
}

// Add registers blockHash and returns its newly assigned BlockID
func (bi *blockIndex) Add(blockHash *externalapi.DomainHash) (model.BlockID, error) {
	if _, exists := bi.ids[*blockHash]; exists {
		return model.NoBlock, errors.Wrapf(ruleerrors.ErrDuplicateBlock, "block %s already exists", blockHash)
	}
	blockID := model.BlockID(len(bi.hashes))
	bi.ids[*blockHash] = blockID
	bi.hashes = append(bi.hashes, blockHash)
	return blockID, nil
}

// BlockID returns the BlockID of blockHash, if it exists
func (bi *blockIndex) BlockID(blockHash *externalapi.DomainHash) (model.BlockID, bool) {
	blockID, ok := bi.ids[*blockHash]
	return blockID, ok
}

// Hash returns the hash of the block with the given blockID
func (bi *blockIndex) Hash(blockID model.BlockID) (*externalapi.DomainHash, error) {
	if uint64(blockID) >= uint64(len(bi.hashes)) {
		return nil, errors.Wrapf(model.ErrNotFound, "block %s", blockID)
	}
	return bi.hashes[blockID], nil
}

// Has returns whether blockHash was added to the index
func (bi *blockIndex) Has(blockHash *externalapi.DomainHash) bool {
	_, ok := bi.ids[*blockHash]
	return ok
}

// Count returns the number of blocks in the index
func (bi *blockIndex) Count() int {
	return len(bi.hashes)
}
