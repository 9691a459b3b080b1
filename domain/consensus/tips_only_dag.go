package consensus

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/consensus/utils/hashset"
)

// TipsOnlyDAG tracks the blocks and tips of a DAG without ordering it.
// Simulated nodes whose view of the DAG is not inspected use it to pick
// the parents of the blocks they mine.
type TipsOnlyDAG struct {
	genesis *externalapi.DomainHash
	blocks  hashset.HashSet
	tips    hashset.HashSet
}

var _ externalapi.DAG = (*TipsOnlyDAG)(nil)

// NewTipsOnlyDAG creates a TipsOnlyDAG holding only the genesis block
func NewTipsOnlyDAG(genesisHash *externalapi.DomainHash) *TipsOnlyDAG {
	return &TipsOnlyDAG{
		genesis: genesisHash,
		blocks:  hashset.NewFromSlice(genesisHash),
		tips:    hashset.NewFromSlice(genesisHash),
	}
}

// AddNewBlock adds a block to the DAG. It enforces the same hash level
// preconditions as DAG.AddNewBlock.
func (dag *TipsOnlyDAG) AddNewBlock(blockHash *externalapi.DomainHash,
	parentHashes []*externalapi.DomainHash) (*externalapi.BlockInfo, error) {

	err := validateHashes(dag.HasBlock, blockHash, parentHashes)
	if err != nil {
		return nil, err
	}

	localIndex := uint64(len(dag.blocks))
	dag.blocks.Add(blockHash)
	for _, parentHash := range parentHashes {
		dag.tips.Remove(parentHash)
	}
	dag.tips.Add(blockHash)

	return &externalapi.BlockInfo{
		Hash:       blockHash,
		LocalIndex: localIndex,
		Parents:    externalapi.CloneHashes(parentHashes),
	}, nil
}

// Tips returns the hashes of the blocks with no children, sorted by hash
func (dag *TipsOnlyDAG) Tips() []*externalapi.DomainHash {
	return dag.tips.ToSlice()
}

// HasBlock returns whether the DAG contains a block with the given hash
func (dag *TipsOnlyDAG) HasBlock(blockHash *externalapi.DomainHash) bool {
	return dag.blocks.Contains(blockHash)
}

// BlockCount returns the number of blocks in the DAG, genesis included
func (dag *TipsOnlyDAG) BlockCount() int {
	return len(dag.blocks)
}

// Genesis returns the hash of the genesis block
func (dag *TipsOnlyDAG) Genesis() *externalapi.DomainHash {
	return dag.genesis
}
