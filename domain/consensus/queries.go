package consensus

import (
	"sort"

	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/pkg/errors"
)

// HasBlock returns whether the DAG contains a block with the given hash
func (dag *DAG) HasBlock(blockHash *externalapi.DomainHash) bool {
	return dag.blockIndex.Has(blockHash)
}

// BlockCount returns the number of blocks in the DAG, genesis included
func (dag *DAG) BlockCount() int {
	return dag.blockIndex.Count()
}

// Tips returns the hashes of the blocks with no children, sorted by hash
func (dag *DAG) Tips() []*externalapi.DomainHash {
	tips := make([]*externalapi.DomainHash, 0, len(dag.tips))
	for tip := range dag.tips {
		tips = append(tips, dag.mustHash(tip))
	}
	sort.Slice(tips, func(i, j int) bool {
		return tips[i].Less(tips[j])
	})
	return tips
}

// BlockHashes returns the hashes of all blocks in the order they were
// added, which is a topological order of the DAG
func (dag *DAG) BlockHashes() []*externalapi.DomainHash {
	blockHashes := make([]*externalapi.DomainHash, dag.blockIndex.Count())
	for i := range blockHashes {
		blockHashes[i] = dag.mustHash(model.BlockID(i))
	}
	return blockHashes
}

// Genesis returns the hash of the genesis block
func (dag *DAG) Genesis() *externalapi.DomainHash {
	return dag.mustHash(dag.genesis)
}

// Virtual returns the hash of the block with the highest blue score seen so
// far. Ties keep the block that reached the score first.
func (dag *DAG) Virtual() *externalapi.DomainHash {
	return dag.mustHash(dag.virtual)
}

// Finalized returns the hash of the latest finalized block
func (dag *DAG) Finalized() *externalapi.DomainHash {
	return dag.mustHash(dag.finalized)
}

// BlueScore returns the blue score of the given block
func (dag *DAG) BlueScore(blockHash *externalapi.DomainHash) (uint64, error) {
	blockGHOSTDAGData, err := dag.ghostdagData(blockHash)
	if err != nil {
		return 0, err
	}
	return blockGHOSTDAGData.BlueScore, nil
}

// SelectedParent returns the selected parent of the given block, or nil
// for genesis
func (dag *DAG) SelectedParent(blockHash *externalapi.DomainHash) (*externalapi.DomainHash, error) {
	blockGHOSTDAGData, err := dag.ghostdagData(blockHash)
	if err != nil {
		return nil, err
	}
	if blockGHOSTDAGData.SelectedParent == model.NoBlock {
		return nil, nil
	}
	return dag.mustHash(blockGHOSTDAGData.SelectedParent), nil
}

// IsBlue returns whether blockHash is blue from the worldview of
// contextHash. Blocks outside the past of contextHash are never blue.
func (dag *DAG) IsBlue(blockHash *externalapi.DomainHash, contextHash *externalapi.DomainHash) (bool, error) {
	blockID, err := dag.lookup(blockHash)
	if err != nil {
		return false, err
	}
	context, err := dag.lookup(contextHash)
	if err != nil {
		return false, err
	}
	return dag.ghostdagManager.IsBlue(blockID, context)
}

// IsAncestorOf returns whether blockHashA is in the past of blockHashB. A
// block is considered an ancestor of itself.
func (dag *DAG) IsAncestorOf(blockHashA *externalapi.DomainHash, blockHashB *externalapi.DomainHash) (bool, error) {
	blockA, err := dag.lookup(blockHashA)
	if err != nil {
		return false, err
	}
	blockB, err := dag.lookup(blockHashB)
	if err != nil {
		return false, err
	}
	return dag.reachabilityManager.IsDAGAncestorOf(blockA, blockB)
}

// IsInSelectedChainOf returns whether blockHashA is on the selected parent
// chain of blockHashB, blockHashB included
func (dag *DAG) IsInSelectedChainOf(blockHashA *externalapi.DomainHash,
	blockHashB *externalapi.DomainHash) (bool, error) {

	blockA, err := dag.lookup(blockHashA)
	if err != nil {
		return false, err
	}
	blockB, err := dag.lookup(blockHashB)
	if err != nil {
		return false, err
	}
	return dag.reachabilityManager.IsReachabilityTreeAncestorOf(blockA, blockB)
}

// BlockInfo returns the GHOSTDAG information of the given block
func (dag *DAG) BlockInfo(blockHash *externalapi.DomainHash) (*externalapi.BlockInfo, error) {
	blockID, err := dag.lookup(blockHash)
	if err != nil {
		return nil, err
	}
	return dag.blockInfo(blockID)
}

// ValidateIntervals verifies the interval nesting of the whole
// reachability tree
func (dag *DAG) ValidateIntervals() error {
	return dag.reachabilityManager.ValidateIntervals(dag.genesis)
}

// FinalizedIntervalSize returns the size of the reachability interval of
// the finalized block, which is the capacity left for all future blocks
func (dag *DAG) FinalizedIntervalSize() (uint64, error) {
	reachabilityData, err := dag.reachabilityDataStore.ReachabilityData(dag.finalized)
	if err != nil {
		return 0, err
	}
	interval := reachabilityData.TreeNode.Interval
	return interval.End - interval.Start + 1, nil
}

func (dag *DAG) blockInfo(blockID model.BlockID) (*externalapi.BlockInfo, error) {
	blockGHOSTDAGData, err := dag.ghostdagDataStore.Get(blockID)
	if err != nil {
		return nil, err
	}
	blockRelations, err := dag.blockRelationStore.BlockRelation(blockID)
	if err != nil {
		return nil, err
	}

	var selectedParent *externalapi.DomainHash
	if blockGHOSTDAGData.SelectedParent != model.NoBlock {
		selectedParent = dag.mustHash(blockGHOSTDAGData.SelectedParent)
	}

	return &externalapi.BlockInfo{
		Hash:           dag.mustHash(blockID),
		LocalIndex:     uint64(blockID),
		Parents:        dag.hashes(blockRelations.Parents),
		SelectedParent: selectedParent,
		BlueScore:      blockGHOSTDAGData.BlueScore,
		MergeSetBlues:  dag.hashes(blockGHOSTDAGData.MergeSetBlues),
		MergeSetReds:   dag.hashes(blockGHOSTDAGData.MergeSetReds),
	}, nil
}

func (dag *DAG) ghostdagData(blockHash *externalapi.DomainHash) (*model.BlockGHOSTDAGData, error) {
	blockID, err := dag.lookup(blockHash)
	if err != nil {
		return nil, err
	}
	return dag.ghostdagDataStore.Get(blockID)
}

func (dag *DAG) lookup(blockHash *externalapi.DomainHash) (model.BlockID, error) {
	blockID, ok := dag.blockIndex.BlockID(blockHash)
	if !ok {
		return model.NoBlock, errors.Wrapf(model.ErrNotFound, "block %s", blockHash)
	}
	return blockID, nil
}

func (dag *DAG) hashes(blockIDs []model.BlockID) []*externalapi.DomainHash {
	blockHashes := make([]*externalapi.DomainHash, len(blockIDs))
	for i, blockID := range blockIDs {
		blockHashes[i] = dag.mustHash(blockID)
	}
	return blockHashes
}

// mustHash returns the hash of a block the DAG handed out an ID for
func (dag *DAG) mustHash(blockID model.BlockID) *externalapi.DomainHash {
	blockHash, err := dag.blockIndex.Hash(blockID)
	if err != nil {
		panic(errors.Wrapf(err, "block %s is not indexed", blockID))
	}
	return blockHash
}
