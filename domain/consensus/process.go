package consensus

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/consensus/ruleerrors"
	"github.com/pkg/errors"
)

// AddNewBlock adds a block with the given hash and parents to the DAG
// and runs the GHOSTDAG protocol over it.
//
// Blocks violating a precondition (no parents, duplicate block or parents,
// missing parents, parents in the past of one another) are rejected with a
// ruleerrors.RuleError. A block whose selected chain does not contain the
// finalized block is rejected with ruleerrors.ErrFinalityViolation. In both
// cases the DAG is left untouched.
//
// Any failure after the block passed validation means the DAG's internal
// structures are corrupted and results in a panic.
func (dag *DAG) AddNewBlock(blockHash *externalapi.DomainHash,
	parentHashes []*externalapi.DomainHash) (*externalapi.BlockInfo, error) {

	err := validateHashes(dag.HasBlock, blockHash, parentHashes)
	if err != nil {
		return nil, err
	}

	parents := make([]model.BlockID, len(parentHashes))
	for i, parentHash := range parentHashes {
		parents[i], _ = dag.blockIndex.BlockID(parentHash)
	}

	err = dag.validateParentsAntichain(blockHash, parents)
	if err != nil {
		return nil, err
	}

	selectedParent, err := dag.ghostdagManager.ChooseSelectedParent(parents...)
	if err != nil {
		return nil, err
	}

	err = dag.validateFinality(blockHash, selectedParent)
	if err != nil {
		log.Debugf("Finality violated by block %s, rejecting it", blockHash)
		return nil, err
	}

	blockID, err := dag.insertBlock(blockHash, parents, selectedParent)
	if err != nil {
		panic(errors.Wrapf(err, "failed inserting block %s after it passed validation", blockHash))
	}

	dag.updateTips(blockID, parents)

	err = dag.updateVirtual(blockID)
	if err != nil {
		panic(errors.Wrapf(err, "failed updating the virtual with block %s", blockHash))
	}

	return dag.blockInfo(blockID)
}

// insertBlock stores the block and runs reachability and GHOSTDAG over it.
// The order is binding: the block has to be in the reachability tree
// before GHOSTDAG registers it in the future covering sets of its merge set.
func (dag *DAG) insertBlock(blockHash *externalapi.DomainHash, parents []model.BlockID,
	selectedParent model.BlockID) (model.BlockID, error) {

	blockID, err := dag.blockIndex.Add(blockHash)
	if err != nil {
		return model.NoBlock, err
	}

	dag.blockRelationStore.Insert(blockID, &model.BlockRelations{
		Parents:  parents,
		Children: []model.BlockID{},
	})
	for _, parent := range parents {
		err := dag.blockRelationStore.AddChild(parent, blockID)
		if err != nil {
			return model.NoBlock, err
		}
	}

	err = dag.reachabilityManager.AddBlock(blockID, selectedParent)
	if err != nil {
		return model.NoBlock, err
	}

	err = dag.ghostdagManager.GHOSTDAG(blockID)
	if err != nil {
		return model.NoBlock, err
	}

	return blockID, nil
}

func (dag *DAG) updateTips(blockID model.BlockID, parents []model.BlockID) {
	for _, parent := range parents {
		delete(dag.tips, parent)
	}
	dag.tips[blockID] = struct{}{}
}

// IsRuleError returns whether err rejects a block for breaking one of the
// DAG's rules, as opposed to an unexpected failure
func IsRuleError(err error) bool {
	var ruleError ruleerrors.RuleError
	var missingParents ruleerrors.ErrMissingParents
	return errors.As(err, &ruleError) || errors.As(err, &missingParents)
}
