package consensus

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/consensus/ruleerrors"
	"github.com/kaspanet/ghostdagsim/domain/consensus/utils/hashset"
	"github.com/pkg/errors"
)

// validateHashes checks the hash level preconditions of a new block
// against a DAG whose known blocks are reported by hasBlock.
func validateHashes(hasBlock func(*externalapi.DomainHash) bool,
	blockHash *externalapi.DomainHash, parentHashes []*externalapi.DomainHash) error {

	if len(parentHashes) == 0 {
		return errors.Wrapf(ruleerrors.ErrNoParents, "block %s has no parents", blockHash)
	}

	if hasBlock(blockHash) {
		return errors.Wrapf(ruleerrors.ErrDuplicateBlock, "block %s already exists", blockHash)
	}

	var missingParentHashes []*externalapi.DomainHash
	for _, parentHash := range parentHashes {
		if !hasBlock(parentHash) {
			missingParentHashes = append(missingParentHashes, parentHash)
		}
	}
	if len(missingParentHashes) > 0 {
		return ruleerrors.NewErrMissingParents(missingParentHashes)
	}

	parentSet := hashset.New()
	for _, parentHash := range parentHashes {
		if parentSet.Contains(parentHash) {
			return errors.Wrapf(ruleerrors.ErrDuplicateParents, "block %s lists parent %s more than once",
				blockHash, parentHash)
		}
		parentSet.Add(parentHash)
	}

	return nil
}

// validateParentsAntichain checks that no parent is an ancestor of
// another parent. Two current tips cannot be ancestors of one another, so
// such pairs are not queried.
func (dag *DAG) validateParentsAntichain(blockHash *externalapi.DomainHash, parents []model.BlockID) error {
	for i, parentA := range parents {
		for _, parentB := range parents[i+1:] {
			_, isTipA := dag.tips[parentA]
			_, isTipB := dag.tips[parentB]
			if isTipA && isTipB {
				continue
			}

			isAncestorOf, err := dag.reachabilityManager.IsDAGAncestorOf(parentA, parentB)
			if err != nil {
				return err
			}
			isDescendantOf, err := dag.reachabilityManager.IsDAGAncestorOf(parentB, parentA)
			if err != nil {
				return err
			}
			if isAncestorOf || isDescendantOf {
				return errors.Wrapf(ruleerrors.ErrInvalidParentsRelation, "parents %s and %s of block %s "+
					"are in the past of one another", dag.mustHash(parentA), dag.mustHash(parentB), blockHash)
			}
		}
	}
	return nil
}

// validateFinality checks that the finalized block is on the selected
// chain of the new block, i.e. that it is a tree ancestor of its selected
// parent.
func (dag *DAG) validateFinality(blockHash *externalapi.DomainHash, selectedParent model.BlockID) error {
	isFinalizedAncestor, err := dag.reachabilityManager.IsReachabilityTreeAncestorOf(dag.finalized, selectedParent)
	if err != nil {
		return err
	}
	if !isFinalizedAncestor {
		return errors.Wrapf(ruleerrors.ErrFinalityViolation, "finalized block %s is not in the selected chain "+
			"of block %s", dag.mustHash(dag.finalized), blockHash)
	}
	return nil
}
