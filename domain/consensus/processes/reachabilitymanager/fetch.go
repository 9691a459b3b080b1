package reachabilitymanager

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
)

func (rt *reachabilityManager) data(blockID model.BlockID) (*model.ReachabilityData, error) {
	return rt.reachabilityDataStore.ReachabilityData(blockID)
}

func (rt *reachabilityManager) futureCoveringSet(blockID model.BlockID) (model.FutureCoveringTreeNodeSet, error) {
	data, err := rt.data(blockID)
	if err != nil {
		return nil, err
	}

	return data.FutureCoveringSet, nil
}

func (rt *reachabilityManager) treeNode(blockID model.BlockID) (*model.ReachabilityTreeNode, error) {
	data, err := rt.data(blockID)
	if err != nil {
		return nil, err
	}

	return data.TreeNode, nil
}

func (rt *reachabilityManager) interval(blockID model.BlockID) (*model.ReachabilityInterval, error) {
	treeNode, err := rt.treeNode(blockID)
	if err != nil {
		return nil, err
	}

	return treeNode.Interval, nil
}

func (rt *reachabilityManager) remaining(blockID model.BlockID) (*model.ReachabilityInterval, error) {
	treeNode, err := rt.treeNode(blockID)
	if err != nil {
		return nil, err
	}

	return treeNode.Remaining, nil
}

func (rt *reachabilityManager) children(blockID model.BlockID) ([]model.BlockID, error) {
	treeNode, err := rt.treeNode(blockID)
	if err != nil {
		return nil, err
	}

	return treeNode.Children, nil
}

func (rt *reachabilityManager) parent(blockID model.BlockID) (model.BlockID, error) {
	treeNode, err := rt.treeNode(blockID)
	if err != nil {
		return model.NoBlock, err
	}

	return treeNode.Parent, nil
}
