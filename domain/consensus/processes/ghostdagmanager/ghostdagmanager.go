package ghostdagmanager

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
)

// ghostdagManager resolves and manages GHOSTDAG block data
type ghostdagManager struct {
	blockIndex          model.BlockIndex
	blockRelationStore  model.BlockRelationStore
	ghostdagDataStore   model.GHOSTDAGDataStore
	reachabilityManager model.ReachabilityManager
	k                   model.KType
}

// New instantiates a new GHOSTDAGManager
func New(
	blockIndex model.BlockIndex,
	blockRelationStore model.BlockRelationStore,
	ghostdagDataStore model.GHOSTDAGDataStore,
	reachabilityManager model.ReachabilityManager,
	k model.KType) model.GHOSTDAGManager {

	return &ghostdagManager{
		blockIndex:          blockIndex,
		blockRelationStore:  blockRelationStore,
		ghostdagDataStore:   ghostdagDataStore,
		reachabilityManager: reachabilityManager,
		k:                   k,
	}
}
