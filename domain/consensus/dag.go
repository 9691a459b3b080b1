package consensus

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/datastructures/blockindex"
	"github.com/kaspanet/ghostdagsim/domain/consensus/datastructures/blockrelationstore"
	"github.com/kaspanet/ghostdagsim/domain/consensus/datastructures/ghostdagdatastore"
	"github.com/kaspanet/ghostdagsim/domain/consensus/datastructures/reachabilitydatastore"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/consensus/processes/ghostdagmanager"
	"github.com/kaspanet/ghostdagsim/domain/consensus/processes/reachabilitymanager"
	"github.com/kaspanet/ghostdagsim/domain/dagconfig"
	"github.com/pkg/errors"
)

// initialCapacity is the number of blocks the stores preallocate for
const initialCapacity = 1024

// DAG maintains a block DAG and orders it with the GHOSTDAG protocol.
// A DAG is not safe for concurrent use.
type DAG struct {
	params *dagconfig.Params

	blockIndex            model.BlockIndex
	blockRelationStore    model.BlockRelationStore
	ghostdagDataStore     model.GHOSTDAGDataStore
	reachabilityDataStore model.ReachabilityDataStore

	reachabilityManager model.ReachabilityManager
	ghostdagManager     model.GHOSTDAGManager

	genesis   model.BlockID
	virtual   model.BlockID
	finalized model.BlockID
	tips      map[model.BlockID]struct{}
}

var _ externalapi.DAG = (*DAG)(nil)

// New creates a DAG holding only the genesis block. observer, if not nil,
// is notified of every change to the reachability interval allocation.
func New(params *dagconfig.Params, observer model.ReachabilityObserver) (*DAG, error) {
	err := params.Validate()
	if err != nil {
		return nil, err
	}

	blockIndex := blockindex.New(initialCapacity)
	blockRelationStore := blockrelationstore.New(initialCapacity)
	ghostdagDataStore := ghostdagdatastore.New(initialCapacity)
	reachabilityDataStore := reachabilitydatastore.New(initialCapacity)

	reachabilityManager := reachabilitymanager.New(reachabilityDataStore, observer)
	ghostdagManager := ghostdagmanager.New(blockIndex, blockRelationStore, ghostdagDataStore,
		reachabilityManager, params.K)

	genesisHash := params.GenesisHashOrNew()
	genesis, err := blockIndex.Add(genesisHash)
	if err != nil {
		return nil, err
	}
	blockRelationStore.Insert(genesis, &model.BlockRelations{})
	ghostdagDataStore.Insert(genesis, model.NewBlockGHOSTDAGData(1, model.NoBlock,
		[]model.BlockID{}, []model.BlockID{}, map[model.BlockID]model.KType{}))
	err = reachabilityManager.AddGenesis(genesis, params.GenesisInterval.Clone())
	if err != nil {
		return nil, errors.Wrapf(err, "failed initializing the reachability tree")
	}

	log.Debugf("Created a DAG with k=%d, finality window %d and genesis %s",
		params.K, params.FinalityWindow, genesisHash)

	return &DAG{
		params: params,

		blockIndex:            blockIndex,
		blockRelationStore:    blockRelationStore,
		ghostdagDataStore:     ghostdagDataStore,
		reachabilityDataStore: reachabilityDataStore,

		reachabilityManager: reachabilityManager,
		ghostdagManager:     ghostdagManager,

		genesis:   genesis,
		virtual:   genesis,
		finalized: genesis,
		tips:      map[model.BlockID]struct{}{genesis: {}},
	}, nil
}

// Params returns the parameters the DAG was created with
func (dag *DAG) Params() *dagconfig.Params {
	return dag.params
}
