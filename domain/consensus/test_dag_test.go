package consensus_test

import (
	"math"
	"testing"

	"github.com/kaspanet/ghostdagsim/domain/consensus"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/consensus/utils/hashes"
	"github.com/kaspanet/ghostdagsim/domain/dagconfig"
)

const genesisHash = 1 << 32

func newTestParams(k model.KType, finalityWindow uint64) *dagconfig.Params {
	return &dagconfig.Params{
		Name:            "test",
		K:               k,
		FinalityWindow:  finalityWindow,
		GenesisInterval: model.ReachabilityInterval{Start: 1, End: math.MaxUint64 - 1},
		GenesisHash:     hashes.FromUint64(genesisHash),
	}
}

func newTestDAG(t *testing.T, params *dagconfig.Params) *consensus.DAG {
	dag, err := consensus.New(params, nil)
	if err != nil {
		t.Fatalf("New: %+v", err)
	}
	return dag
}

func mustAddBlock(t *testing.T, dag externalapi.DAG, hash uint64, parents ...*externalapi.DomainHash) *externalapi.DomainHash {
	blockHash := hashes.FromUint64(hash)
	_, err := dag.AddNewBlock(blockHash, parents)
	if err != nil {
		t.Fatalf("AddNewBlock %s: %+v", blockHash, err)
	}
	return blockHash
}

func mustBlueScore(t *testing.T, dag *consensus.DAG, blockHash *externalapi.DomainHash) uint64 {
	blueScore, err := dag.BlueScore(blockHash)
	if err != nil {
		t.Fatalf("BlueScore: %+v", err)
	}
	return blueScore
}

func mustIsBlue(t *testing.T, dag *consensus.DAG, blockHash, contextHash *externalapi.DomainHash) bool {
	isBlue, err := dag.IsBlue(blockHash, contextHash)
	if err != nil {
		t.Fatalf("IsBlue: %+v", err)
	}
	return isBlue
}

func hashesEqual(a, b []*externalapi.DomainHash) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
