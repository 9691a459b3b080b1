package model

import "github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"

// BlockIndex maps block hashes to the local handles of a DAG instance
type BlockIndex interface {
	Add(blockHash *externalapi.DomainHash) (BlockID, error)
	BlockID(blockHash *externalapi.DomainHash) (BlockID, bool)
	Hash(blockID BlockID) (*externalapi.DomainHash, error)
	Has(blockHash *externalapi.DomainHash) bool
	Count() int
}
