package relationstore

import (
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
)

var (
	separator        = []byte("/")
	relationsBucket  = []byte("block-relations")
	tipsKey          = []byte("tips")
	pruningPointKey  = []byte("pruning-point")
	relationsPrefix  = append(append([]byte{}, relationsBucket...), separator...)
	blockCountKey    = []byte("block-count")
	blockCountLength = 8
)

func relationsKey(blockHash *externalapi.DomainHash) []byte {
	key := make([]byte, 0, len(relationsPrefix)+externalapi.DomainHashSize)
	key = append(key, relationsPrefix...)
	return append(key, blockHash.ByteSlice()...)
}
