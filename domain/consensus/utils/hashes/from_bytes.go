package hashes

import (
	"encoding/binary"

	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
)

// FromBytes creates a DomainHash from the given byte slice
func FromBytes(hashBytes []byte) (*externalapi.DomainHash, error) {
	return externalapi.NewDomainHashFromByteSlice(hashBytes)
}

// FromUint64 creates a DomainHash whose big-endian integer value is n
func FromUint64(n uint64) *externalapi.DomainHash {
	var hashBytes [externalapi.DomainHashSize]byte
	binary.BigEndian.PutUint64(hashBytes[externalapi.DomainHashSize-8:], n)
	return externalapi.NewDomainHashFromByteArray(&hashBytes)
}
