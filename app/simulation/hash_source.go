package simulation

import (
	"encoding/binary"

	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/consensus/utils/hashes"
)

// HashSource generates the block hashes of a simulation run. Every hash
// is the blake2b digest of the run's seed and a counter, so runs with the
// same seed produce the same hashes.
type HashSource struct {
	seed    [8]byte
	counter uint64
}

// NewHashSource creates a HashSource for the given seed
func NewHashSource(seed int64) *HashSource {
	hs := &HashSource{}
	binary.LittleEndian.PutUint64(hs.seed[:], uint64(seed))
	return hs
}

// Next returns a hash that was never returned by this HashSource before
func (hs *HashSource) Next() *externalapi.DomainHash {
	var counter [8]byte
	binary.LittleEndian.PutUint64(counter[:], hs.counter)
	hs.counter++

	writer := hashes.NewBlockHashWriter()
	writer.InfallibleWrite(hs.seed[:])
	writer.InfallibleWrite(counter[:])
	return writer.Finalize()
}
