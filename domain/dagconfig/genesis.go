package dagconfig

import (
	"github.com/google/uuid"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/consensus/utils/hashes"
)

// NewGenesisHash returns a fresh random genesis hash. All nodes of a
// simulation have to share the same genesis, so it is generated once per
// run and handed to every DAG.
func NewGenesisHash() *externalapi.DomainHash {
	id := uuid.New()
	writer := hashes.NewBlockHashWriter()
	writer.InfallibleWrite(id[:])
	return writer.Finalize()
}

// GenesisHashOrNew returns the configured genesis hash, or a fresh one if
// none is configured
func (p *Params) GenesisHashOrNew() *externalapi.DomainHash {
	if p.GenesisHash != nil {
		return p.GenesisHash
	}
	return NewGenesisHash()
}
