package relationstore

import (
	"encoding/binary"

	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/consensus/utils/hashes"
	"github.com/pkg/errors"
)

// BlockRelations holds the DAG parents and children of a persisted block
type BlockRelations struct {
	Parents  []*externalapi.DomainHash
	Children []*externalapi.DomainHash
}

// Clone returns a clone of BlockRelations
func (br *BlockRelations) Clone() *BlockRelations {
	return &BlockRelations{
		Parents:  externalapi.CloneHashes(br.Parents),
		Children: externalapi.CloneHashes(br.Children),
	}
}

// serializeBlockRelations encodes the parent count followed by the
// parents and the children
func serializeBlockRelations(blockRelations *BlockRelations) []byte {
	serialized := make([]byte, 4, 4+(len(blockRelations.Parents)+len(blockRelations.Children))*externalapi.DomainHashSize)
	binary.LittleEndian.PutUint32(serialized, uint32(len(blockRelations.Parents)))
	serialized = append(serialized, hashes.SerializeHashSlice(blockRelations.Parents)...)
	return append(serialized, hashes.SerializeHashSlice(blockRelations.Children)...)
}

func deserializeBlockRelations(serialized []byte) (*BlockRelations, error) {
	if len(serialized) < 4 {
		return nil, errors.Errorf("serialized block relations are %d bytes long, expected at least 4",
			len(serialized))
	}
	parentCount := int(binary.LittleEndian.Uint32(serialized[:4]))
	parentsEnd := 4 + parentCount*externalapi.DomainHashSize
	if parentsEnd > len(serialized) {
		return nil, errors.Errorf("serialized block relations claim %d parents but are only %d bytes long",
			parentCount, len(serialized))
	}

	parents, err := hashes.DeserializeHashSlice(serialized[4:parentsEnd])
	if err != nil {
		return nil, err
	}
	children, err := hashes.DeserializeHashSlice(serialized[parentsEnd:])
	if err != nil {
		return nil, err
	}
	return &BlockRelations{Parents: parents, Children: children}, nil
}
