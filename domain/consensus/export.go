package consensus

import (
	"strconv"

	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
)

// Export returns all blocks of the DAG ordered by local index, with
// blocks referring to their parents by local index as well
func (dag *DAG) Export() ([]*externalapi.ExportedBlock, error) {
	exported := make([]*externalapi.ExportedBlock, dag.BlockCount())
	for i := range exported {
		blockRelations, err := dag.blockRelationStore.BlockRelation(model.BlockID(i))
		if err != nil {
			return nil, err
		}
		parents := make([]string, len(blockRelations.Parents))
		for j, parent := range blockRelations.Parents {
			parents[j] = strconv.FormatUint(uint64(parent), 10)
		}
		exported[i] = &externalapi.ExportedBlock{
			ID:      strconv.Itoa(i),
			Parents: parents,
		}
	}
	return exported, nil
}
