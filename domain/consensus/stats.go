package consensus

import (
	"fmt"

	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
)

// Stats holds averages over all blocks of the DAG
type Stats struct {
	BlockCount                   int
	AverageBlues                 float64
	AverageReds                  float64
	AverageParents               float64
	AverageBluesAnticoneSizes    float64
	AverageFutureCoveringSetSize float64
}

func (s *Stats) String() string {
	return fmt.Sprintf("blocks: %d, avg blues: %.2f, avg reds: %.2f, avg parents: %.2f, "+
		"avg blues anticone sizes: %.2f, avg future covering set: %.2f", s.BlockCount, s.AverageBlues,
		s.AverageReds, s.AverageParents, s.AverageBluesAnticoneSizes, s.AverageFutureCoveringSetSize)
}

// Stats collects averages over all blocks of the DAG
func (dag *DAG) Stats() (*Stats, error) {
	var blues, reds, parents, bluesAnticoneSizes, futureCoveringSets int
	blockCount := dag.BlockCount()
	for i := 0; i < blockCount; i++ {
		blockID := model.BlockID(i)
		blockGHOSTDAGData, err := dag.ghostdagDataStore.Get(blockID)
		if err != nil {
			return nil, err
		}
		blockRelations, err := dag.blockRelationStore.BlockRelation(blockID)
		if err != nil {
			return nil, err
		}
		reachabilityData, err := dag.reachabilityDataStore.ReachabilityData(blockID)
		if err != nil {
			return nil, err
		}

		blues += len(blockGHOSTDAGData.MergeSetBlues)
		reds += len(blockGHOSTDAGData.MergeSetReds)
		parents += len(blockRelations.Parents)
		bluesAnticoneSizes += len(blockGHOSTDAGData.BluesAnticoneSizes)
		futureCoveringSets += len(reachabilityData.FutureCoveringSet)
	}

	average := func(sum int) float64 {
		return float64(sum) / float64(blockCount)
	}
	return &Stats{
		BlockCount:                   blockCount,
		AverageBlues:                 average(blues),
		AverageReds:                  average(reds),
		AverageParents:               average(parents),
		AverageBluesAnticoneSizes:    average(bluesAnticoneSizes),
		AverageFutureCoveringSetSize: average(futureCoveringSets),
	}, nil
}
