package simulation

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/kaspanet/ghostdagsim/domain/consensus"
)

// Report summarizes the DAG a simulation run produced
type Report struct {
	K            int
	DelayFactor  float64
	Delta        float64
	MinedBlocks  int
	DAGStats     *consensus.Stats
	ReindexCount int
	ReindexMean  float64
	ReindexStd   float64

	// FinalizedCapacityLog2 is the base 2 logarithm of the interval size
	// left for the future of the finalized block
	FinalizedCapacityLog2 int
}

// NewReport collects the report of a simulation run
func NewReport(cfg *Config, result *Result) (*Report, error) {
	dagStats, err := result.DAG.Stats()
	if err != nil {
		return nil, err
	}
	finalizedIntervalSize, err := result.DAG.FinalizedIntervalSize()
	if err != nil {
		return nil, err
	}
	reindexMean, reindexStd := result.Metrics.ReindexSizeStats()

	return &Report{
		K:                     int(result.K),
		DelayFactor:           2 * result.MaxDelay * cfg.Lambda,
		Delta:                 cfg.Delta,
		MinedBlocks:           result.MinedBlocks,
		DAGStats:              dagStats,
		ReindexCount:          len(result.Metrics.ReindexTrace()),
		ReindexMean:           reindexMean,
		ReindexStd:            reindexStd,
		FinalizedCapacityLog2: bits.Len64(finalizedIntervalSize) - 1,
	}, nil
}

func (r *Report) String() string {
	builder := &strings.Builder{}
	fmt.Fprintf(builder, "k: %d, 2Dλ: %.2f, δ: %.3f, mined blocks: %d\n", r.K, r.DelayFactor, r.Delta,
		r.MinedBlocks)
	fmt.Fprintf(builder, "\t avg blues: %.2f, avg reds: %.2f, avg parents: %.2f\n", r.DAGStats.AverageBlues,
		r.DAGStats.AverageReds, r.DAGStats.AverageParents)
	fmt.Fprintf(builder, "\t avg blues anticone sizes: %.2f, avg future covering set: %.2f\n",
		r.DAGStats.AverageBluesAnticoneSizes, r.DAGStats.AverageFutureCoveringSetSize)
	fmt.Fprintf(builder, "\t reindexes: %d, avg reindex size: %.2f, std reindex size: %.2f\n", r.ReindexCount,
		r.ReindexMean, r.ReindexStd)
	fmt.Fprintf(builder, "Finalized block capacity: (~) 2^%d", r.FinalizedCapacityLog2)
	return builder.String()
}
