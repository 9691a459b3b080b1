package metrics

import (
	"math"

	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/prometheus/client_golang/prometheus"
)

// ReachabilityMetrics is a model.ReachabilityObserver that exports the
// reachability manager's interval allocation activity as prometheus
// metrics. It also keeps the size of every reindex in the order they
// happened.
type ReachabilityMetrics struct {
	allocationCounter    prometheus.Counter
	reindexCounter       prometheus.Counter
	reindexSizes         prometheus.Histogram
	concentrationCounter prometheus.Counter
	concentratedSizes    prometheus.Histogram

	reindexTrace []uint64
}

var _ model.ReachabilityObserver = (*ReachabilityMetrics)(nil)

// NewReachabilityMetrics creates a ReachabilityMetrics and registers its
// collectors with registerer. constLabels tell apart the metrics of
// several DAGs sharing a registry.
func NewReachabilityMetrics(registerer prometheus.Registerer, constLabels prometheus.Labels) (*ReachabilityMetrics, error) {
	rm := &ReachabilityMetrics{
		allocationCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ghostdag_reachability_allocations",
			Help:        "tree children allocated out of their parent's remaining interval",
			ConstLabels: constLabels,
		}),
		reindexCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ghostdag_reachability_reindexes",
			Help:        "reachability subtrees re-propagated",
			ConstLabels: constLabels,
		}),
		reindexSizes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "ghostdag_reachability_reindex_size",
			Help:        "number of blocks in re-propagated subtrees",
			Buckets:     prometheus.ExponentialBuckets(1, 4, 10),
			ConstLabels: constLabels,
		}),
		concentrationCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "ghostdag_reachability_concentrations",
			Help:        "intervals concentrated towards a newly finalized block",
			ConstLabels: constLabels,
		}),
		concentratedSizes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "ghostdag_reachability_concentrated_size",
			Help:        "number of blocks tightened into exact intervals per concentration",
			Buckets:     prometheus.ExponentialBuckets(1, 4, 10),
			ConstLabels: constLabels,
		}),
	}

	for _, collector := range []prometheus.Collector{rm.allocationCounter, rm.reindexCounter, rm.reindexSizes,
		rm.concentrationCounter, rm.concentratedSizes} {

		err := registerer.Register(collector)
		if err != nil {
			return nil, err
		}
	}
	return rm, nil
}

// OnAllocation implements model.ReachabilityObserver
func (rm *ReachabilityMetrics) OnAllocation(model.BlockID, model.BlockID) {
	rm.allocationCounter.Inc()
}

// OnReindex implements model.ReachabilityObserver
func (rm *ReachabilityMetrics) OnReindex(reindexRoot model.BlockID, subtreeSize uint64) {
	rm.reindexCounter.Inc()
	rm.reindexSizes.Observe(float64(subtreeSize))
	rm.reindexTrace = append(rm.reindexTrace, subtreeSize)
	log.Tracef("Reindexed the subtree of %s with %d blocks", reindexRoot, subtreeSize)
}

// OnConcentration implements model.ReachabilityObserver
func (rm *ReachabilityMetrics) OnConcentration(ancestor model.BlockID, chosenChild model.BlockID,
	tightenedSize uint64) {

	rm.concentrationCounter.Inc()
	rm.concentratedSizes.Observe(float64(tightenedSize))
	log.Tracef("Concentrated the interval of %s towards %s, tightening %d blocks", ancestor, chosenChild,
		tightenedSize)
}

// ReindexTrace returns the subtree sizes of all reindexes so far, oldest
// first
func (rm *ReachabilityMetrics) ReindexTrace() []uint64 {
	trace := make([]uint64, len(rm.reindexTrace))
	copy(trace, rm.reindexTrace)
	return trace
}

// ReindexSizeStats returns the mean and the population standard deviation
// of the reindex sizes. Both are 0 if no reindex happened.
func (rm *ReachabilityMetrics) ReindexSizeStats() (mean float64, stdDev float64) {
	if len(rm.reindexTrace) == 0 {
		return 0, 0
	}
	for _, size := range rm.reindexTrace {
		mean += float64(size)
	}
	mean /= float64(len(rm.reindexTrace))

	var variance float64
	for _, size := range rm.reindexTrace {
		diff := float64(size) - mean
		variance += diff * diff
	}
	variance /= float64(len(rm.reindexTrace))
	return mean, math.Sqrt(variance)
}
