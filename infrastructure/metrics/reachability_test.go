package metrics

import (
	"math"
	"reflect"
	"testing"

	"github.com/kaspanet/ghostdagsim/domain/consensus"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/consensus/utils/hashes"
	"github.com/kaspanet/ghostdagsim/domain/dagconfig"
	"github.com/prometheus/client_golang/prometheus"
)

func counterValue(t *testing.T, registry *prometheus.Registry, name string) float64 {
	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather: %+v", err)
	}
	for _, metricFamily := range metricFamilies {
		if metricFamily.GetName() == name {
			return metricFamily.GetMetric()[0].GetCounter().GetValue()
		}
	}
	t.Fatalf("metric %s was not found", name)
	return 0
}

func TestReachabilityMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	reachabilityMetrics, err := NewReachabilityMetrics(registry, prometheus.Labels{"dag": "test"})
	if err != nil {
		t.Fatalf("NewReachabilityMetrics: %+v", err)
	}

	reachabilityMetrics.OnAllocation(0, 1)
	reachabilityMetrics.OnAllocation(1, 2)
	reachabilityMetrics.OnReindex(0, 2)
	reachabilityMetrics.OnReindex(1, 4)
	reachabilityMetrics.OnConcentration(0, 1, 3)

	if value := counterValue(t, registry, "ghostdag_reachability_allocations"); value != 2 {
		t.Fatalf("expected 2 allocations, got %f", value)
	}
	if value := counterValue(t, registry, "ghostdag_reachability_reindexes"); value != 2 {
		t.Fatalf("expected 2 reindexes, got %f", value)
	}
	if value := counterValue(t, registry, "ghostdag_reachability_concentrations"); value != 1 {
		t.Fatalf("expected 1 concentration, got %f", value)
	}

	if !reflect.DeepEqual(reachabilityMetrics.ReindexTrace(), []uint64{2, 4}) {
		t.Fatalf("unexpected reindex trace %v", reachabilityMetrics.ReindexTrace())
	}
	mean, stdDev := reachabilityMetrics.ReindexSizeStats()
	if mean != 3 || stdDev != 1 {
		t.Fatalf("expected mean 3 and standard deviation 1, got %f and %f", mean, stdDev)
	}

	_, err = NewReachabilityMetrics(registry, prometheus.Labels{"dag": "test"})
	if err == nil {
		t.Fatalf("expected registering the same metrics twice to fail")
	}
}

func TestReachabilityMetricsObserveDAG(t *testing.T) {
	registry := prometheus.NewRegistry()
	reachabilityMetrics, err := NewReachabilityMetrics(registry, nil)
	if err != nil {
		t.Fatalf("NewReachabilityMetrics: %+v", err)
	}

	params := dagconfig.DevnetParams.Clone()
	params.GenesisInterval = model.ReachabilityInterval{Start: 1, End: 128}
	params.FinalityWindow = 1000
	dag, err := consensus.New(params, reachabilityMetrics)
	if err != nil {
		t.Fatalf("New: %+v", err)
	}

	// A chain halves the remaining interval with every block, so it runs
	// out of space after about log2(128) blocks
	parent := dag.Genesis()
	for i := uint64(1); i <= 20; i++ {
		blockHash := hashes.FromUint64(i)
		_, err := dag.AddNewBlock(blockHash, []*externalapi.DomainHash{parent})
		if err != nil {
			t.Fatalf("AddNewBlock: %+v", err)
		}
		parent = blockHash
	}

	if len(reachabilityMetrics.ReindexTrace()) == 0 {
		t.Fatalf("expected at least one reindex")
	}
	allocations := counterValue(t, registry, "ghostdag_reachability_allocations")
	if allocations+float64(len(reachabilityMetrics.ReindexTrace())) < 20 {
		t.Fatalf("expected every block to be either allocated or reindexed, got %f allocations", allocations)
	}
	mean, stdDev := reachabilityMetrics.ReindexSizeStats()
	if mean < 1 || math.IsNaN(stdDev) {
		t.Fatalf("unexpected reindex size stats %f, %f", mean, stdDev)
	}
	err = dag.ValidateIntervals()
	if err != nil {
		t.Fatalf("ValidateIntervals: %+v", err)
	}
}
