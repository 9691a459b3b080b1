package simulation

import (
	"reflect"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/kaspanet/ghostdagsim/domain/dagconfig"
	"github.com/prometheus/client_golang/prometheus"
)

func runTestSimulation(t *testing.T, cfg *Config) *Result {
	simulation, err := New(cfg, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("New: %+v", err)
	}
	result, err := simulation.Run()
	if err != nil {
		t.Fatalf("Run: %+v", err)
	}
	return result
}

func TestAttackSimulation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows, cfg.Cols = 2, 2
	cfg.Alpha = 0.2
	cfg.Duration = 300

	result := runTestSimulation(t, cfg)
	expectedK, err := dagconfig.SelectK(2*cfg.MaxDelay()*cfg.Lambda, cfg.Delta)
	if err != nil {
		t.Fatalf("SelectK: %+v", err)
	}
	if result.K != expectedK || result.DAG.Params().K != expectedK {
		t.Fatalf("expected k=%d, got %d", expectedK, result.K)
	}
	if result.DAG.BlockCount() < 2 || result.DAG.BlockCount() > result.MinedBlocks+1 {
		t.Fatalf("unexpected block count %d out of %d mined blocks", result.DAG.BlockCount(), result.MinedBlocks)
	}
	err = result.DAG.ValidateIntervals()
	if err != nil {
		t.Fatalf("ValidateIntervals: %+v", err)
	}

	report, err := NewReport(cfg, result)
	if err != nil {
		t.Fatalf("NewReport: %+v", err)
	}
	if report.DAGStats.BlockCount != result.DAG.BlockCount() || !strings.HasPrefix(report.String(), "k: ") {
		t.Fatalf("unexpected report %s", report)
	}
}

func TestSimulationIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Attack = false
	cfg.SelectK = false
	cfg.Params = dagconfig.DevnetParams.Clone()
	cfg.Params.FinalityWindow = 50
	cfg.Duration = 200

	first := runTestSimulation(t, cfg)
	second := runTestSimulation(t, cfg)
	if first.K != dagconfig.DevnetParams.K {
		t.Fatalf("expected k=%d, got %d", dagconfig.DevnetParams.K, first.K)
	}

	firstExport, err := first.DAG.Export()
	if err != nil {
		t.Fatalf("Export: %+v", err)
	}
	secondExport, err := second.DAG.Export()
	if err != nil {
		t.Fatalf("Export: %+v", err)
	}
	if !reflect.DeepEqual(firstExport, secondExport) {
		t.Fatalf("expected runs with the same seed to build the same DAG. first: %s, second: %s",
			spew.Sdump(firstExport), spew.Sdump(secondExport))
	}
	if !first.DAG.Virtual().Equal(second.DAG.Virtual()) {
		t.Fatalf("expected runs with the same seed to agree on the virtual")
	}
	if !reflect.DeepEqual(first.Metrics.ReindexTrace(), second.Metrics.ReindexTrace()) {
		t.Fatalf("expected runs with the same seed to reindex the same way")
	}
	err = first.DAG.ValidateIntervals()
	if err != nil {
		t.Fatalf("ValidateIntervals: %+v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(cfg *Config)
	}{
		{name: "no params", modify: func(cfg *Config) { cfg.Params = nil }},
		{name: "empty grid", modify: func(cfg *Config) { cfg.Rows = 0 }},
		{name: "zero lambda", modify: func(cfg *Config) { cfg.Lambda = 0 }},
		{name: "attack with a single miner", modify: func(cfg *Config) { cfg.Rows, cfg.Cols = 1, 1 }},
		{name: "alpha above 1", modify: func(cfg *Config) { cfg.Alpha = 1.5 }},
		{name: "zero report interval", modify: func(cfg *Config) { cfg.ReportInterval = 0 }},
	}
	for _, test := range tests {
		cfg := DefaultConfig()
		test.modify(cfg)
		if cfg.Validate() == nil {
			t.Errorf("%s: expected Validate to fail", test.name)
		}
	}
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("expected the default config to be valid, got %+v", err)
	}
}
