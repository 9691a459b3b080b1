package consensus_test

import (
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
)

func TestExport(t *testing.T) {
	dag := newTestDAG(t, newTestParams(3, 100))
	a := mustAddBlock(t, dag, 10, dag.Genesis())
	b := mustAddBlock(t, dag, 20, dag.Genesis())
	mustAddBlock(t, dag, 30, b, a)

	exported, err := dag.Export()
	if err != nil {
		t.Fatalf("Export: %+v", err)
	}
	expected := []*externalapi.ExportedBlock{
		{ID: "0", Parents: []string{}},
		{ID: "1", Parents: []string{"0"}},
		{ID: "2", Parents: []string{"0"}},
		{ID: "3", Parents: []string{"2", "1"}},
	}
	if !reflect.DeepEqual(exported, expected) {
		t.Fatalf("unexpected export. want: %s, got: %s", spew.Sdump(expected), spew.Sdump(exported))
	}

	stats, err := dag.Stats()
	if err != nil {
		t.Fatalf("Stats: %+v", err)
	}
	if stats.BlockCount != 4 || stats.AverageParents != 1 || stats.AverageBlues != 0.25 {
		t.Fatalf("unexpected stats: %s", stats)
	}
}
