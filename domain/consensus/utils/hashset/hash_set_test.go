package hashset

import (
	"testing"

	"github.com/kaspanet/ghostdagsim/domain/consensus/utils/hashes"
)

func TestHashSet(t *testing.T) {
	a, b, c := hashes.FromUint64(3), hashes.FromUint64(1), hashes.FromUint64(2)
	set := NewFromSlice(a, b, a)
	if len(set) != 2 {
		t.Fatalf("expected two hashes, got %d", len(set))
	}
	if !set.Contains(a) || !set.Contains(b) || set.Contains(c) {
		t.Fatalf("unexpected set contents: %s", set)
	}

	set.Add(c)
	set.Remove(a)
	slice := set.ToSlice()
	if len(slice) != 2 || !slice[0].Equal(b) || !slice[1].Equal(c) {
		t.Fatalf("expected [%s, %s], got %s", b, c, set)
	}
}
