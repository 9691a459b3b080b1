package dagconfig

import (
	"math"
	"testing"

	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/pkg/errors"
)

func TestSelectK(t *testing.T) {
	// The maximal delay of the default simulation topology: a 3x3 grid
	// with unit spacing plus the minimal delay.
	defaultTopologyDelay := math.Sqrt(18) + 0.1

	tests := []struct {
		x           float64
		delta       float64
		expectedK   model.KType
		expectedErr bool
	}{
		{x: 2 * defaultTopologyDelay, delta: 0.01, expectedK: 16},
		{x: 0, delta: 0.5, expectedK: 0},
		{x: 0.5, delta: 0.5, expectedK: 0},
		{x: 1, delta: 0.01, expectedK: 4},
		{x: 2, delta: 0.001, expectedK: 8},
		{x: 10, delta: 0.0001, expectedK: 24},
		{x: 200, delta: 1e-9, expectedErr: true},
		{x: -1, delta: 0.01, expectedErr: true},
		{x: 1, delta: 0, expectedErr: true},
		{x: 1, delta: 1, expectedErr: true},
		{x: math.NaN(), delta: 0.01, expectedErr: true},
	}

	for i, test := range tests {
		k, err := SelectK(test.x, test.delta)
		if test.expectedErr {
			if err == nil {
				t.Errorf("TestSelectK: test #%d: expected an error, got k=%d", i, k)
			}
			continue
		}
		if err != nil {
			t.Errorf("TestSelectK: test #%d: unexpected error: %+v", i, err)
			continue
		}
		if k != test.expectedK {
			t.Errorf("TestSelectK: test #%d: want: %d, got: %d", i, test.expectedK, k)
		}
	}
}

func TestRegister(t *testing.T) {
	mockNetParams := &Params{
		Name:            "mocknet",
		K:               1,
		FinalityWindow:  10,
		GenesisInterval: model.ReachabilityInterval{Start: 1, End: 100},
	}

	tests := []struct {
		name   string
		params *Params
		err    error
	}{
		{name: "duplicate simnet", params: &SimnetParams, err: ErrDuplicateNet},
		{name: "duplicate widenet", params: &WidenetParams, err: ErrDuplicateNet},
		{name: "duplicate devnet", params: &DevnetParams, err: ErrDuplicateNet},
		{name: "new mocknet", params: mockNetParams, err: nil},
		{name: "duplicate mocknet", params: mockNetParams, err: ErrDuplicateNet},
	}

	for _, test := range tests {
		err := Register(test.params)
		if !errors.Is(err, test.err) || (err == nil) != (test.err == nil) {
			t.Errorf("%s: unexpected error. want: %v, got: %v", test.name, test.err, err)
		}
	}

	params, err := ParamsByName("mocknet")
	if err != nil {
		t.Fatalf("ParamsByName: %+v", err)
	}
	if params == mockNetParams || params.K != mockNetParams.K {
		t.Fatalf("TestRegister: expected a clone of the registered params")
	}

	_, err = ParamsByName("nonexistent")
	if !errors.Is(err, ErrUnknownNet) {
		t.Fatalf("TestRegister: expected ErrUnknownNet, got: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		interval    model.ReachabilityInterval
		expectedErr bool
	}{
		{interval: defaultGenesisInterval, expectedErr: false},
		{interval: model.ReachabilityInterval{Start: 0, End: 63}, expectedErr: false},
		{interval: model.ReachabilityInterval{Start: 5, End: 5}, expectedErr: true},
		{interval: model.ReachabilityInterval{Start: 5, End: 4}, expectedErr: true},
		{interval: model.ReachabilityInterval{Start: 0, End: math.MaxUint64}, expectedErr: true},
	}
	for i, test := range tests {
		params := DefaultParams()
		params.GenesisInterval = test.interval
		err := params.Validate()
		if (err != nil) != test.expectedErr {
			t.Errorf("TestValidate: test #%d: unexpected result: %v", i, err)
		}
	}
}

func TestGenesisHashOrNew(t *testing.T) {
	params := DefaultParams()
	first := params.GenesisHashOrNew()
	second := params.GenesisHashOrNew()
	if first.Equal(second) {
		t.Fatalf("TestGenesisHashOrNew: expected distinct random genesis hashes")
	}

	params.GenesisHash = first
	if !params.GenesisHashOrNew().Equal(first) {
		t.Fatalf("TestGenesisHashOrNew: expected the configured genesis hash")
	}
}
