package dagconfig

import (
	"math"

	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/pkg/errors"
)

// SelectK selects the k parameter of the GHOSTDAG protocol such that
// anticones larger than k are created with probability less than delta.
// x is expected to be 2Dλ, where D is the maximal network delay and λ is
// the block rate. The anticone size is Poisson(x) distributed, so this
// returns the minimal k whose upper tail P(X > k) is below delta.
//
// See eq. 1 in section 4.2 of the PHANTOM paper.
func SelectK(x float64, delta float64) (model.KType, error) {
	if x < 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, errors.Errorf("x must be a non-negative number, got %f", x)
	}
	if !(delta > 0 && delta < 1) {
		return 0, errors.Errorf("delta must be in (0, 1), got %f", delta)
	}

	sigma := 0.0
	fraction := 1.0 // x^kHat / kHat!
	exp := math.Exp(-x)
	for kHat := 0; kHat <= math.MaxUint8; kHat++ {
		if kHat > 0 {
			fraction *= x / float64(kHat)
		}
		sigma += exp * fraction
		if 1-sigma < delta {
			return model.KType(kHat), nil
		}
	}
	return 0, errors.Errorf("no k up to %d satisfies x=%f and delta=%f", math.MaxUint8, x, delta)
}
