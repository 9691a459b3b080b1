package model

import (
	"math"
	"strconv"
)

// BlockID is the local handle of a block inside a single DAG instance.
// Handles are assigned in creation order starting from genesis at 0, so
// a BlockID doubles as the block's local index.
type BlockID uint64

// NoBlock is the BlockID used where a block reference is absent, e.g.
// the selected parent of genesis.
const NoBlock BlockID = math.MaxUint64

func (id BlockID) String() string {
	if id == NoBlock {
		return "<none>"
	}
	return strconv.FormatUint(uint64(id), 10)
}
