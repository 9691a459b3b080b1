package simulation

import (
	"math"

	"github.com/kaspanet/ghostdagsim/app/orphanpool"
	"github.com/kaspanet/ghostdagsim/domain/dagconfig"
	"github.com/pkg/errors"
)

const (
	defaultLambda         = 1
	defaultDelta          = 0.01
	defaultAlpha          = 0.01
	defaultGridSize       = 3
	defaultDistanceFactor = 1.0
	defaultDuration       = 1 << 12
	defaultSeed           = 22522
	defaultReportInterval = 100

	// minDelay is the minimal latency between any two nodes
	minDelay = 0.1
)

// Config defines a simulation run
type Config struct {
	// Params are the parameters of every DAG in the simulation. Their K is
	// replaced by the selected one when SelectK is set.
	Params *dagconfig.Params

	// SelectK selects K from the network delay, Lambda and Delta.
	SelectK bool

	// Lambda is the block rate of the whole network.
	Lambda float64

	// Delta is the probability of an honest block having an anticone
	// larger than K, used when selecting K.
	Delta float64

	// Rows and Cols define the grid the miners are placed on.
	// DistanceFactor is the distance between neighbouring grid points.
	Rows           int
	Cols           int
	DistanceFactor float64

	// Attack makes miner 1 an attacker that mines only on top of its own
	// blocks with Alpha of the total hash rate.
	Attack bool
	Alpha  float64

	// Duration is the simulated time the run lasts.
	Duration float64

	// Seed seeds all randomness of the run.
	Seed int64

	MaxOrphans     int
	ReportInterval float64
}

// DefaultConfig returns the configuration of an attack simulation over a
// 3x3 grid
func DefaultConfig() *Config {
	return &Config{
		Params:         dagconfig.DefaultParams(),
		SelectK:        true,
		Lambda:         defaultLambda,
		Delta:          defaultDelta,
		Rows:           defaultGridSize,
		Cols:           defaultGridSize,
		DistanceFactor: defaultDistanceFactor,
		Attack:         true,
		Alpha:          defaultAlpha,
		Duration:       defaultDuration,
		Seed:           defaultSeed,
		MaxOrphans:     orphanpool.DefaultMaxOrphans,
		ReportInterval: defaultReportInterval,
	}
}

// MaxDelay returns the upper bound on the latency between two nodes of
// the grid, not counting noise
func (cfg *Config) MaxDelay() float64 {
	rows := float64(cfg.Rows) * cfg.DistanceFactor
	cols := float64(cfg.Cols) * cfg.DistanceFactor
	return math.Sqrt(rows*rows+cols*cols) + minDelay
}

func (cfg *Config) minerCount() int {
	return cfg.Rows * cfg.Cols
}

// Validate checks that the configuration describes a runnable simulation
func (cfg *Config) Validate() error {
	if cfg.Params == nil {
		return errors.New("params are required")
	}
	if cfg.Rows <= 0 || cfg.Cols <= 0 {
		return errors.Errorf("grid dimensions must be positive, got %dx%d", cfg.Rows, cfg.Cols)
	}
	if cfg.DistanceFactor < 0 {
		return errors.Errorf("distance factor must be non-negative, got %f", cfg.DistanceFactor)
	}
	if !(cfg.Lambda > 0) {
		return errors.Errorf("lambda must be positive, got %f", cfg.Lambda)
	}
	if cfg.Attack {
		if cfg.minerCount() < 2 {
			return errors.New("an attack simulation requires at least two miners")
		}
		if cfg.Alpha < 0 || cfg.Alpha > 1 {
			return errors.Errorf("alpha must be in [0, 1], got %f", cfg.Alpha)
		}
	}
	if cfg.Duration < 0 {
		return errors.Errorf("duration must be non-negative, got %f", cfg.Duration)
	}
	if !(cfg.ReportInterval > 0) {
		return errors.Errorf("report interval must be positive, got %f", cfg.ReportInterval)
	}
	return cfg.Params.Validate()
}
