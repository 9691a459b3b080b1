package simulation

import (
	"math/rand"
	"strconv"

	"github.com/kaspanet/ghostdagsim/domain/consensus"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model"
	"github.com/kaspanet/ghostdagsim/domain/consensus/model/externalapi"
	"github.com/kaspanet/ghostdagsim/domain/dagconfig"
	"github.com/kaspanet/ghostdagsim/infrastructure/logger"
	"github.com/kaspanet/ghostdagsim/infrastructure/metrics"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// observedMiner is the miner whose DAG is the result of the simulation
const observedMiner = 0

// attackerMiner is the miner that attacks in attack simulations
const attackerMiner = 1

// Simulation is a discrete event simulation of miners on a planar grid
// building a DAG together. Only the observed miner and the attacker keep
// a GHOSTDAG instance. All other miners track tips only.
type Simulation struct {
	cfg    *Config
	params *dagconfig.Params

	random     *rand.Rand
	scheduler  *scheduler
	topology   *PlanarTopology
	hub        *Hub
	hashSource *HashSource

	miners      []*miner
	observedDAG *consensus.DAG
	metrics     *metrics.ReachabilityMetrics
	minedBlocks int
}

// Result is the outcome of a simulation run
type Result struct {
	// DAG is the DAG of the observed miner
	DAG *consensus.DAG

	// Metrics observed the reachability tree of DAG
	Metrics *metrics.ReachabilityMetrics

	K           model.KType
	MaxDelay    float64
	MinedBlocks int
}

// New sets up a simulation. The reachability metrics of the GHOSTDAG
// instances are registered with registerer.
func New(cfg *Config, registerer prometheus.Registerer) (*Simulation, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	random := rand.New(rand.NewSource(cfg.Seed))
	s := &Simulation{
		cfg:        cfg,
		params:     cfg.Params.Clone(),
		random:     random,
		scheduler:  newScheduler(),
		topology:   NewPlanarTopology(minDelay, random),
		hashSource: NewHashSource(cfg.Seed),
	}
	s.hub = newHub(s.scheduler, s.topology.Latency)

	if cfg.SelectK {
		s.params.K, err = dagconfig.SelectK(2*cfg.MaxDelay()*cfg.Lambda, cfg.Delta)
		if err != nil {
			return nil, err
		}
	}
	if s.params.GenesisHash == nil {
		s.params.GenesisHash = s.hashSource.Next()
	}

	err = s.setupMiners(registerer)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Simulation) setupMiners(registerer prometheus.Registerer) error {
	minerCount := s.cfg.minerCount()
	for row := 0; row < s.cfg.Rows; row++ {
		for col := 0; col < s.cfg.Cols; col++ {
			index := row*s.cfg.Cols + col
			err := s.topology.Place(index, float64(row)*s.cfg.DistanceFactor, float64(col)*s.cfg.DistanceFactor)
			if err != nil {
				return err
			}

			hashRate := 1 / float64(minerCount)
			if s.cfg.Attack {
				hashRate = (1 - s.cfg.Alpha) / float64(minerCount-1)
			}
			isAttacker := s.cfg.Attack && index == attackerMiner
			if isAttacker {
				hashRate = s.cfg.Alpha
			}

			var dag externalapi.DAG
			if index == observedMiner || isAttacker {
				reachabilityMetrics, err := metrics.NewReachabilityMetrics(registerer,
					prometheus.Labels{"miner": strconv.Itoa(index)})
				if err != nil {
					return err
				}
				ghostdag, err := consensus.New(s.params, reachabilityMetrics)
				if err != nil {
					return err
				}
				if index == observedMiner {
					s.observedDAG = ghostdag
					s.metrics = reachabilityMetrics
				}
				dag = ghostdag
			} else {
				dag = consensus.NewTipsOnlyDAG(s.params.GenesisHash)
			}

			miner := newMiner(s, index, hashRate, dag, s.params.GenesisHash, isAttacker)
			err = s.hub.Register(index, miner.receive)
			if err != nil {
				return err
			}
			s.miners = append(s.miners, miner)

			x, y, err := s.topology.Coordinates(index)
			if err != nil {
				return err
			}
			log.Infof("Miner %d coordinates: (%.1f, %.1f), hash rate %.3f, attacker: %t", index, x, y,
				hashRate, isAttacker)
		}
	}
	return nil
}

// Run runs the simulation for its configured duration
func (s *Simulation) Run() (*Result, error) {
	onEnd := logger.LogAndMeasureExecutionTime(log, "Simulation.Run")
	defer onEnd()

	log.Infof("Running a simulation with k=%d, 2Dλ=%.2f and %d miners for %.0f time units",
		s.params.K, 2*s.cfg.MaxDelay()*s.cfg.Lambda, len(s.miners), s.cfg.Duration)

	for _, miner := range s.miners {
		miner.scheduleNextBlock()
	}
	s.scheduleReport()

	err := s.scheduler.run(s.cfg.Duration)
	if err != nil {
		return nil, errors.Wrapf(err, "simulation failed at time %.2f", s.scheduler.now)
	}

	return &Result{
		DAG:         s.observedDAG,
		Metrics:     s.metrics,
		K:           s.params.K,
		MaxDelay:    s.cfg.MaxDelay(),
		MinedBlocks: s.minedBlocks,
	}, nil
}

func (s *Simulation) scheduleReport() {
	s.scheduler.schedule(s.cfg.ReportInterval, func() error {
		log.Infof("Time %.0f: %d blocks in the observed DAG", s.scheduler.now, s.observedDAG.BlockCount())
		s.scheduleReport()
		return nil
	})
}
