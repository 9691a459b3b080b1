package main

import (
	"fmt"
	"os"

	"github.com/kaspanet/ghostdagsim/app/replay"
	"github.com/kaspanet/ghostdagsim/infrastructure/db/relationstore"
	"github.com/kaspanet/ghostdagsim/infrastructure/metrics"
	"github.com/kaspanet/ghostdagsim/infrastructure/os/signal"
	"github.com/kaspanet/ghostdagsim/util/panics"
	"github.com/kaspanet/ghostdagsim/util/profiling"
	"github.com/kaspanet/ghostdagsim/version"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	defer panics.HandlePanic(log, nil)
	interrupt := signal.InterruptListener()

	cfg, err := parseConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing command-line arguments: %s\n", err)
		os.Exit(1)
	}

	// Show version at startup.
	log.Infof("Version %s", version.Version())

	registry := prometheus.NewRegistry()

	// Enable http profiling server if requested.
	if cfg.Profile != "" {
		profiling.Start(cfg.Profile, registry, log)
	}

	doneChan := make(chan struct{})
	spawn(func() {
		err := run(cfg, registry)
		if err != nil {
			panic(errors.Wrap(err, "Error replaying the DAG"))
		}
		doneChan <- struct{}{}
	})

	select {
	case <-doneChan:
	case <-interrupt:
	}
}

func run(cfg *configFlags, registry *prometheus.Registry) (err error) {
	store, err := relationstore.Open(cfg.DBPath, cfg.CacheSize)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := store.Close()
		if err == nil {
			err = closeErr
		}
	}()

	storedCount, err := store.BlockCount()
	if err != nil {
		return err
	}
	log.Infof("Replaying a DAG of %d stored blocks in %s order", storedCount, cfg.Order)

	reachabilityMetrics, err := metrics.NewReachabilityMetrics(registry, nil)
	if err != nil {
		return err
	}
	result, err := replay.Replay(store, cfg.Order, cfg.NetParams(), reachabilityMetrics)
	if err != nil {
		return err
	}

	if cfg.Validate {
		err := result.DAG.ValidateIntervals()
		if err != nil {
			return errors.Wrap(err, "reachability intervals are invalid")
		}
		log.Infof("The reachability intervals of %d blocks are valid", result.DAG.BlockCount())
	}

	stats, err := result.DAG.Stats()
	if err != nil {
		return err
	}
	reindexMean, reindexStd := reachabilityMetrics.ReindexSizeStats()
	fmt.Printf("root: %s, replayed blocks: %d, missing: %d, rejected: %d\n", result.Root,
		result.DAG.BlockCount(), result.Missing, result.Rejected)
	fmt.Println(stats)
	fmt.Printf("reindexes: %d, avg reindex size: %.2f, std reindex size: %.2f\n",
		len(reachabilityMetrics.ReindexTrace()), reindexMean, reindexStd)
	return nil
}
