package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kaspanet/ghostdagsim/app/replay"
	"github.com/kaspanet/ghostdagsim/app/simulation"
	"github.com/kaspanet/ghostdagsim/domain/consensus"
	"github.com/kaspanet/ghostdagsim/infrastructure/db/relationstore"
	"github.com/kaspanet/ghostdagsim/infrastructure/os/signal"
	"github.com/kaspanet/ghostdagsim/util/panics"
	"github.com/kaspanet/ghostdagsim/util/profiling"
	"github.com/kaspanet/ghostdagsim/version"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const relationStoreCacheSize = 10000

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
			panic(errors.Wrap(err, "Error running the simulation"))
		}
		doneChan <- struct{}{}
	})

	select {
	case <-doneChan:
	case <-interrupt:
	}
}

func run(cfg *configFlags, registry *prometheus.Registry) error {
	simulationConfig := cfg.simulationConfig()
	sim, err := simulation.New(simulationConfig, registry)
	if err != nil {
		return err
	}
	result, err := sim.Run()
	if err != nil {
		return err
	}

	report, err := simulation.NewReport(simulationConfig, result)
	if err != nil {
		return err
	}
	fmt.Println(report)

	if cfg.Validate {
		err := result.DAG.ValidateIntervals()
		if err != nil {
			return errors.Wrap(err, "reachability intervals are invalid")
		}
		log.Infof("The reachability intervals of %d blocks are valid", result.DAG.BlockCount())
	}

	if cfg.JSONFile != "" {
		err := exportJSON(result.DAG, cfg.JSONFile)
		if err != nil {
			return err
		}
	}

	if cfg.DBPath != "" {
		err := persist(result.DAG, cfg.DBPath)
		if err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(dag *consensus.DAG, path string) error {
	exported, err := dag.Export()
	if err != nil {
		return err
	}
	serialized, err := json.MarshalIndent(exported, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	err = os.WriteFile(path, serialized, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	log.Infof("Exported %d blocks to %s", len(exported), path)
	return nil
}

func persist(dag *consensus.DAG, path string) (err error) {
	store, err := relationstore.Open(path, relationStoreCacheSize)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := store.Close()
		if err == nil {
			err = closeErr
		}
	}()
	return replay.Persist(store, dag)
}
