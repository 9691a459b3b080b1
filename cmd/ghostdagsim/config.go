package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/ghostdagsim/app/orphanpool"
	"github.com/kaspanet/ghostdagsim/app/simulation"
	"github.com/kaspanet/ghostdagsim/infrastructure/config"
	"github.com/kaspanet/ghostdagsim/version"
	"github.com/pkg/errors"
)

const (
	defaultLogFilename    = "ghostdagsim.log"
	defaultErrLogFilename = "ghostdagsim_err.log"
	defaultLogLevel       = "info"
)

var defaultLogDir = filepath.Join(appDir(), "logs")

type configFlags struct {
	ShowVersion    bool    `short:"V" long:"version" description:"Display version information and exit"`
	LogDir         string  `long:"logdir" description:"Directory to log output"`
	LogLevel       string  `short:"d" long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	FixedK         bool    `long:"fixed-k" description:"Use the K of the selected network instead of selecting it from the network delay"`
	Lambda         float64 `long:"lambda" description:"Block rate of the whole network"`
	Delta          float64 `long:"delta" description:"Probability of an honest block having an anticone larger than K, used when selecting K"`
	Rows           int     `long:"rows" description:"Number of rows in the miners grid"`
	Cols           int     `long:"cols" description:"Number of columns in the miners grid"`
	DistanceFactor float64 `long:"distance-factor" description:"Distance between neighbouring miners on the grid"`
	NoAttack       bool    `long:"no-attack" description:"Run with honest miners only"`
	Alpha          float64 `long:"alpha" description:"Hash rate share of the attacker"`
	Duration       float64 `long:"duration" description:"Simulated time the run lasts"`
	Seed           int64   `long:"seed" description:"Seed of all randomness in the run"`
	MaxOrphans     int     `long:"maxorphans" description:"Maximum number of orphan blocks every miner keeps"`
	ReportInterval float64 `long:"report-interval" description:"Simulated time between progress reports"`
	JSONFile       string  `long:"json" description:"Export the observed DAG as JSON into the given file"`
	Validate       bool    `long:"validate" description:"Validate the reachability intervals of the observed DAG after the run"`
	DBPath         string  `long:"dbpath" description:"Persist the relations of the observed DAG into a database at the given path"`
	Profile        string  `long:"profile" description:"Enable HTTP profiling and metrics on given port -- NOTE port must be between 1024 and 65536"`
	config.NetworkFlags
}

func appDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".ghostdagsim"
	}
	return filepath.Join(homeDir, ".ghostdagsim")
}

func parseConfig() (*configFlags, error) {
	defaultSimulationConfig := simulation.DefaultConfig()
	cfg := &configFlags{
		LogDir:         defaultLogDir,
		LogLevel:       defaultLogLevel,
		Lambda:         defaultSimulationConfig.Lambda,
		Delta:          defaultSimulationConfig.Delta,
		Rows:           defaultSimulationConfig.Rows,
		Cols:           defaultSimulationConfig.Cols,
		DistanceFactor: defaultSimulationConfig.DistanceFactor,
		Alpha:          defaultSimulationConfig.Alpha,
		Duration:       defaultSimulationConfig.Duration,
		Seed:           defaultSimulationConfig.Seed,
		MaxOrphans:     orphanpool.DefaultMaxOrphans,
		ReportInterval: defaultSimulationConfig.ReportInterval,
	}
	parser := flags.NewParser(cfg, flags.PrintErrors|flags.HelpFlag)
	_, err := parser.Parse()

	// Show the version and exit if the version flag was specified.
	if cfg.ShowVersion {
		appName := filepath.Base(os.Args[0])
		appName = strings.TrimSuffix(appName, filepath.Ext(appName))
		fmt.Println(appName, "version", version.Version())
		os.Exit(0)
	}

	if err != nil {
		return nil, err
	}

	err = cfg.ResolveNetwork(parser)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOrphans <= 0 {
		return nil, errors.New("--maxorphans must be positive")
	}

	if cfg.Profile != "" {
		profilePort, err := strconv.Atoi(cfg.Profile)
		if err != nil || profilePort < 1024 || profilePort > 65535 {
			return nil, errors.New("The profile port must be between 1024 and 65535")
		}
	}

	err = cfg.simulationConfig().Validate()
	if err != nil {
		return nil, err
	}

	initLog(filepath.Join(cfg.LogDir, defaultLogFilename), filepath.Join(cfg.LogDir, defaultErrLogFilename),
		cfg.LogLevel)

	return cfg, nil
}

func (cfg *configFlags) simulationConfig() *simulation.Config {
	return &simulation.Config{
		Params:         cfg.NetParams(),
		SelectK:        !cfg.FixedK,
		Lambda:         cfg.Lambda,
		Delta:          cfg.Delta,
		Rows:           cfg.Rows,
		Cols:           cfg.Cols,
		DistanceFactor: cfg.DistanceFactor,
		Attack:         !cfg.NoAttack,
		Alpha:          cfg.Alpha,
		Duration:       cfg.Duration,
		Seed:           cfg.Seed,
		MaxOrphans:     cfg.MaxOrphans,
		ReportInterval: cfg.ReportInterval,
	}
}
