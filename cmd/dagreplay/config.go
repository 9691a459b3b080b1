package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/kaspanet/ghostdagsim/app/replay"
	"github.com/kaspanet/ghostdagsim/infrastructure/config"
	"github.com/kaspanet/ghostdagsim/version"
	"github.com/pkg/errors"
)

const (
	defaultLogFilename    = "dagreplay.log"
	defaultErrLogFilename = "dagreplay_err.log"
	defaultLogLevel       = "info"
	defaultCacheSize      = 10000
)

var (
	defaultLogDir = filepath.Join(appDir(), "logs")
	defaultOrder  = replay.TipsDown.String()
)

type configFlags struct {
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	LogDir      string `long:"logdir" description:"Directory to log output"`
	LogLevel    string `short:"d" long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	DBPath      string `long:"dbpath" description:"Path of the database holding the DAG to replay" required:"true"`
	OrderString string `long:"order" description:"Traversal order {tips-down, pruning-point-up}"`
	CacheSize   int    `long:"cachesize" description:"Number of block relations cached in memory"`
	Validate    bool   `long:"validate" description:"Validate the reachability intervals of the replayed DAG"`
	Profile     string `long:"profile" description:"Enable HTTP profiling and metrics on given port -- NOTE port must be between 1024 and 65536"`
	config.NetworkFlags

	Order replay.Order
}

func appDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".dagreplay"
	}
	return filepath.Join(homeDir, ".dagreplay")
}

func parseConfig() (*configFlags, error) {
	cfg := &configFlags{
		LogDir:      defaultLogDir,
		LogLevel:    defaultLogLevel,
		OrderString: defaultOrder,
		CacheSize:   defaultCacheSize,
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

	cfg.Order, err = replay.OrderFromString(cfg.OrderString)
	if err != nil {
		return nil, err
	}

	if cfg.CacheSize <= 0 {
		return nil, errors.New("--cachesize must be positive")
	}

	if cfg.Profile != "" {
		profilePort, err := strconv.Atoi(cfg.Profile)
		if err != nil || profilePort < 1024 || profilePort > 65535 {
			return nil, errors.New("The profile port must be between 1024 and 65535")
		}
	}

	initLog(filepath.Join(cfg.LogDir, defaultLogFilename), filepath.Join(cfg.LogDir, defaultErrLogFilename),
		cfg.LogLevel)

	return cfg, nil
}
