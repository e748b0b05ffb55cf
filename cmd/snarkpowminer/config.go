package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/btcsuite/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/coinbasepuzzle"
	"github.com/snarkpow/snarkpowd/infrastructure/config"
	"github.com/snarkpow/snarkpowd/version"
)

const (
	defaultLogFilename        = "snarkpowminer.log"
	defaultErrLogFilename     = "snarkpowminer_err.log"
	defaultParametersFilename = "posw.params"
	defaultDatabaseDirname    = "headers"
	defaultLogLevel           = "info"
	defaultMaxNonce           = 1024
	defaultCacheSizeMiB       = 16
)

var (
	// Default configuration options
	defaultDataDir = btcutil.AppDataDir("snarkpowminer", false)
	defaultWorkers = 4
)

type configFlags struct {
	ShowVersion      bool    `short:"V" long:"version" description:"Display version information and exit"`
	DataDir          string  `short:"b" long:"datadir" description:"Directory to store headers, parameters and logs"`
	NumberOfBlocks   uint64  `short:"n" long:"numblocks" description:"Number of blocks to mine. If omitted, will mine until the process is interrupted."`
	Workers          int     `short:"w" long:"workers" description:"Number of parallel mining attempts per block"`
	MaxNonce         uint32  `long:"maxnonce" description:"Nonces in [0, maxnonce) are searched before the timestamp is bumped"`
	DifficultyTarget *uint64 `long:"difficulty-target" description:"Difficulty target of mined headers, 0 being the hardest. Uses the network default if omitted."`
	MiningAddress    string  `long:"miningaddr" description:"Prover address recorded in the coinbase memo"`
	LogLevel         string  `short:"d" long:"loglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems"`
	Profile          string  `long:"profile" description:"Enable HTTP profiling and metrics on given port -- NOTE port must be between 1024 and 65536"`
	config.NetworkFlags

	miningAddress    coinbasepuzzle.Address
	difficultyTarget uint64
}

func (cfg *configFlags) networkDir() string {
	return filepath.Join(cfg.DataDir, cfg.NetParams().Name)
}

func (cfg *configFlags) databasePath() string {
	return filepath.Join(cfg.networkDir(), defaultDatabaseDirname)
}

func (cfg *configFlags) parametersPath() string {
	return filepath.Join(cfg.DataDir, defaultParametersFilename)
}

func parseConfig() (*configFlags, error) {
	cfg := &configFlags{
		DataDir:  defaultDataDir,
		Workers:  defaultWorkers,
		MaxNonce: defaultMaxNonce,
		LogLevel: defaultLogLevel,
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

	err = cfg.validate()
	if err != nil {
		return nil, err
	}

	logDir := filepath.Join(cfg.networkDir(), "logs")
	err = initLog(filepath.Join(logDir, defaultLogFilename), filepath.Join(logDir, defaultErrLogFilename), cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cfg *configFlags) validate() error {
	if cfg.Workers < 1 {
		return errors.Errorf("--workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.MaxNonce == 0 {
		return errors.New("--maxnonce must be positive")
	}
	if uint64(cfg.Workers) > uint64(cfg.MaxNonce) {
		return errors.Errorf("--workers (%d) cannot exceed --maxnonce (%d)", cfg.Workers, cfg.MaxNonce)
	}
	if cfg.DifficultyTarget != nil {
		cfg.difficultyTarget = *cfg.DifficultyTarget
	} else {
		cfg.difficultyTarget = cfg.NetParams().DefaultDifficultyTarget
	}

	if cfg.MiningAddress != "" {
		address, err := coinbasepuzzle.DecodeAddress(cfg.MiningAddress)
		if err != nil {
			return errors.Wrap(err, "invalid --miningaddr")
		}
		cfg.miningAddress = address
	}

	if cfg.Profile != "" {
		profilePort, err := strconv.Atoi(cfg.Profile)
		if err != nil || profilePort < 1024 || profilePort > 65535 {
			return errors.New("The profile port must be between 1024 and 65535")
		}
	}
	return nil
}
