package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/snarkpow/snarkpowd/domain/consensus/datastructures/blockheaderstore"
	"github.com/snarkpow/snarkpowd/domain/consensus/utils/posw"
	"github.com/snarkpow/snarkpowd/infrastructure/db/database/ldb"
	"github.com/snarkpow/snarkpowd/infrastructure/os/signal"
	"github.com/snarkpow/snarkpowd/util/panics"
	"github.com/snarkpow/snarkpowd/util/profiling"
	"github.com/snarkpow/snarkpowd/version"
)

const headerCacheSize = 128

func main() {
	defer panics.HandlePanic(log, "MAIN", nil)

	cfg, err := parseConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing command-line arguments: %s\n", err)
		os.Exit(1)
	}
	defer log.Backend().Close()

	// Show version at startup.
	log.Infof("Version %s", version.Version())

	// Enable http profiling server if requested.
	if cfg.Profile != "" {
		profiling.Start(cfg.Profile, log)
	}

	ctx, stop := signal.InterruptContext(context.Background())
	defer stop()

	err = run(ctx, cfg)
	if err != nil && !errors.Is(err, context.Canceled) {
		panics.Exit(log, fmt.Sprintf("Error in mine loop: %+v", err))
	}
}

func run(ctx context.Context, cfg *configFlags) error {
	params := cfg.NetParams()
	log.Infof("Mining on %s: %d byte proofs, %d byte headers, difficulty target %d",
		params.Name, params.ProofSize, params.HeaderSize(), cfg.difficultyTarget)

	// Proofs stored on disk only verify against the keys they were made
	// with, so the parameters are persisted next to the headers.
	_, err := posw.LoadParametersFromFile(cfg.parametersPath())
	if err != nil {
		return err
	}

	db, err := ldb.NewLevelDB(cfg.databasePath(), defaultCacheSizeMiB)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := db.Close()
		if closeErr != nil {
			log.Errorf("Error closing the database: %s", closeErr)
		}
	}()

	store, err := blockheaderstore.New(db, params, headerCacheSize)
	if err != nil {
		return err
	}
	return mineLoop(ctx, cfg, store)
}
