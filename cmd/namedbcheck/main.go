package main

import (
	"context"
	"flag"
	"os"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/namechain/namechaind/settings"
	"github.com/namechain/namechaind/stores/state/statedb"
	"github.com/namechain/namechaind/ulogger"
)

// namedbcheck opens the state database read-only from the configured path
// and runs the full name-database consistency scan at a given height.
// Exit code 1 means the check found a real mismatch.
func main() {
	height := flag.Uint("height", 0, "chain height to validate at (default: stored best block is assumed current, pass the tip height)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logLevel := "INFO"
	if *debug {
		logLevel = "DEBUG"
	}

	logger := ulogger.New("namedbcheck", ulogger.WithLevel(logLevel))

	tSettings := settings.NewSettings()

	ctx := context.Background()

	db, err := statedb.New(ctx, logger, tSettings)
	if err != nil {
		logger.Fatalf("failed to open state database: %v", err)
	}

	defer func() {
		_ = db.Close()
	}()

	best, err := db.BestBlock(ctx)
	if err != nil {
		logger.Fatalf("failed to read best block: %v", err)
	}

	if best.IsEqual(&chainhash.Hash{}) {
		logger.Warnf("state database has no best block, nothing to validate")
		return
	}

	logger.Infof("validating name database at height %d (best block %s)", *height, best)

	ok, err := db.ValidateNameDB(ctx, uint32(*height))
	if err != nil {
		logger.Fatalf("validation aborted: %v", err)
	}

	if !ok {
		logger.Errorf("name database is inconsistent at height %d", *height)
		os.Exit(1)
	}

	logger.Infof("name database is consistent at height %d", *height)
}
