// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/metanode/stake/api"
	"github.com/metanode/stake/clock"
	"github.com/metanode/stake/genesis"
	"github.com/metanode/stake/kv"
	"github.com/metanode/stake/ledger"
	"github.com/metanode/stake/log"
	"github.com/metanode/stake/logdb"
	"github.com/metanode/stake/metrics"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "MetaNode",
		Usage:     "Multi-pool staking ledger",
		Copyright: "2025 The VeChainThor developers",
		Flags: []cli.Flag{
			genesisFlag,
			dataDirFlag,
			cacheFlag,
			recordCacheFlag,
			blockIntervalFlag,
			skipLogsFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiLogsLimitFlag,
			apiSlowQueriesThresholdFlag,
			apiEnableReqLoggerFlag,
			pprofFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "ledger on the devnet genesis with unsigned operations, for test & dev",
				Flags: []cli.Flag{
					genesisFlag,
					dataDirFlag,
					cacheFlag,
					recordCacheFlag,
					blockIntervalFlag,
					skipLogsFlag,
					persistFlag,
					onDemandFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiTimeoutFlag,
					apiLogsLimitFlag,
					apiSlowQueriesThresholdFlag,
					apiEnableReqLoggerFlag,
					pprofFlag,
					verbosityFlag,
					jsonLogsFlag,
					enableMetricsFlag,
					enableAdminFlag,
					adminAddrFlag,
				},
				Action: soloAction,
			},
			{
				Name:   "dump-genesis",
				Usage:  "print the devnet genesis config, a template for -genesis",
				Action: dumpGenesisAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	cfg, err := loadGenesis(ctx)
	if err != nil {
		return err
	}
	instanceDir, err := makeInstanceDir(ctx, cfg)
	if err != nil {
		return err
	}

	mainDB, err := openMainDB(ctx, instanceDir)
	if err != nil {
		return err
	}
	defer func() { logger.Info("closing ledger database..."); mainDB.Close() }()

	logDB, err := openLogDB(ctx, instanceDir)
	if err != nil {
		return err
	}
	if logDB != nil {
		defer func() { logger.Info("closing event database..."); logDB.Close() }()
	}

	return run(exitSignal, ctx, &runOptions{
		name:     "MetaNode",
		cfg:      cfg,
		store:    mainDB,
		logDB:    logDB,
		logLevel: logLevel,
		dataDir:  instanceDir,
	})
}

func soloAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	cfg := genesis.NewDevnet()
	if ctx.IsSet(genesisFlag.Name) {
		var err error
		if cfg, err = loadGenesis(ctx); err != nil {
			return err
		}
	}

	var (
		store       kv.Store
		logDB       *logdb.LogDB
		instanceDir = "Memory"
		err         error
	)
	if ctx.Bool(persistFlag.Name) {
		if instanceDir, err = makeInstanceDir(ctx, cfg); err != nil {
			return err
		}
		mainDB, err := openMainDB(ctx, instanceDir)
		if err != nil {
			return err
		}
		defer func() { logger.Info("closing ledger database..."); mainDB.Close() }()
		store = mainDB
		if logDB, err = openLogDB(ctx, instanceDir); err != nil {
			return err
		}
	} else {
		mainDB, err := openMemMainDB()
		if err != nil {
			return err
		}
		defer mainDB.Close()
		store = mainDB
		if logDB, err = openMemLogDB(ctx); err != nil {
			return err
		}
	}
	if logDB != nil {
		defer func() { logger.Info("closing event database..."); logDB.Close() }()
	}

	printSoloAccounts()
	return run(exitSignal, ctx, &runOptions{
		name:     "MetaNode solo",
		cfg:      cfg,
		store:    store,
		logDB:    logDB,
		logLevel: logLevel,
		dataDir:  instanceDir,
		solo:     true,
		onDemand: ctx.Bool(onDemandFlag.Name),
	})
}

func dumpGenesisAction(*cli.Context) error {
	data, err := genesis.NewDevnet().Encode()
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

type runOptions struct {
	name     string
	cfg      *genesis.Config
	store    kv.Store
	logDB    *logdb.LogDB
	logLevel *slog.LevelVar
	dataDir  string
	solo     bool
	onDemand bool
}

// run opens the ledger, applies the genesis on an empty store and serves the API until exit.
func run(exitSignal context.Context, ctx *cli.Context, opts *runOptions) error {
	ticker := clock.NewTicker(0, ctx.Duration(blockIntervalFlag.Name))
	l, err := ledger.New(opts.store, ticker, opts.logDB, ctx.Int(recordCacheFlag.Name))
	if err != nil {
		return errors.Wrap(err, "open ledger")
	}
	// the clock resumes from the last committed block
	ticker.Set(l.Head().Block)

	if _, err := opts.cfg.Apply(exitSignal, l); err != nil {
		return err
	}

	var adminURL string
	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := api.StartAdminServer(ctx.String(adminAddrFlag.Name), opts.logLevel)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
		adminURL = url
	}

	reqLogger := &atomic.Bool{}
	reqLogger.Store(ctx.Bool(apiEnableReqLoggerFlag.Name))
	handler, closeSubs := api.New(l, ticker, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		PprofOn:              ctx.Bool(pprofFlag.Name),
		EnableReqLogger:      reqLogger,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		SoloMode:             opts.solo,
	})
	defer closeSubs()

	apiURL, stopAPI, err := startAPIServer(ctx, handler)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	printStartupMessage(opts.name, l.Head(), opts.cfg, opts.dataDir, apiURL, adminURL)

	group, groupCtx := errgroup.WithContext(exitSignal)
	if opts.onDemand {
		group.Go(func() error {
			return advanceOnCommit(groupCtx, l, ticker)
		})
	} else {
		group.Go(func() error {
			return ticker.Run(groupCtx)
		})
	}
	return group.Wait()
}

// advanceOnCommit moves the clock one block after every commit, so each transaction lands
// in its own block.
func advanceOnCommit(ctx context.Context, l *ledger.Ledger, clk *clock.Ticker) error {
	for {
		committed := l.Committed()
		select {
		case <-ctx.Done():
			return nil
		case <-committed:
			block := clk.Advance(1)
			logger.Debug("new block", "number", block)
		}
	}
}
