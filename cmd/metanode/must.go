// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/metanode/stake/co"
	"github.com/metanode/stake/genesis"
	"github.com/metanode/stake/ledger"
	"github.com/metanode/stake/log"
	"github.com/metanode/stake/logdb"
	"github.com/metanode/stake/lvldb"
	"github.com/metanode/stake/meta"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := log.FromLegacyLevel(int(ctx.Uint(verbosityFlag.Name)))
	output := os.Stdout
	useColor := (isatty.IsTerminal(output.Fd()) || isatty.IsCygwinTerminal(output.Fd())) && os.Getenv("TERM") != "dumb"

	var level slog.LevelVar
	level.Set(logLevel)
	log.Init(log.NewHandler(output, &level, ctx.Bool(jsonLogsFlag.Name), useColor))
	return &level
}

func loadGenesis(ctx *cli.Context) (*genesis.Config, error) {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		return nil, errors.Errorf("genesis config required, use -%s to specify", genesisFlag.Name)
	}
	cfg, err := genesis.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "load genesis [%v]", path)
	}
	return cfg, nil
}

// makeInstanceDir returns the directory of the ledger defined by cfg, so two configs
// never share a database.
func makeInstanceDir(ctx *cli.Context, cfg *genesis.Config) (string, error) {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return "", errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	data, err := cfg.Encode()
	if err != nil {
		return "", err
	}
	id := meta.Blake2b(data)
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", id[24:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		return "", errors.Wrapf(err, "create instance dir [%v]", instanceDir)
	}
	return instanceDir, nil
}

func openMainDB(ctx *cli.Context, dir string) (*lvldb.LevelDB, error) {
	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	// Ensure Go's GC ignores the database cache for trigger percentage
	gogc := math.Max(20, math.Min(100, 100/(float64(cacheMB)/1024)))
	logger.Debug("sanitize Go's GC trigger", "percent", int(gogc))
	debug.SetGCPercent(int(gogc))

	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: fdCache,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open ledger database [%v]", path)
	}
	return db, nil
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		logger.Warn("failed to get fd limit", "err", err)
		return 500
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}

	n := limit / 2
	if n > 5120 {
		return 5120
	}
	return n
}

func openLogDB(ctx *cli.Context, dir string) (*logdb.LogDB, error) {
	if ctx.Bool(skipLogsFlag.Name) {
		return nil, nil
	}
	path := filepath.Join(dir, "events.db")
	db, err := logdb.New(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open event database [%v]", path)
	}
	return db, nil
}

func openMemMainDB() (*lvldb.LevelDB, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, errors.Wrap(err, "open ledger database")
	}
	return db, nil
}

func openMemLogDB(ctx *cli.Context) (*logdb.LogDB, error) {
	if ctx.Bool(skipLogsFlag.Name) {
		return nil, nil
	}
	db, err := logdb.NewMem()
	if err != nil {
		return nil, errors.Wrap(err, "open event database")
	}
	return db, nil
}

func startAPIServer(ctx *cli.Context, handler http.Handler) (string, func(), error) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	if timeout := ctx.Uint64(apiTimeoutFlag.Name); timeout > 0 {
		handler = handleAPITimeout(handler, time.Duration(timeout)*time.Millisecond)
	}
	handler = requestBodyLimit(handler)
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		goes.Wait()
	}, nil
}

func printStartupMessage(name string, head ledger.Head, cfg *genesis.Config, dataDir, apiURL, adminURL string) {
	fmt.Printf(`Starting %v
    Head         [ #%v txs %v %v ]
    Admin        [ %v ]
    Reward asset [ %v ]
    Pools        [ %v ]
    Data dir     [ %v ]
    API portal   [ %v ]
`,
		name+" "+fullVersion(),
		head.Block, head.Txs, head.Digest,
		cfg.Admin,
		cfg.Emission.RewardAsset,
		len(cfg.Pools),
		dataDir,
		apiURL)
	if adminURL != "" {
		fmt.Printf("    Admin API    [ %v ]\n", adminURL)
	}
}

func printSoloAccounts() {
	tableHead := `
┌────────────────────────────────────────────┬────────────────────────────────────────────────────────────────────┐
│                   Address                  │                             Private Key                            │`
	tableContent := `
├────────────────────────────────────────────┼────────────────────────────────────────────────────────────────────┤
│ %v │ %v │`
	tableEnd := `
└────────────────────────────────────────────┴────────────────────────────────────────────────────────────────────┘`

	var b strings.Builder
	b.WriteString(tableHead)
	for _, a := range genesis.DevAccounts() {
		fmt.Fprintf(&b, tableContent, a.Address, meta.BytesToBytes32(crypto.FromECDSA(a.PrivateKey)))
	}
	b.WriteString(tableEnd + "\r\n")
	fmt.Print(b.String())
}
