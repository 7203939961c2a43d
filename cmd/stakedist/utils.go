// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/mare-finance/staked-distributor/genesis"
	"github.com/mare-finance/staked-distributor/kv"
	"github.com/mare-finance/staked-distributor/log"
	"github.com/mare-finance/staked-distributor/metrics"
)

func fatal(args ...interface{}) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "StakedDistributor")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "StakedDistributor")
		default:
			return filepath.Join(home, ".staked-distributor")
		}
	}
	return ""
}

// verbosityToLevel maps the geth-style 0-9 verbosity scale onto slog levels.
func verbosityToLevel(verbosity int) slog.Level {
	switch {
	case verbosity <= 1:
		return slog.LevelError
	case verbosity == 2:
		return slog.LevelWarn
	case verbosity == 3:
		return slog.LevelInfo
	case verbosity == 4:
		return slog.LevelDebug
	default:
		return log.LevelTrace
	}
}

func initLogger(ctx *cli.Context) {
	level := verbosityToLevel(ctx.Int(verbosityFlag.Name))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.NewJSONHandler(os.Stdout, level)
	} else {
		useColor := isatty.IsTerminal(os.Stdout.Fd()) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stdout, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
}

func openLedgerDB(ctx *cli.Context) kv.GetPutCloser {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal("data-dir is not set")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		fatal(fmt.Sprintf("create data-dir [%v]: %v", dataDir, err))
	}

	path := filepath.Join(dataDir, "ledger.db")
	db, err := kv.New(path, 128, 512)
	if err != nil {
		fatal(fmt.Sprintf("open ledger database [%v]: %v", path, err))
	}
	return db
}

func loadGenesis(ctx *cli.Context) *genesis.CustomGenesis {
	path := ctx.String(genesisFlag.Name)
	if path == "" {
		fatal("genesis file is not set")
	}
	file, err := os.Open(path)
	if err != nil {
		fatal(fmt.Sprintf("open genesis file [%v]: %v", path, err))
	}
	defer file.Close()

	gen, err := genesis.Load(file)
	if err != nil {
		fatal(fmt.Sprintf("parse genesis file [%v]: %v", path, err))
	}
	return gen
}

func startAPIServer(ctx *cli.Context, handler http.HandlerFunc) (*http.Server, string) {
	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second * 10}
	go func() {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			logger.Error("API server stopped", "error", err)
		}
	}()
	return srv, "http://" + listener.Addr().String() + "/"
}

func startMetricsServer(ctx *cli.Context) *http.Server {
	if !ctx.Bool(enableMetricsFlag.Name) {
		return nil
	}
	metrics.InitializePrometheusMetrics()

	addr := ctx.String(metricsAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen metrics addr [%v]: %v", addr, err))
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: time.Second * 10}
	go func() {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			logger.Error("metrics server stopped", "error", err)
		}
	}()
	logger.Info("metrics server started", "addr", "http://"+listener.Addr().String()+"/metrics")
	return srv
}

func shutdownServer(srv *http.Server) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("server shutdown", "error", errors.WithMessage(err, "shutdown"))
	}
}

func handleExitSignal() context.Context {
	exitSignalCh := make(chan os.Signal, 1)
	signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
