// Copyright (c) 2026 The Mare Finance developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/mare-finance/staked-distributor/api"
	"github.com/mare-finance/staked-distributor/authority"
	"github.com/mare-finance/staked-distributor/distributor"
	"github.com/mare-finance/staked-distributor/genesis"
	"github.com/mare-finance/staked-distributor/log"
	"github.com/mare-finance/staked-distributor/mare"
	"github.com/mare-finance/staked-distributor/state"
	"github.com/mare-finance/staked-distributor/vault"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")

	// holds ledger custody balances in the vault
	custodyAddress = mare.BytesToAddress([]byte("staked-distributor-custody"))
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
		Name:      "StakedDistributor",
		Usage:     "Staking ledger with multi-asset reward distribution",
		Copyright: "2026 Mare Finance",
		Flags: []cli.Flag{
			genesisFlag,
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableAPILogsFlag,
			pprofFlag,
			enableMetricsFlag,
			metricsAddrFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)

	gene := loadGenesis(ctx)

	db := openLedgerDB(ctx)
	defer func() { logger.Info("closing ledger database..."); db.Close() }()

	st := state.New(db)
	if err := gene.Apply(st, custodyAddress); err != nil {
		fatal(fmt.Sprintf("apply genesis: %v", err))
	}

	dist := distributor.New(
		st,
		gene.StakedAsset,
		vault.New(st, custodyAddress),
		authority.New(gene.Admins),
		func() uint64 { return uint64(time.Now().Unix()) },
	)

	metricsSrv := startMetricsServer(ctx)
	defer func() { logger.Info("stopping metrics server..."); shutdownServer(metricsSrv) }()

	apiHandler := api.New(dist, api.Options{
		AllowedOrigins:  ctx.String(apiCorsFlag.Name),
		PprofOn:         ctx.Bool(pprofFlag.Name),
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
	})
	apiSrv, apiURL := startAPIServer(ctx, apiHandler)
	defer func() { logger.Info("stopping API server..."); shutdownServer(apiSrv) }()

	printStartupMessage(gene, ctx.String(dataDirFlag.Name), apiURL)

	<-handleExitSignal().Done()
	return nil
}

func printStartupMessage(gene *genesis.CustomGenesis, dataDir, apiURL string) {
	fmt.Printf(`Starting %v
    Version      %v
    Staked asset %v
    Data dir     %v
    API portal   %v
`,
		"StakedDistributor",
		fullVersion(),
		gene.StakedAsset,
		dataDir,
		apiURL)
}
