// Copyright (c) 2024 The LordChain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/blocklords/lordchain-smartcontracts/api"
	"github.com/blocklords/lordchain-smartcontracts/clock"
	"github.com/blocklords/lordchain-smartcontracts/env"
	"github.com/blocklords/lordchain-smartcontracts/factory"
	"github.com/blocklords/lordchain-smartcontracts/governance"
	"github.com/blocklords/lordchain-smartcontracts/log"
	"github.com/blocklords/lordchain-smartcontracts/lordchain"
	"github.com/blocklords/lordchain-smartcontracts/metrics"
	"github.com/blocklords/lordchain-smartcontracts/state"
	"github.com/blocklords/lordchain-smartcontracts/token"
)

var version = "dev"

var logger = log.WithContext("pkg", "main")

func main() {
	app := cli.App{
		Version: version,
		Name:    "lordchain",
		Usage:   "LordChain staking core, solo harness",
		Flags: []cli.Flag{
			configFlag,
			apiAddrFlag,
			metricsAddrFlag,
			verbosityFlag,
			jsonLogsFlag,
		},
		Action: soloAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func soloAction(ctx *cli.Context) error {
	initLogger(ctx.Int(verbosityFlag.Name), ctx.Bool(jsonLogsFlag.Name))
	metrics.InitializePrometheusMetrics()

	cfg := lordchain.DefaultConfig()
	if path := ctx.String(configFlag.Name); path != "" {
		loaded, err := lordchain.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	deployment, err := deploySolo(cfg)
	if err != nil {
		return err
	}
	logger.Info("solo deployment ready",
		"master", deployment.factory.Master().Address(),
		"factory", deployment.factory.Address(),
		"governance", deployment.governance.Address(),
	)

	apiSrv := &http.Server{
		Addr:              ctx.String(apiAddrFlag.Name),
		Handler:           api.New(deployment.factory, deployment.governance),
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsSrv := &http.Server{
		Addr:              ctx.String(metricsAddrFlag.Name),
		Handler:           metrics.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("API service started", "addr", apiSrv.Addr)
		if err := apiSrv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API service stopped", "error", err)
		}
	}()
	go func() {
		logger.Info("metrics service started", "addr", metricsSrv.Addr)
		if err := metricsSrv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics service stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	_ = apiSrv.Close()
	_ = metricsSrv.Close()
	return nil
}

type soloDeployment struct {
	environment *env.Environment
	ledger      *token.StateLedger
	factory     *factory.Factory
	governance  *governance.Governance
}

// deploySolo builds a complete in-memory deployment: token ledger, factory,
// master validator and governance, with a funded reward bank.
func deploySolo(cfg *lordchain.Config) (*soloDeployment, error) {
	var (
		tokenAddr = lordchain.BytesToAddress([]byte("lrds-token"))
		admin     = lordchain.BytesToAddress([]byte("solo-admin"))
		bank      = lordchain.BytesToAddress([]byte("solo-bank"))
		verifier  = lordchain.BytesToAddress([]byte("solo-verifier"))
	)

	st := state.New()
	ledger := token.NewStateLedger(tokenAddr, st)
	environment := env.New(st, clock.System{}, ledger, cfg)

	premine := new(big.Int).Mul(big.NewInt(1_000_000_000), lordchain.Multiplier)
	if err := ledger.Mint(bank, premine); err != nil {
		return nil, err
	}

	factoryAddr := lordchain.BytesToAddress([]byte("factory"))
	f, err := factory.New(environment, factoryAddr, admin)
	if err != nil {
		return nil, err
	}
	if _, err := f.CreateValidator(admin, admin, lordchain.MasterQuality, verifier); err != nil {
		return nil, err
	}

	govAddr := lordchain.BytesToAddress([]byte("governance"))
	g := governance.New(environment, govAddr, admin, bank, f)
	if err := f.SetGovernance(admin, govAddr, g); err != nil {
		return nil, err
	}

	return &soloDeployment{
		environment: environment,
		ledger:      ledger,
		factory:     f,
		governance:  g,
	}, nil
}

func initLogger(verbosity int, jsonLogs bool) {
	var handler slog.Handler
	if jsonLogs {
		handler = log.JSONHandler(os.Stdout)
	} else {
		useColor := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
		level := new(slog.LevelVar)
		level.Set(log.Verbosity(verbosity))
		handler = log.NewTerminalHandlerWithLevel(os.Stdout, level, useColor)
	}
	log.SetDefault(handler)
}
