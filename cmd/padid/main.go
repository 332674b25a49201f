package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"

	"padi_protocol/config"
	"padi_protocol/dao"
	"padi_protocol/protocol"
	"padi_protocol/sdk"
	"padi_protocol/server"
	"padi_protocol/state"
	"padi_protocol/storage"
)

const programName = "padid"

var configFile string

func slogPrintf(format string, v ...any) {
	slog.Info(fmt.Sprintf(format, v...),
		"component", programName,
	)
}

func commonRun(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	logger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}),
	)
	slog.SetDefault(logger)
	if _, err := maxprocs.Set(maxprocs.Logger(slogPrintf)); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	return logger
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the protocol daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			logger := commonRun(cfg.LogLevel)
			return runServe(cmd.Context(), cfg, logger)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	// state backends: badger on disk, memory when no data dir is configured
	protocolBackend, err := state.NewBadgerBackend(cfg.DataDir, logger)
	if err != nil {
		return fmt.Errorf("open protocol backend: %w", err)
	}
	defer protocolBackend.Close()
	daoDataDir := ""
	if cfg.DataDir != "" {
		daoDataDir = cfg.DataDir + "/dao"
	}
	daoBackend, err := state.NewBadgerBackend(daoDataDir, logger)
	if err != nil {
		return fmt.Errorf("open dao backend: %w", err)
	}
	defer daoBackend.Close()

	admin := sdk.Address(cfg.Protocol.Admin)
	engineAddr := sdk.Address(cfg.Protocol.EngineAddress)

	store := storage.NewStore(protocolBackend, admin)
	if store.Bound().IsZero() {
		if err := store.Bind(admin, engineAddr); err != nil {
			return fmt.Errorf("bind protocol engine: %w", err)
		}
	}

	// dev-mode boundary implementations; a chain-connected deployment swaps
	// these for real adapters
	ledger := sdk.NewDevLedger(engineAddr)
	oracle := sdk.NewDevVotesOracle()
	for _, acct := range cfg.Dev.Accounts {
		addr := sdk.Address(acct.Address)
		if acct.Balance > 0 {
			ledger.Credit(addr, acct.Balance)
		}
		if acct.Votes > 0 {
			oracle.Checkpoint(addr, 0, acct.Votes)
		}
	}
	env := sdk.NewManualEnv(1, time.Now().Unix())

	engine := protocol.NewEngine(protocol.Config{
		Admin:                admin,
		PaymentWallet:        sdk.Address(cfg.Protocol.PaymentWallet),
		Self:                 engineAddr,
		MembershipPrice:      cfg.Protocol.MembershipPrice,
		OpenCorroboration:    cfg.Protocol.OpenCorroboration,
		OpenEmergencyConfirm: cfg.Protocol.OpenEmergencyConfirm,
	}, store, ledger, sdk.NewDevMembershipToken(), env, logger)

	gov := dao.NewGovernor(dao.Config{
		VotingDelay:       cfg.Dao.VotingDelay,
		VotingPeriod:      cfg.Dao.VotingPeriod,
		ProposalThreshold: cfg.Dao.ProposalThreshold,
		Quorum:            cfg.Dao.Quorum,
		MaxActions:        cfg.Dao.MaxActions,
		TimelockDelay:     cfg.Dao.TimelockDelay,
		GracePeriod:       cfg.Dao.GracePeriod,
		Guardian:          sdk.Address(cfg.Dao.Guardian),
	}, daoBackend, oracle, sdk.NewDevExecutor(), env, logger)

	verifier := protocol.NewHMACVerifier([]byte(cfg.Protocol.RelaySecret))
	metrics := server.NewMetrics()
	api := server.NewAPIHandlers(logger, engine, gov, verifier)

	apiSrv := server.New(logger, cfg.BindAddr, cfg.ApiPort,
		server.NewRouter(logger, api, metrics))
	metricsSrv := server.New(logger, cfg.BindAddr, cfg.MetricsPort, metrics.Handler())

	errCh := make(chan error, 2)
	go func() { errCh <- apiSrv.Start() }()
	go func() { errCh <- metricsSrv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("api shutdown failed", "error", err)
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown failed", "error", err)
	}
	return nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   programName,
		Short: "Padi legal-aid protocol daemon",
	}
	rootCmd.PersistentFlags().StringVarP(
		&configFile, "config", "c", "", "config file path")
	rootCmd.AddCommand(serveCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
