package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lmittmann/tint"
	"github.com/malbeclabs/prereq/cli/internal/metrics"
	"github.com/malbeclabs/prereq/config"
	"github.com/malbeclabs/prereq/smartcontract/sdk/go/prereq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type ExitCode int

const (
	exitCodeSuccess = 0
	exitCodeError   = 1
)

const (
	flagVerbose            = "verbose"
	flagEnv                = "env"
	flagKeypair            = "keypair"
	flagRPCURL             = "rpc-url"
	flagProgramID          = "program-id"
	flagSeed               = "seed"
	flagMetricsPushgateway = "metrics-pushgateway"

	defaultKeypairPath = "dev-wallet.json"
	metricsPushTimeout = 5 * time.Second
)

type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

func Run(info BuildInfo) ExitCode {
	if err := Execute(NewRootCmd(info)); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

// Execute runs the command tree and then pushes the collected metrics when a push gateway is
// configured. A failed push is logged and does not fail the command.
func Execute(rootCmd *cobra.Command) error {
	err := rootCmd.Execute()
	flags := rootCmd.PersistentFlags()
	if pushErr := pushMetrics(flags); pushErr != nil {
		verbose, _ := flags.GetBool(flagVerbose)
		newLogger(rootCmd.ErrOrStderr(), verbose).Warn("Failed to push metrics", "error", pushErr)
	}
	return err
}

func NewRootCmd(info BuildInfo) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "prereq",
		Short:        "Wallet tooling and enrollment client for the Turbin3 prereq program.",
		Version:      fmt.Sprintf("%s (commit: %s, date: %s)", info.Version, info.Commit, info.Date),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			metrics.BuildInfo.WithLabelValues(info.Version, info.Commit, info.Date).Set(1)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := cmd.Help()
			if err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolP(flagVerbose, "v", false, "set debug logging level")
	rootCmd.PersistentFlags().StringP(flagEnv, "e", config.EnvDevnet, "The network environment (mainnet-beta, testnet, devnet)")
	rootCmd.PersistentFlags().StringP(flagKeypair, "k", defaultKeypairPath, "Path to the Solana keygen keypair file")
	rootCmd.PersistentFlags().String(flagRPCURL, "", "Override the Solana RPC URL of the environment")
	rootCmd.PersistentFlags().String(flagProgramID, "", "Override the prereq program ID of the environment")
	rootCmd.PersistentFlags().String(flagSeed, prereq.PrereqSeed, fmt.Sprintf("Seed literal of the prereq account (%s, %s)", prereq.PrereqSeed, prereq.LegacyPrereqSeed))
	rootCmd.PersistentFlags().String(flagMetricsPushgateway, "", "Prometheus push gateway URL to push metrics to when the command exits")

	rootCmd.AddCommand(
		NewKeygenCmd().Command(),
		NewBase58ToWalletCmd().Command(),
		NewWalletToBase58Cmd().Command(),
		NewAirdropCmd().Command(),
		NewBalanceCmd().Command(),
		NewTransferCmd().Command(),
		NewSweepCmd().Command(),
		NewAddressCmd().Command(),
		NewAccountCmd().Command(),
		NewCompleteCmd().Command(),
	)

	return rootCmd
}

func pushMetrics(flags *pflag.FlagSet) error {
	url, err := flags.GetString(flagMetricsPushgateway)
	if err != nil {
		return fmt.Errorf("failed to get metrics-pushgateway flag: %w", err)
	}
	if url == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), metricsPushTimeout)
	defer cancel()
	return metrics.Push(ctx, url, prometheus.DefaultGatherer)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}
