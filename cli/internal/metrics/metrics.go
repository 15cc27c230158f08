package metrics

import (
	"context"
	"errors"
	"fmt"

	"github.com/malbeclabs/prereq/smartcontract/sdk/go/prereq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const (
	// JobName groups the CLI's metrics on the push gateway.
	JobName = "prereq_cli"

	// Metrics names.
	MetricNameBuildInfo       = "prereq_cli_build_info"
	MetricNameTransactions    = "prereq_cli_transactions_total"
	MetricNameAirdropLamports = "prereq_cli_airdrop_lamports_total"
	MetricNameBalanceLamports = "prereq_cli_account_balance_lamports"

	// Labels.
	LabelVersion = "version"
	LabelCommit  = "commit"
	LabelDate    = "date"
	LabelKind    = "kind"
	LabelOutcome = "outcome"
	LabelAccount = "account"

	// Transaction kinds.
	KindAirdrop  = "airdrop"
	KindTransfer = "transfer"
	KindSweep    = "sweep"
	KindComplete = "complete"

	// Outcomes.
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

var (
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameBuildInfo,
			Help: "Build information of the prereq CLI",
		},
		[]string{LabelVersion, LabelCommit, LabelDate},
	)

	Transactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameTransactions,
			Help: "Number of transactions submitted, by kind and outcome",
		},
		[]string{LabelKind, LabelOutcome},
	)

	AirdropLamports = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameAirdropLamports,
			Help: "Lamports requested from the cluster faucet",
		},
	)

	AccountBalanceLamports = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: MetricNameBalanceLamports,
			Help: "The last observed balance of an account in lamports",
		},
		[]string{LabelAccount},
	)
)

// Outcome classifies the result of a submission.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, prereq.ErrSubmissionRejected):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

func ObserveTransaction(kind string, err error) {
	Transactions.WithLabelValues(kind, Outcome(err)).Inc()
}

// Push replaces the job's metric group on the push gateway at url with everything g gathers.
func Push(ctx context.Context, url string, g prometheus.Gatherer) error {
	if err := push.New(url, JobName).Gatherer(g).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}
