package wallet

import (
	"errors"
	"log/slog"
	"time"

	solanarpc "github.com/gagliardetto/solana-go/rpc"
)

var (
	ErrLoggerRequired = errors.New("logger is required")
	ErrRPCRequired    = errors.New("rpc client is required")
)

const (
	defaultWaitForBalanceTimeout      = 60 * time.Second
	defaultWaitForBalancePollInterval = 1 * time.Second
	defaultConfirmTimeout             = 60 * time.Second
	defaultConfirmPollInterval        = 500 * time.Millisecond
	defaultRetryInitialInterval       = 500 * time.Millisecond
	defaultMaxRetries                 = 5
)

type Config struct {
	Logger *slog.Logger
	RPC    RPCClient

	// Commitment is used for reads, blockhashes and preflight. Defaults to confirmed.
	Commitment solanarpc.CommitmentType

	WaitForBalanceTimeout      time.Duration
	WaitForBalancePollInterval time.Duration

	// Sends wait until the signature reaches Commitment or ConfirmTimeout elapses.
	ConfirmTimeout      time.Duration
	ConfirmPollInterval time.Duration

	// Read-only calls are retried with exponential backoff; sends never are.
	RetryInitialInterval time.Duration
	MaxRetries           uint
}

func (c *Config) Validate() error {
	if c.Logger == nil {
		return ErrLoggerRequired
	}
	if c.RPC == nil {
		return ErrRPCRequired
	}
	if c.Commitment == "" {
		c.Commitment = solanarpc.CommitmentConfirmed
	}
	if c.WaitForBalanceTimeout <= 0 {
		c.WaitForBalanceTimeout = defaultWaitForBalanceTimeout
	}
	if c.WaitForBalancePollInterval <= 0 {
		c.WaitForBalancePollInterval = defaultWaitForBalancePollInterval
	}
	if c.ConfirmTimeout <= 0 {
		c.ConfirmTimeout = defaultConfirmTimeout
	}
	if c.ConfirmPollInterval <= 0 {
		c.ConfirmPollInterval = defaultConfirmPollInterval
	}
	if c.RetryInitialInterval <= 0 {
		c.RetryInitialInterval = defaultRetryInitialInterval
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	}
	return nil
}
