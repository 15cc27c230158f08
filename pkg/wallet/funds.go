package wallet

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/malbeclabs/prereq/smartcontract/sdk/go/prereq"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
)

// SOLToLamports converts an amount of SOL to lamports, rounding to the nearest lamport.
// Negative amounts convert to zero.
func SOLToLamports(sol float64) uint64 {
	if sol <= 0 {
		return 0
	}
	return uint64(math.Round(sol * float64(solana.LAMPORTS_PER_SOL)))
}

func LamportsToSOL(lamports uint64) float64 {
	return float64(lamports) / float64(solana.LAMPORTS_PER_SOL)
}

type Funds struct {
	log *slog.Logger
	cfg Config
}

func New(cfg Config) (*Funds, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Funds{
		log: cfg.Logger,
		cfg: cfg,
	}, nil
}

// Balance returns the lamport balance of account.
func (f *Funds) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	balance, err := backoff.Retry(ctx, func() (uint64, error) {
		res, err := f.cfg.RPC.GetBalance(ctx, account, f.cfg.Commitment)
		if err != nil {
			return 0, err
		}
		if res == nil {
			return 0, errors.New("empty balance result")
		}
		return res.Value, nil
	}, f.retryOptions()...)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// Airdrop requests lamports from the cluster faucet. Only test clusters serve airdrops.
func (f *Funds) Airdrop(ctx context.Context, account solana.PublicKey, lamports uint64) (solana.Signature, error) {
	if lamports == 0 {
		return solana.Signature{}, ErrInvalidAmount
	}
	sig, err := f.cfg.RPC.RequestAirdrop(ctx, account, lamports, f.cfg.Commitment)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to request airdrop: %w", err)
	}
	f.log.Debug("Airdrop requested", "account", account, "lamports", lamports, "sig", sig)
	return sig, nil
}

// WaitForBalance polls until account holds at least minLamports.
func (f *Funds) WaitForBalance(ctx context.Context, account solana.PublicKey, minLamports uint64) (uint64, error) {
	timer := time.NewTimer(f.cfg.WaitForBalanceTimeout)
	defer timer.Stop()

	for {
		balance, err := f.Balance(ctx, account)
		if err != nil {
			return 0, err
		}
		if balance >= minLamports {
			return balance, nil
		}

		select {
		case <-ctx.Done():
			return balance, ctx.Err()
		case <-timer.C:
			return balance, fmt.Errorf("timeout waiting for balance: account=%s, expected balance=%d lamports, got=%d", account, minLamports, balance)
		case <-time.After(f.cfg.WaitForBalancePollInterval):
		}
	}
}

// Transfer sends lamports from sender to recipient with a system transfer and waits for it to
// be confirmed. The signature is also returned when the transaction was sent but not confirmed.
func (f *Funds) Transfer(ctx context.Context, sender solana.PrivateKey, recipient solana.PublicKey, lamports uint64) (solana.Signature, error) {
	if lamports == 0 {
		return solana.Signature{}, ErrInvalidAmount
	}
	blockhash, err := f.latestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, err
	}
	tx, err := buildTransfer(sender, recipient, lamports, blockhash)
	if err != nil {
		return solana.Signature{}, err
	}
	return f.send(ctx, tx)
}

// EstimateFee returns the fee in lamports the cluster charges for msg.
func (f *Funds) EstimateFee(ctx context.Context, msg *solana.Message) (uint64, error) {
	raw, err := msg.MarshalBinary()
	if err != nil {
		return 0, fmt.Errorf("failed to encode message: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(raw)

	fee, err := backoff.Retry(ctx, func() (uint64, error) {
		res, err := f.cfg.RPC.GetFeeForMessage(ctx, encoded, f.cfg.Commitment)
		if err != nil {
			return 0, err
		}
		if res == nil || res.Value == nil {
			// A null fee means the blockhash is unknown to the node; asking again will not help.
			return 0, backoff.Permanent(errors.New("fee unavailable for message"))
		}
		return *res.Value, nil
	}, f.retryOptions()...)
	if err != nil {
		return 0, fmt.Errorf("failed to get fee for message: %w", err)
	}
	return fee, nil
}

// Sweep transfers the entire balance of sender to recipient, less the fee of the transfer.
// It returns the signature and the amount moved. The signature is also returned when the
// transaction was sent but not confirmed.
func (f *Funds) Sweep(ctx context.Context, sender solana.PrivateKey, recipient solana.PublicKey) (solana.Signature, uint64, error) {
	balance, err := f.Balance(ctx, sender.PublicKey())
	if err != nil {
		return solana.Signature{}, 0, err
	}
	blockhash, err := f.latestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, 0, err
	}

	// The fee depends on the message shape, not the amount.
	draft, err := buildTransfer(sender, recipient, balance, blockhash)
	if err != nil {
		return solana.Signature{}, 0, err
	}
	fee, err := f.EstimateFee(ctx, &draft.Message)
	if err != nil {
		return solana.Signature{}, 0, err
	}
	if balance <= fee {
		return solana.Signature{}, 0, fmt.Errorf("%w: balance %d lamports does not cover fee %d", ErrInsufficientFunds, balance, fee)
	}

	amount := balance - fee
	tx, err := buildTransfer(sender, recipient, amount, blockhash)
	if err != nil {
		return solana.Signature{}, 0, err
	}
	sig, err := f.send(ctx, tx)
	if err != nil {
		return sig, 0, err
	}
	f.log.Debug("Swept balance", "from", sender.PublicKey(), "to", recipient, "lamports", amount, "fee", fee)
	return sig, amount, nil
}

func (f *Funds) latestBlockhash(ctx context.Context) (solana.Hash, error) {
	blockhash, err := backoff.Retry(ctx, func() (solana.Hash, error) {
		res, err := f.cfg.RPC.GetLatestBlockhash(ctx, f.cfg.Commitment)
		if err != nil {
			return solana.Hash{}, err
		}
		if res == nil || res.Value == nil {
			return solana.Hash{}, errors.New("empty blockhash result")
		}
		return res.Value.Blockhash, nil
	}, f.retryOptions()...)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	return blockhash, nil
}

// send submits tx once and waits for it to reach the configured commitment. Rejections by the
// cluster are returned as *prereq.SubmissionError.
func (f *Funds) send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := f.cfg.RPC.SendTransactionWithOpts(ctx, tx, solanarpc.TransactionOpts{
		PreflightCommitment: f.cfg.Commitment,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", &prereq.SubmissionError{Err: err})
	}
	f.log.Debug("--> Transaction sent", "sig", sig)

	if err := f.waitForConfirmation(ctx, sig); err != nil {
		return sig, err
	}
	return sig, nil
}

func (f *Funds) waitForConfirmation(ctx context.Context, sig solana.Signature) error {
	timer := time.NewTimer(f.cfg.ConfirmTimeout)
	defer timer.Stop()

	start := time.Now()
	seen := false
	for {
		res, err := f.cfg.RPC.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return fmt.Errorf("failed to get signature status: %w", err)
		}
		if res != nil && len(res.Value) > 0 && res.Value[0] != nil {
			seen = true
			status := res.Value[0]
			if status.Err != nil {
				return &prereq.SubmissionError{Signature: sig, Err: fmt.Errorf("transaction failed: %v", status.Err)}
			}
			if prereq.ReachedCommitment(status.ConfirmationStatus, f.cfg.Commitment) {
				f.log.Debug("--> Transaction confirmed", "sig", sig, "duration", time.Since(start))
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if !seen {
				return &prereq.SubmissionError{Signature: sig, Err: errors.New("transaction dropped or rejected before cluster saw it")}
			}
			return fmt.Errorf("timeout waiting for transaction %s to reach %s commitment", sig, f.cfg.Commitment)
		case <-time.After(f.cfg.ConfirmPollInterval):
		}
	}
}

func (f *Funds) retryOptions() []backoff.RetryOption {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = f.cfg.RetryInitialInterval
	return []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(f.cfg.MaxRetries),
	}
}

func buildTransfer(sender solana.PrivateKey, recipient solana.PublicKey, lamports uint64, blockhash solana.Hash) (*solana.Transaction, error) {
	if recipient.IsZero() {
		return nil, errors.New("recipient public key is required")
	}
	ix := system.NewTransferInstruction(lamports, sender.PublicKey(), recipient).Build()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		blockhash,
		solana.TransactionPayer(sender.PublicKey()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	_, err = tx.Sign(
		func(key solana.PublicKey) *solana.PrivateKey {
			if key.Equals(sender.PublicKey()) {
				return &sender
			}
			return nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return tx, nil
}
