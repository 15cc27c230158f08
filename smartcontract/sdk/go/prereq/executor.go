package prereq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
)

var errSignatureNotVisible = errors.New("signature not found after wait")

type executor struct {
	log                   *slog.Logger
	rpc                   RPCClient
	signer                *solana.PrivateKey
	programID             solana.PublicKey
	waitForVisibleTimeout time.Duration
	pollInterval          time.Duration
	commitment            solanarpc.CommitmentType
}

type ExecutorOption func(*executor)

func WithWaitForVisibleTimeout(timeout time.Duration) ExecutorOption {
	return func(e *executor) {
		e.waitForVisibleTimeout = timeout
	}
}

func WithPollInterval(interval time.Duration) ExecutorOption {
	return func(e *executor) {
		e.pollInterval = interval
	}
}

// WithCommitment sets the commitment used for the blockhash and the confirmation wait.
func WithCommitment(commitment solanarpc.CommitmentType) ExecutorOption {
	return func(e *executor) {
		e.commitment = commitment
	}
}

func NewExecutor(log *slog.Logger, rpc RPCClient, signer *solana.PrivateKey, programID solana.PublicKey, opts ...ExecutorOption) *executor {
	e := &executor{
		log:                   log,
		rpc:                   rpc,
		signer:                signer,
		programID:             programID,
		waitForVisibleTimeout: 3 * time.Second,
		pollInterval:          250 * time.Millisecond,
		commitment:            solanarpc.CommitmentFinalized,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type ExecuteTransactionOptions struct {
	SkipPreflight bool
	// Signers are additional keys for instruction accounts flagged as signers. The executor's
	// own key always signs and pays the fee.
	Signers []solana.PrivateKey
}

func (e *executor) ExecuteTransaction(ctx context.Context, instruction solana.Instruction, opts *ExecuteTransactionOptions) (solana.Signature, *solanarpc.GetTransactionResult, error) {
	return e.ExecuteTransactions(ctx, []solana.Instruction{instruction}, opts)
}

// ExecuteTransactions signs, sends and waits for the instructions to reach the executor's
// commitment. Send and execution failures are returned as *SubmissionError and never retried.
func (e *executor) ExecuteTransactions(ctx context.Context, instructions []solana.Instruction, opts *ExecuteTransactionOptions) (solana.Signature, *solanarpc.GetTransactionResult, error) {
	if opts == nil {
		opts = &ExecuteTransactionOptions{}
	}

	if e.signer == nil {
		return solana.Signature{}, nil, ErrNoPrivateKey
	}
	if e.programID.IsZero() {
		return solana.Signature{}, nil, ErrNoProgramID
	}

	feePayer := e.signer.PublicKey()
	signers := append([]solana.PrivateKey{*e.signer}, opts.Signers...)

	// Check signer coverage before touching the network.
	if err := CheckSigners(RequiredSigners(feePayer, instructions), signers); err != nil {
		return solana.Signature{}, nil, err
	}

	// Get latest blockhash
	blockhashResult, err := e.rpc.GetLatestBlockhash(ctx, e.commitment)
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}
	if blockhashResult == nil || blockhashResult.Value == nil {
		return solana.Signature{}, nil, errors.New("failed to get latest blockhash: empty result")
	}

	// Build and sign transaction
	tx, err := BuildSignedTransaction(instructions, feePayer, signers, blockhashResult.Value.Blockhash)
	if err != nil {
		return solana.Signature{}, nil, err
	}

	// Send transaction
	sig, err := e.rpc.SendTransactionWithOpts(ctx, tx, solanarpc.TransactionOpts{
		SkipPreflight:       opts.SkipPreflight,
		PreflightCommitment: e.commitment,
	})
	if err != nil {
		return solana.Signature{}, nil, &SubmissionError{Err: err}
	}
	e.log.Debug("--> Transaction sent", "sig", sig, "skipPreflight", opts.SkipPreflight)

	// Wait for the signature to be visible
	err = e.waitForSignatureVisible(ctx, sig, e.waitForVisibleTimeout)
	if err != nil {
		if !errors.Is(err, errSignatureNotVisible) {
			return sig, nil, fmt.Errorf("failed to wait for signature: %w", err)
		}
		if opts.SkipPreflight {
			err = fmt.Errorf("transaction dropped or rejected before cluster saw it. make sure you have sufficient funds for the transaction: %w", err)
		} else {
			err = fmt.Errorf("transaction dropped or rejected before cluster saw it: %w", err)
		}
		return sig, nil, &SubmissionError{Signature: sig, Err: err}
	}

	// Wait for the transaction to be confirmed
	res, err := e.waitForTransactionConfirmed(ctx, sig)
	if err != nil {
		var subErr *SubmissionError
		if errors.As(err, &subErr) {
			return sig, nil, err
		}
		return solana.Signature{}, nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	if res.Meta.Err != nil {
		return sig, res, &SubmissionError{Signature: sig, Err: fmt.Errorf("transaction failed: %v", res.Meta.Err)}
	}

	return sig, res, nil
}

func (e *executor) waitForSignatureVisible(ctx context.Context, sig solana.Signature, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		resp, err := e.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return err
		}
		if len(resp.Value) > 0 && resp.Value[0] != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(e.pollInterval):
		}
	}
	return errSignatureNotVisible
}

func (e *executor) waitForTransactionConfirmed(ctx context.Context, sig solana.Signature) (*solanarpc.GetTransactionResult, error) {
	e.log.Debug("--> Waiting for transaction to be confirmed", "sig", sig, "commitment", e.commitment)
	start := time.Now()
	for {
		statusResp, err := e.rpc.GetSignatureStatuses(ctx, true, sig)
		if err != nil {
			return nil, err
		}
		if len(statusResp.Value) == 0 {
			return nil, errors.New("transaction not found")
		}
		status := statusResp.Value[0]
		if status != nil && status.Err != nil {
			return nil, &SubmissionError{Signature: sig, Err: fmt.Errorf("transaction failed: %v", status.Err)}
		}
		if status != nil && ReachedCommitment(status.ConfirmationStatus, e.commitment) {
			e.log.Debug("--> Transaction confirmed", "sig", sig, "duration", time.Since(start))
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(e.pollInterval):
			if time.Since(start)/time.Second%5 == 0 {
				e.log.Debug("--> Still waiting for transaction to be confirmed", "sig", sig, "elapsed", time.Since(start))
			}
		}
	}

	tx, err := e.rpc.GetTransaction(ctx, sig, &solanarpc.GetTransactionOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: e.commitment,
	})
	if err != nil {
		return nil, err
	}
	if tx == nil || tx.Meta == nil {
		return nil, errors.New("transaction not found or missing metadata after confirmation")
	}
	return tx, nil
}

// ReachedCommitment reports whether a signature status satisfies the wanted commitment.
func ReachedCommitment(status solanarpc.ConfirmationStatusType, want solanarpc.CommitmentType) bool {
	switch want {
	case solanarpc.CommitmentProcessed:
		return status == solanarpc.ConfirmationStatusProcessed ||
			status == solanarpc.ConfirmationStatusConfirmed ||
			status == solanarpc.ConfirmationStatusFinalized
	case solanarpc.CommitmentConfirmed:
		return status == solanarpc.ConfirmationStatusConfirmed ||
			status == solanarpc.ConfirmationStatusFinalized
	default:
		return status == solanarpc.ConfirmationStatusFinalized
	}
}
