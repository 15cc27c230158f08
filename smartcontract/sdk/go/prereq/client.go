package prereq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
)

type Client struct {
	log      *slog.Logger
	rpc      RPCClient
	executor *executor
	seed     string
}

type ClientOption func(*clientOptions)

type clientOptions struct {
	seed         string
	executorOpts []ExecutorOption
}

// WithSeed overrides the seed literal used to derive the prereq account.
func WithSeed(seed string) ClientOption {
	return func(o *clientOptions) {
		o.seed = seed
	}
}

func WithExecutorOptions(opts ...ExecutorOption) ClientOption {
	return func(o *clientOptions) {
		o.executorOpts = append(o.executorOpts, opts...)
	}
}

func New(log *slog.Logger, rpc RPCClient, signer *solana.PrivateKey, programID solana.PublicKey, opts ...ClientOption) *Client {
	o := &clientOptions{seed: PrereqSeed}
	for _, opt := range opts {
		opt(o)
	}
	if o.seed != PrereqSeed {
		log.Warn("Using non-default prereq seed; confirm it matches the program configuration", "seed", o.seed, "default", PrereqSeed)
	}
	return &Client{
		log:      log,
		rpc:      rpc,
		executor: NewExecutor(log, rpc, signer, programID, o.executorOpts...),
		seed:     o.seed,
	}
}

func (c *Client) ProgramID() solana.PublicKey {
	if c.executor == nil {
		return solana.PublicKey{}
	}
	return c.executor.programID
}

func (c *Client) Signer() *solana.PrivateKey {
	if c.executor == nil {
		return nil
	}
	return c.executor.signer
}

func (c *Client) Seed() string {
	return c.seed
}

// PrereqPDA derives the prereq account of the given owner under the client's seed.
func (c *Client) PrereqPDA(owner solana.PublicKey) (solana.PublicKey, uint8, error) {
	return DerivePrereqPDA(c.ProgramID(), owner, c.seed)
}

// BuildComplete builds the "complete" instruction for the client's signer.
func (c *Client) BuildComplete(github []byte) (solana.Instruction, error) {
	signer := c.Signer()
	if signer == nil {
		return nil, ErrNoPrivateKey
	}
	programID := c.ProgramID()
	if programID.IsZero() {
		return nil, ErrNoProgramID
	}

	pda, _, err := c.PrereqPDA(signer.PublicKey())
	if err != nil {
		return nil, fmt.Errorf("failed to derive prereq PDA: %w", err)
	}

	return BuildCompleteInstruction(programID, CompleteInstructionConfig{
		Signer:        signer.PublicKey(),
		Prereq:        pda,
		SystemProgram: solana.SystemProgramID,
		Github:        github,
	})
}

// Complete submits the "complete" instruction with the given github payload. A rejection by
// the cluster or the program is returned as *SubmissionError.
func (c *Client) Complete(ctx context.Context, github []byte) (solana.Signature, *solanarpc.GetTransactionResult, error) {
	instruction, err := c.BuildComplete(github)
	if err != nil {
		return solana.Signature{}, nil, fmt.Errorf("failed to build instruction: %w", err)
	}

	sig, res, err := c.executor.ExecuteTransaction(ctx, instruction, nil)
	if err != nil {
		return sig, res, fmt.Errorf("failed to execute instruction: %w", err)
	}
	return sig, res, nil
}

// GetPrereqAccount fetches the prereq account of the given owner.
func (c *Client) GetPrereqAccount(ctx context.Context, owner solana.PublicKey) (*PrereqAccount, error) {
	pda, _, err := c.PrereqPDA(owner)
	if err != nil {
		return nil, fmt.Errorf("failed to derive PDA: %w", err)
	}

	account, err := c.rpc.GetAccountInfo(ctx, pda)
	if err != nil {
		if errors.Is(err, solanarpc.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account data: %w", err)
	}
	if account == nil || account.Value == nil {
		return nil, ErrAccountNotFound
	}

	acct, err := DeserializePrereqAccount(account.Value.Data.GetBinary())
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize prereq account: %w", err)
	}
	return acct, nil
}

// GetPrereqAccounts fetches every prereq account owned by the program.
func (c *Client) GetPrereqAccounts(ctx context.Context) ([]PrereqAccount, error) {
	opts := &solanarpc.GetProgramAccountsOpts{
		Filters: []solanarpc.RPCFilter{
			{
				Memcmp: &solanarpc.RPCFilterMemcmp{
					Offset: 0,
					Bytes:  solana.Base58(DiscriminatorPrereqAccount[:]),
				},
			},
		},
	}

	accounts, err := c.rpc.GetProgramAccountsWithOpts(ctx, c.ProgramID(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get program accounts: %w", err)
	}

	out := make([]PrereqAccount, 0, len(accounts))
	for _, acct := range accounts {
		decoded, err := DeserializePrereqAccount(acct.Account.Data.GetBinary())
		if err != nil {
			c.log.Warn("failed to deserialize prereq account", "pubkey", acct.Pubkey, "error", err)
			continue
		}
		out = append(out, *decoded)
	}
	return out, nil
}
