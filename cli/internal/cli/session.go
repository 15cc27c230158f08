package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/malbeclabs/prereq/config"
	"github.com/malbeclabs/prereq/pkg/wallet"
	"github.com/malbeclabs/prereq/smartcontract/sdk/go/prereq"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// session holds what a subcommand resolves from the root flags.
type session struct {
	log         *slog.Logger
	network     *config.NetworkConfig
	keypairPath string
	seed        string
}

func newSession(cmd *cobra.Command) (*session, error) {
	return sessionFromFlags(cmd.Root().PersistentFlags(), cmd.ErrOrStderr())
}

func sessionFromFlags(flags *pflag.FlagSet, logOut io.Writer) (*session, error) {
	verbose, err := flags.GetBool(flagVerbose)
	if err != nil {
		return nil, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	env, err := flags.GetString(flagEnv)
	if err != nil {
		return nil, fmt.Errorf("failed to get env flag: %w", err)
	}
	keypairPath, err := flags.GetString(flagKeypair)
	if err != nil {
		return nil, fmt.Errorf("failed to get keypair flag: %w", err)
	}
	rpcURL, err := flags.GetString(flagRPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get rpc-url flag: %w", err)
	}
	programID, err := flags.GetString(flagProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to get program-id flag: %w", err)
	}
	seed, err := flags.GetString(flagSeed)
	if err != nil {
		return nil, fmt.Errorf("failed to get seed flag: %w", err)
	}

	network, err := config.NetworkConfigForEnv(env)
	if err != nil {
		return nil, fmt.Errorf("failed to get network config: %w", err)
	}
	if rpcURL != "" {
		network.SolanaRPCURL = rpcURL
	}
	if programID != "" {
		pid, err := solana.PublicKeyFromBase58(programID)
		if err != nil {
			return nil, fmt.Errorf("invalid program ID: %w", err)
		}
		network.PrereqProgramID = pid
	}

	return &session{
		log:         newLogger(logOut, verbose),
		network:     network,
		keypairPath: keypairPath,
		seed:        seed,
	}, nil
}

func (s *session) signer() (solana.PrivateKey, error) {
	if _, err := os.Stat(s.keypairPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("keypair file %s does not exist, run `prereq keygen` first", s.keypairPath)
	}
	return wallet.Load(s.keypairPath)
}

func (s *session) rpc() *solanarpc.Client {
	return solanarpc.New(s.network.SolanaRPCURL)
}

func (s *session) funds() (*wallet.Funds, error) {
	return wallet.New(wallet.Config{
		Logger: s.log,
		RPC:    s.rpc(),
	})
}

func (s *session) client(signer *solana.PrivateKey) *prereq.Client {
	return prereq.New(s.log, s.rpc(), signer, s.network.PrereqProgramID, prereq.WithSeed(s.seed))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// ownerArg returns the public key given as the first argument, or the signer's.
func (s *session) ownerArg(args []string) (solana.PublicKey, error) {
	if len(args) > 0 {
		pk, err := solana.PublicKeyFromBase58(args[0])
		if err != nil {
			return solana.PublicKey{}, fmt.Errorf("invalid public key %q: %w", args[0], err)
		}
		return pk, nil
	}
	signer, err := s.signer()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return signer.PublicKey(), nil
}
