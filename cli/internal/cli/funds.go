package cli

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/prereq/cli/internal/metrics"
	"github.com/malbeclabs/prereq/pkg/wallet"
	"github.com/spf13/cobra"
)

var ErrAirdropUnavailable = errors.New("airdrops are not available on this network")

const verifyMessage = "I verify my solana Keypair!"

type AirdropCmd struct{}

func NewAirdropCmd() *AirdropCmd {
	return &AirdropCmd{}
}

func (c *AirdropCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "airdrop",
		Short: "Request SOL from the faucet of a test network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sol, err := cmd.Flags().GetFloat64("sol")
			if err != nil {
				return fmt.Errorf("failed to get sol flag: %w", err)
			}
			wait, err := cmd.Flags().GetBool("wait")
			if err != nil {
				return fmt.Errorf("failed to get wait flag: %w", err)
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if !s.network.AirdropEnabled {
				return fmt.Errorf("%w: %s", ErrAirdropUnavailable, s.network.Moniker)
			}
			signer, err := s.signer()
			if err != nil {
				return err
			}
			funds, err := s.funds()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			account := signer.PublicKey()
			before, err := funds.Balance(ctx, account)
			if err != nil {
				return err
			}

			lamports := wallet.SOLToLamports(sol)
			sig, err := funds.Airdrop(ctx, account, lamports)
			metrics.ObserveTransaction(metrics.KindAirdrop, err)
			if err != nil {
				return err
			}
			metrics.AirdropLamports.Add(float64(lamports))

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Airdrop of %g SOL requested for %s\n", sol, account)
			fmt.Fprintf(w, "Transaction: %s\n", s.network.ExplorerTransactionURL(sig))

			if wait {
				s.log.Debug("Waiting for airdrop to land", "account", account, "expected", before+lamports)
				balance, err := funds.WaitForBalance(ctx, account, before+lamports)
				if err != nil {
					return err
				}
				metrics.AccountBalanceLamports.WithLabelValues(account.String()).Set(float64(balance))
				fmt.Fprintf(w, "Balance: %s\n", formatLamports(balance))
			}
			return nil
		},
	}

	cmd.Flags().Float64("sol", 2, "Amount of SOL to request")
	cmd.Flags().Bool("wait", true, "Wait for the airdrop to be reflected in the balance")

	return cmd
}

type BalanceCmd struct{}

func NewBalanceCmd() *BalanceCmd {
	return &BalanceCmd{}
}

func (c *BalanceCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [pubkey]",
		Short: "Show the balance of an account (defaults to the keypair)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			account, err := s.ownerArg(args)
			if err != nil {
				return err
			}
			funds, err := s.funds()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			balance, err := funds.Balance(ctx, account)
			if err != nil {
				return err
			}
			metrics.AccountBalanceLamports.WithLabelValues(account.String()).Set(float64(balance))
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", account, formatLamports(balance))
			return nil
		},
	}
}

type TransferCmd struct{}

func NewTransferCmd() *TransferCmd {
	return &TransferCmd{}
}

func (c *TransferCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer SOL from the keypair to another account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sol, err := cmd.Flags().GetFloat64("sol")
			if err != nil {
				return fmt.Errorf("failed to get sol flag: %w", err)
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			to, err := recipientFlag(cmd, s)
			if err != nil {
				return err
			}
			signer, err := s.signer()
			if err != nil {
				return err
			}

			// Prove the keypair signs for its public key before moving funds.
			sig, err := wallet.SignMessage(signer, []byte(verifyMessage))
			if err != nil {
				return err
			}
			if !wallet.VerifyMessage(signer.PublicKey(), []byte(verifyMessage), sig) {
				return errors.New("keypair failed to verify its own signature")
			}
			s.log.Debug("Keypair verified", "pubkey", signer.PublicKey())

			funds, err := s.funds()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			txSig, err := funds.Transfer(ctx, signer, to, wallet.SOLToLamports(sol))
			metrics.ObserveTransaction(metrics.KindTransfer, err)
			if err != nil {
				printFailedTransaction(cmd, s, txSig)
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Transferred %g SOL to %s\n", sol, to)
			fmt.Fprintf(w, "Transaction: %s\n", s.network.ExplorerTransactionURL(txSig))
			return nil
		},
	}

	cmd.Flags().String("to", "", "Recipient public key (defaults to the Turbin3 wallet)")
	cmd.Flags().Float64("sol", 0.1, "Amount of SOL to transfer")

	return cmd
}

type SweepCmd struct{}

func NewSweepCmd() *SweepCmd {
	return &SweepCmd{}
}

func (c *SweepCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Transfer the entire balance of the keypair, less the fee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			to, err := recipientFlag(cmd, s)
			if err != nil {
				return err
			}
			signer, err := s.signer()
			if err != nil {
				return err
			}
			funds, err := s.funds()
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			sig, amount, err := funds.Sweep(ctx, signer, to)
			metrics.ObserveTransaction(metrics.KindSweep, err)
			if err != nil {
				printFailedTransaction(cmd, s, sig)
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Swept %s to %s\n", formatLamports(amount), to)
			fmt.Fprintf(w, "Transaction: %s\n", s.network.ExplorerTransactionURL(sig))
			return nil
		},
	}

	cmd.Flags().String("to", "", "Recipient public key (defaults to the Turbin3 wallet)")

	return cmd
}

func recipientFlag(cmd *cobra.Command, s *session) (solana.PublicKey, error) {
	to, err := cmd.Flags().GetString("to")
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to get to flag: %w", err)
	}
	if to == "" {
		return s.network.Turbin3RecipientPK, nil
	}
	pk, err := solana.PublicKeyFromBase58(to)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	return pk, nil
}

func printFailedTransaction(cmd *cobra.Command, s *session, sig solana.Signature) {
	if sig == (solana.Signature{}) {
		return
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Failed transaction: %s\n", s.network.ExplorerTransactionURL(sig))
}

func formatLamports(lamports uint64) string {
	return fmt.Sprintf("%d lamports (%.9f SOL)", lamports, wallet.LamportsToSOL(lamports))
}
