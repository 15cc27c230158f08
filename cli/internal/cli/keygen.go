package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/prereq/pkg/wallet"
	"github.com/spf13/cobra"
)

type KeygenCmd struct{}

func NewKeygenCmd() *KeygenCmd {
	return &KeygenCmd{}
}

func (c *KeygenCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a new keypair and save it in the Solana keygen format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cmd.Flags().GetString("out")
			if err != nil {
				return fmt.Errorf("failed to get out flag: %w", err)
			}
			if out == "" {
				out, err = cmd.Root().PersistentFlags().GetString(flagKeypair)
				if err != nil {
					return fmt.Errorf("failed to get keypair flag: %w", err)
				}
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return fmt.Errorf("failed to get force flag: %w", err)
			}

			key, err := wallet.Generate()
			if err != nil {
				return err
			}
			if err := wallet.Save(out, key, force); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Generated a new Solana wallet: %s\n", key.PublicKey())
			fmt.Fprintf(w, "Saved keypair to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringP("out", "o", "", "Path to write the keypair to (defaults to --keypair)")
	cmd.Flags().Bool("force", false, "Overwrite an existing keypair file")

	return cmd
}

type Base58ToWalletCmd struct{}

func NewBase58ToWalletCmd() *Base58ToWalletCmd {
	return &Base58ToWalletCmd{}
}

func (c *Base58ToWalletCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "base58-to-wallet [base58-key]",
		Short: "Convert a base58 secret key to the Solana keygen byte array",
		Long:  "Convert a base58 secret key, as exported by browser wallets, to the Solana keygen byte array. The key is read from stdin when not given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := argOrStdin(cmd, args)
			if err != nil {
				return err
			}
			b, err := wallet.Base58ToBytes(input)
			if err != nil {
				return err
			}
			data, err := wallet.KeypairToBytes(solana.PrivateKey(b))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

type WalletToBase58Cmd struct{}

func NewWalletToBase58Cmd() *WalletToBase58Cmd {
	return &WalletToBase58Cmd{}
}

func (c *WalletToBase58Cmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "wallet-to-base58 [byte-array]",
		Short: "Convert a Solana keygen byte array to a base58 secret key",
		Long:  "Convert a Solana keygen byte array such as [34,46,...] to a base58 secret key. The array is read from stdin when not given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := argOrStdin(cmd, args)
			if err != nil {
				return err
			}
			key, err := wallet.KeypairFromBytes([]byte(input))
			if err != nil {
				return err
			}
			encoded, err := wallet.BytesToBase58(key)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}
}

// argOrStdin returns the first argument, or all of stdin when there is none.
func argOrStdin(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(args[0]), nil
	}
	data, err := io.ReadAll(bufio.NewReader(cmd.InOrStdin()))
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	input := strings.TrimSpace(string(data))
	if input == "" {
		return "", fmt.Errorf("no input given")
	}
	return input, nil
}
