package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/malbeclabs/prereq/cli/internal/metrics"
	"github.com/malbeclabs/prereq/smartcontract/sdk/go/prereq"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type AddressCmd struct{}

func NewAddressCmd() *AddressCmd {
	return &AddressCmd{}
}

func (c *AddressCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:   "address [owner]",
		Short: "Show the prereq account address of an owner (defaults to the keypair)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			owner, err := s.ownerArg(args)
			if err != nil {
				return err
			}

			seeds := []string{s.seed}
			for _, known := range []string{prereq.PrereqSeed, prereq.LegacyPrereqSeed} {
				if known != s.seed {
					seeds = append(seeds, known)
				}
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Program:", s.network.PrereqProgramID)
			fmt.Fprintln(w, "Owner:", owner)

			table := tablewriter.NewWriter(w)
			table.SetAutoWrapText(false)
			table.SetAutoFormatHeaders(false)
			table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
			table.SetBorder(true)
			table.SetHeader([]string{"Seed", "Address", "Bump", "Active"})
			for _, seed := range seeds {
				pda, bump, err := prereq.DerivePrereqPDA(s.network.PrereqProgramID, owner, seed)
				if err != nil {
					return fmt.Errorf("failed to derive prereq PDA for seed %q: %w", seed, err)
				}
				active := ""
				if seed == s.seed {
					active = "*"
				}
				table.Append([]string{seed, pda.String(), fmt.Sprintf("%d", bump), active})
			}
			table.Render()
			return nil
		},
	}
}

type AccountCmd struct{}

func NewAccountCmd() *AccountCmd {
	return &AccountCmd{}
}

func (c *AccountCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account [owner]",
		Short: "Show the prereq account of an owner (defaults to the keypair)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			all, err := cmd.Flags().GetBool("all")
			if err != nil {
				return fmt.Errorf("failed to get all flag: %w", err)
			}
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			client := s.client(nil)

			ctx, cancel := signalContext()
			defer cancel()

			if all {
				accounts, err := client.GetPrereqAccounts(ctx)
				if err != nil {
					return err
				}
				printPrereqAccounts(cmd.OutOrStdout(), accounts)
				return nil
			}

			owner, err := s.ownerArg(args)
			if err != nil {
				return err
			}
			acct, err := client.GetPrereqAccount(ctx, owner)
			if errors.Is(err, prereq.ErrAccountNotFound) {
				return fmt.Errorf("%s has not completed the prereq (seed %q): %w", owner, s.seed, err)
			}
			if err != nil {
				return err
			}
			printPrereqAccounts(cmd.OutOrStdout(), []prereq.PrereqAccount{*acct})
			return nil
		},
	}

	cmd.Flags().Bool("all", false, "List every prereq account of the program")

	return cmd
}

func printPrereqAccounts(w io.Writer, accounts []prereq.PrereqAccount) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetHeader([]string{"Key", "GitHub"})
	for _, acct := range accounts {
		table.Append([]string{acct.Key.String(), acct.GithubUsername()})
	}
	table.Render()
}

type CompleteCmd struct{}

func NewCompleteCmd() *CompleteCmd {
	return &CompleteCmd{}
}

func (c *CompleteCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Submit the complete instruction with a GitHub username",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			github, err := cmd.Flags().GetString("github")
			if err != nil {
				return fmt.Errorf("failed to get github flag: %w", err)
			}
			if github == "" {
				return errors.New("--github is required")
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			signer, err := s.signer()
			if err != nil {
				return err
			}
			client := s.client(&signer)

			pda, _, err := client.PrereqPDA(signer.PublicKey())
			if err != nil {
				return err
			}
			s.log.Debug("Submitting complete", "signer", signer.PublicKey(), "prereq", pda, "seed", s.seed, "program", client.ProgramID())

			ctx, cancel := signalContext()
			defer cancel()

			sig, _, err := client.Complete(ctx, []byte(github))
			metrics.ObserveTransaction(metrics.KindComplete, err)
			if err != nil {
				var subErr *prereq.SubmissionError
				if errors.As(err, &subErr) {
					printFailedTransaction(cmd, s, subErr.Signature)
				}
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Completed prereq for %s as %s\n", signer.PublicKey(), github)
			fmt.Fprintf(w, "Prereq account: %s\n", s.network.ExplorerAddressURL(pda))
			fmt.Fprintf(w, "Transaction: %s\n", s.network.ExplorerTransactionURL(sig))
			return nil
		},
	}

	cmd.Flags().String("github", "", "GitHub username to record")

	return cmd
}
