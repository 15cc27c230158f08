package prereq

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

type CompleteInstructionConfig struct {
	Signer        solana.PublicKey
	Prereq        solana.PublicKey
	SystemProgram solana.PublicKey
	Github        []byte
}

func (c *CompleteInstructionConfig) Validate() error {
	if c.Signer.IsZero() {
		return fmt.Errorf("signer public key is required")
	}
	if c.Prereq.IsZero() {
		return fmt.Errorf("prereq account public key is required")
	}
	// The system program ID is the all-zero key, so it cannot be checked with IsZero.
	if !c.SystemProgram.Equals(solana.SystemProgramID) {
		return fmt.Errorf("system program must be %s, got %s", solana.SystemProgramID, c.SystemProgram)
	}
	return nil
}

// BuildCompleteInstruction builds the program's "complete" instruction.
// Accounts: [signer (signer, writable), prereq (writable), system program (read-only)]
// Data: sha256("global:complete")[:8] || u32 LE len(github) || github
func BuildCompleteInstruction(
	programID solana.PublicKey,
	config CompleteInstructionConfig,
) (solana.Instruction, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate config: %w", err)
	}

	idl, err := DefaultIDL()
	if err != nil {
		return nil, fmt.Errorf("failed to load IDL: %w", err)
	}
	schema, err := idl.Instruction(CompleteInstructionName)
	if err != nil {
		return nil, err
	}

	github := config.Github
	if github == nil {
		github = []byte{}
	}
	return BuildInstruction(programID, schema,
		map[string]solana.PublicKey{
			AccountNameSigner:        config.Signer,
			AccountNamePrereq:        config.Prereq,
			AccountNameSystemAccount: config.SystemProgram,
		},
		map[string]any{
			ArgNameGithub: github,
		},
	)
}

// BuildCompleteTransaction wraps the "complete" instruction in a transaction signed by signers.
// It fails with ErrMissingSigner if the fee payer or the instruction signer has no key in signers.
func BuildCompleteTransaction(
	programID solana.PublicKey,
	config CompleteInstructionConfig,
	feePayer solana.PublicKey,
	signers []solana.PrivateKey,
	recentBlockhash solana.Hash,
) (*solana.Transaction, error) {
	instruction, err := BuildCompleteInstruction(programID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to build instruction: %w", err)
	}
	return BuildSignedTransaction([]solana.Instruction{instruction}, feePayer, signers, recentBlockhash)
}
