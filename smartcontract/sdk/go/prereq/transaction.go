package prereq

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gagliardetto/solana-go"
)

// RequiredSigners returns the fee payer followed by every other account flagged as a signer
// in the instructions, without duplicates.
func RequiredSigners(feePayer solana.PublicKey, instructions []solana.Instruction) []solana.PublicKey {
	seen := map[solana.PublicKey]struct{}{feePayer: {}}
	required := []solana.PublicKey{feePayer}
	for _, ix := range instructions {
		for _, meta := range ix.Accounts() {
			if meta == nil || !meta.IsSigner {
				continue
			}
			if _, ok := seen[meta.PublicKey]; ok {
				continue
			}
			seen[meta.PublicKey] = struct{}{}
			required = append(required, meta.PublicKey)
		}
	}
	return required
}

// CheckSigners reports ErrMissingSigner if any required key has no private key in signers.
func CheckSigners(required []solana.PublicKey, signers []solana.PrivateKey) error {
	keys := indexSigners(signers)
	var missing []string
	for _, pk := range required {
		if _, ok := keys[pk]; !ok {
			missing = append(missing, pk.String())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSigner, strings.Join(missing, ", "))
	}
	return nil
}

// BuildSignedTransaction wraps the instructions in a transaction paid for by feePayer and
// signs it with the signer set. Signer coverage is checked before the message is compiled.
func BuildSignedTransaction(
	instructions []solana.Instruction,
	feePayer solana.PublicKey,
	signers []solana.PrivateKey,
	recentBlockhash solana.Hash,
) (*solana.Transaction, error) {
	if len(instructions) == 0 {
		return nil, errors.New("at least one instruction is required")
	}
	if feePayer.IsZero() {
		return nil, errors.New("fee payer public key is required")
	}
	if recentBlockhash == (solana.Hash{}) {
		return nil, errors.New("recent blockhash is required")
	}
	if err := CheckSigners(RequiredSigners(feePayer, instructions), signers); err != nil {
		return nil, err
	}

	tx, err := solana.NewTransaction(
		instructions,
		recentBlockhash,
		solana.TransactionPayer(feePayer),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}
	if tx == nil {
		return nil, errors.New("transaction build failed: nil result")
	}

	keys := indexSigners(signers)
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		return keys[key]
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	if len(tx.Signatures) == 0 {
		return nil, errors.New("signed transaction appears malformed")
	}
	return tx, nil
}

func indexSigners(signers []solana.PrivateKey) map[solana.PublicKey]*solana.PrivateKey {
	keys := make(map[solana.PublicKey]*solana.PrivateKey, len(signers))
	for i := range signers {
		if !signers[i].IsValid() {
			continue
		}
		keys[signers[i].PublicKey()] = &signers[i]
	}
	return keys
}
