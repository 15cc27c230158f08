package prereq

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

var (
	ErrAccountNotFound = errors.New("account not found")

	// ErrNoPrivateKey is returned when a transaction signing operation is attempted without a configured private key.
	ErrNoPrivateKey = errors.New("no private key configured")

	// ErrNoProgramID is returned when an instruction is built or signed without a configured program ID.
	ErrNoProgramID = errors.New("no program ID configured")

	// ErrInvalidSeeds is returned when the seed set exceeds the count or length limits of address derivation.
	ErrInvalidSeeds = errors.New("invalid seeds")

	// ErrDerivationExhausted is returned when no bump in [0, 255] yields an off-curve address.
	ErrDerivationExhausted = errors.New("unable to find a valid program address")

	// ErrMissingSigner is returned when an account that must sign has no private key in the signer set.
	ErrMissingSigner = errors.New("missing signer")

	// ErrSubmissionRejected matches every *SubmissionError via errors.Is.
	ErrSubmissionRejected = errors.New("transaction submission rejected")
)

// SubmissionError reports that the cluster or the program rejected a transaction. The
// underlying RPC or execution error is available through errors.Unwrap. It is never retried.
type SubmissionError struct {
	// Signature is zero when the send itself was rejected.
	Signature solana.Signature
	Err       error
}

func (e *SubmissionError) Error() string {
	if e.Signature == (solana.Signature{}) {
		return fmt.Sprintf("%s: %v", ErrSubmissionRejected, e.Err)
	}
	return fmt.Sprintf("%s (signature %s): %v", ErrSubmissionRejected, e.Signature, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

func (e *SubmissionError) Is(target error) bool {
	return target == ErrSubmissionRejected
}
