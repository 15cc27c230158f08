package prereq

import "github.com/gagliardetto/solana-go"

// SetCreateProgramAddress swaps the address constructor used by DeriveAddress and returns a
// function restoring the previous one. Tests using it must not run in parallel.
func SetCreateProgramAddress(f func([][]byte, solana.PublicKey) (solana.PublicKey, error)) func() {
	orig := createProgramAddress
	createProgramAddress = f
	return func() { createProgramAddress = orig }
}
