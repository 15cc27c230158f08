package prereq

import (
	"fmt"
	"math"

	"github.com/gagliardetto/solana-go"
)

// createProgramAddress hashes seeds against the program ID and rejects on-curve results.
var createProgramAddress = solana.CreateProgramAddress

// DeriveAddress derives the canonical program address for the seeds, searching bumps from 255
// down to 0. The result is deterministic and never lies on the ed25519 curve.
func DeriveAddress(programID solana.PublicKey, seeds [][]byte) (solana.PublicKey, uint8, error) {
	if len(seeds) > MaxSeeds {
		return solana.PublicKey{}, 0, fmt.Errorf("%w: %d seeds exceeds max %d", ErrInvalidSeeds, len(seeds), MaxSeeds)
	}
	for i, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return solana.PublicKey{}, 0, fmt.Errorf("%w: seed %d length %d exceeds max %d", ErrInvalidSeeds, i, len(seed), MaxSeedLength)
		}
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)
	for bump := math.MaxUint8; bump >= 0; bump-- {
		withBump[len(seeds)] = []byte{uint8(bump)}
		address, err := createProgramAddress(withBump, programID)
		if err == nil {
			return address, uint8(bump), nil
		}
	}
	return solana.PublicKey{}, 0, ErrDerivationExhausted
}

// DerivePrereqPDA derives the enrollment account of a signer.
// Seeds: [seed, signer.Bytes()]
func DerivePrereqPDA(programID solana.PublicKey, signer solana.PublicKey, seed string) (solana.PublicKey, uint8, error) {
	if seed == "" {
		return solana.PublicKey{}, 0, fmt.Errorf("seed is required")
	}
	if signer.IsZero() {
		return solana.PublicKey{}, 0, fmt.Errorf("signer public key is required")
	}
	return DeriveAddress(programID, [][]byte{[]byte(seed), signer.Bytes()})
}
