package prereq

import (
	"crypto/sha256"
	"errors"
	"fmt"
)

const discriminatorSize = 8

var (
	DiscriminatorComplete      = InstructionDiscriminator(CompleteInstructionName)
	DiscriminatorPrereqAccount = AccountDiscriminator(PrereqAccountName)

	ErrInvalidDiscriminator = errors.New("invalid account discriminator")
)

// InstructionDiscriminator returns the 8-byte selector of an instruction, sha256("global:<name>")[:8].
func InstructionDiscriminator(name string) [8]byte {
	return sha256First8("global:" + name)
}

// AccountDiscriminator returns the 8-byte prefix of an account, sha256("account:<Name>")[:8].
func AccountDiscriminator(name string) [8]byte {
	return sha256First8("account:" + name)
}

func sha256First8(s string) [8]byte {
	h := sha256.Sum256([]byte(s))
	var disc [8]byte
	copy(disc[:], h[:8])
	return disc
}

func validateDiscriminator(data []byte, expected [8]byte) error {
	if len(data) < discriminatorSize {
		return fmt.Errorf("%w: data too short", ErrInvalidDiscriminator)
	}
	var got [8]byte
	copy(got[:], data[:8])
	if got != expected {
		return fmt.Errorf("%w: got %x, want %x", ErrInvalidDiscriminator, got, expected)
	}
	return nil
}
