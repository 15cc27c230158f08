package wallet

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

const keypairSize = ed25519.PrivateKeySize

var (
	ErrInvalidKeypair = errors.New("invalid keypair")
	ErrKeypairExists  = errors.New("keypair file already exists")
)

// Generate returns a new random keypair.
func Generate() (solana.PrivateKey, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	return key, nil
}

// KeypairToBytes encodes a keypair in the Solana keygen file format, a JSON array of the 64
// secret key bytes.
func KeypairToBytes(key solana.PrivateKey) ([]byte, error) {
	if err := validateKeypair(key); err != nil {
		return nil, err
	}
	ints := make([]int, len(key))
	for i, b := range key {
		ints[i] = int(b)
	}
	out, err := json.Marshal(ints)
	if err != nil {
		return nil, fmt.Errorf("failed to encode keypair: %w", err)
	}
	return out, nil
}

// KeypairFromBytes decodes a keypair from the Solana keygen file format.
func KeypairFromBytes(data []byte) (solana.PrivateKey, error) {
	var ints []int
	if err := json.Unmarshal(bytes.TrimSpace(data), &ints); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeypair, err)
	}
	key := make(solana.PrivateKey, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: byte %d out of range: %d", ErrInvalidKeypair, i, v)
		}
		key[i] = byte(v)
	}
	if err := validateKeypair(key); err != nil {
		return nil, err
	}
	return key, nil
}

// Base58ToBytes converts a base58 encoded secret key, as exported by browser wallets, to its
// 64 raw bytes.
func Base58ToBytes(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKeypair, err)
	}
	if err := validateKeypair(b); err != nil {
		return nil, err
	}
	return b, nil
}

// BytesToBase58 converts 64 raw secret key bytes to base58.
func BytesToBase58(b []byte) (string, error) {
	if err := validateKeypair(b); err != nil {
		return "", err
	}
	return base58.Encode(b), nil
}

// Load reads a Solana keygen file.
func Load(path string) (solana.PrivateKey, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load keypair from %s: %w", path, err)
	}
	if err := validateKeypair(key); err != nil {
		return nil, fmt.Errorf("failed to load keypair from %s: %w", path, err)
	}
	return key, nil
}

// Save writes key to path in the Solana keygen format with owner-only permissions. An existing
// file is only replaced when overwrite is set.
func Save(path string, key solana.PrivateKey, overwrite bool) error {
	data, err := KeypairToBytes(key)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create keypair directory: %w", err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrKeypairExists, path)
		}
		return fmt.Errorf("failed to open keypair file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("failed to write keypair file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close keypair file: %w", err)
	}
	// OpenFile keeps the mode of a file it truncates.
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("failed to set keypair file permissions: %w", err)
	}
	return nil
}

// SignMessage signs an arbitrary message with key.
func SignMessage(key solana.PrivateKey, msg []byte) (solana.Signature, error) {
	if err := validateKeypair(key); err != nil {
		return solana.Signature{}, err
	}
	sig, err := key.Sign(msg)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign message: %w", err)
	}
	return sig, nil
}

// VerifyMessage reports whether sig is a valid signature of msg by pub.
func VerifyMessage(pub solana.PublicKey, msg []byte, sig solana.Signature) bool {
	return sig.Verify(pub, msg)
}

// validateKeypair checks that b is a 64-byte ed25519 keypair whose trailing public key matches
// its seed.
func validateKeypair(b []byte) error {
	if len(b) != keypairSize {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidKeypair, keypairSize, len(b))
	}
	derived := ed25519.NewKeyFromSeed(b[:ed25519.SeedSize])
	if !bytes.Equal(derived[ed25519.SeedSize:], b[ed25519.SeedSize:]) {
		return fmt.Errorf("%w: public key does not match secret key", ErrInvalidKeypair)
	}
	return nil
}
