package prereq

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// BuildInstruction builds an instruction from its schema. Accounts are placed in schema order
// with the schema's role flags; args are borsh-encoded in schema order after the discriminator.
func BuildInstruction(
	programID solana.PublicKey,
	schema *InstructionSchema,
	accounts map[string]solana.PublicKey,
	args map[string]any,
) (solana.Instruction, error) {
	if programID.IsZero() {
		return nil, ErrNoProgramID
	}

	data, err := EncodeInstructionData(schema, args)
	if err != nil {
		return nil, err
	}

	for name := range accounts {
		if !hasAccount(schema, name) {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnexpectedAccount, schema.Name, name)
		}
	}
	metas := make(solana.AccountMetaSlice, 0, len(schema.Accounts))
	for _, acct := range schema.Accounts {
		// The zero key is valid here: it is the system program ID.
		pk, ok := accounts[acct.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrMissingAccount, schema.Name, acct.Name)
		}
		metas = append(metas, &solana.AccountMeta{
			PublicKey:  pk,
			IsSigner:   acct.IsSigner,
			IsWritable: acct.IsMut,
		})
	}

	return &solana.GenericInstruction{
		ProgID:        programID,
		AccountValues: metas,
		DataBytes:     data,
	}, nil
}

// EncodeInstructionData returns the discriminator followed by the borsh encoding of args.
func EncodeInstructionData(schema *InstructionSchema, args map[string]any) ([]byte, error) {
	for name := range args {
		if !hasArg(schema, name) {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnexpectedArg, schema.Name, name)
		}
	}

	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	disc := schema.Discriminator()
	if err := enc.WriteBytes(disc[:], false); err != nil {
		return nil, fmt.Errorf("failed to encode discriminator: %w", err)
	}
	for _, field := range schema.Args {
		v, ok := args[field.Name]
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrMissingArg, schema.Name, field.Name)
		}
		if err := encodeArg(enc, field, v); err != nil {
			return nil, fmt.Errorf("failed to encode %s.%s: %w", schema.Name, field.Name, err)
		}
	}
	return buf.Bytes(), nil
}

func encodeArg(enc *bin.Encoder, field FieldSchema, v any) error {
	invalid := func() error {
		return fmt.Errorf("%w: want %s, got %T", ErrInvalidArgValue, field.Type, v)
	}
	switch field.Type {
	case ArgTypeBytes:
		switch b := v.(type) {
		case []byte:
			return writeLengthPrefixed(enc, b)
		case string:
			return writeLengthPrefixed(enc, []byte(b))
		}
		return invalid()
	case ArgTypeString:
		s, ok := v.(string)
		if !ok {
			return invalid()
		}
		return writeLengthPrefixed(enc, []byte(s))
	case ArgTypeBool:
		b, ok := v.(bool)
		if !ok {
			return invalid()
		}
		return enc.WriteBool(b)
	case ArgTypeU8:
		n, ok := v.(uint8)
		if !ok {
			return invalid()
		}
		return enc.WriteUint8(n)
	case ArgTypeU16:
		n, ok := v.(uint16)
		if !ok {
			return invalid()
		}
		return enc.WriteUint16(n, binary.LittleEndian)
	case ArgTypeU32:
		n, ok := v.(uint32)
		if !ok {
			return invalid()
		}
		return enc.WriteUint32(n, binary.LittleEndian)
	case ArgTypeU64:
		n, ok := v.(uint64)
		if !ok {
			return invalid()
		}
		return enc.WriteUint64(n, binary.LittleEndian)
	case ArgTypePublicKey:
		pk, ok := v.(solana.PublicKey)
		if !ok {
			return invalid()
		}
		return enc.WriteBytes(pk[:], false)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedArgType, field.Type)
}

// writeLengthPrefixed writes a u32 little-endian length followed by the raw bytes.
func writeLengthPrefixed(enc *bin.Encoder, b []byte) error {
	if uint64(len(b)) > math.MaxUint32 {
		return fmt.Errorf("%w: length %d exceeds u32", ErrInvalidArgValue, len(b))
	}
	if err := enc.WriteUint32(uint32(len(b)), binary.LittleEndian); err != nil {
		return err
	}
	return enc.WriteBytes(b, false)
}

func hasAccount(schema *InstructionSchema, name string) bool {
	for _, a := range schema.Accounts {
		if a.Name == name {
			return true
		}
	}
	return false
}

func hasArg(schema *InstructionSchema, name string) bool {
	for _, a := range schema.Args {
		if a.Name == name {
			return true
		}
	}
	return false
}
