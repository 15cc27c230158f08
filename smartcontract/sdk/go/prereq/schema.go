package prereq

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

//go:embed idl/turbin3_prereq.json
var defaultIDLJSON []byte

var (
	ErrInvalidIDL          = errors.New("invalid IDL")
	ErrUnknownInstruction  = errors.New("unknown instruction")
	ErrUnknownAccountType  = errors.New("unknown account type")
	ErrUnsupportedArgType  = errors.New("unsupported arg type")
	ErrMissingAccount      = errors.New("missing account")
	ErrUnexpectedAccount   = errors.New("unexpected account")
	ErrMissingArg          = errors.New("missing arg")
	ErrUnexpectedArg       = errors.New("unexpected arg")
	ErrInvalidArgValue     = errors.New("invalid arg value")
	errDuplicateIDLEntries = errors.New("duplicate entry")
)

// ArgType is the borsh type name of an instruction arg or account field.
type ArgType string

const (
	ArgTypeBytes     ArgType = "bytes"
	ArgTypeString    ArgType = "string"
	ArgTypeBool      ArgType = "bool"
	ArgTypeU8        ArgType = "u8"
	ArgTypeU16       ArgType = "u16"
	ArgTypeU32       ArgType = "u32"
	ArgTypeU64       ArgType = "u64"
	ArgTypePublicKey ArgType = "publicKey"
)

func (t ArgType) Valid() bool {
	switch t {
	case ArgTypeBytes, ArgTypeString, ArgTypeBool, ArgTypeU8, ArgTypeU16, ArgTypeU32, ArgTypeU64, ArgTypePublicKey:
		return true
	}
	return false
}

// IDL is the declarative description of a program's instructions and accounts.
type IDL struct {
	Version      string              `json:"version"`
	Name         string              `json:"name"`
	Instructions []InstructionSchema `json:"instructions"`
	Accounts     []AccountTypeSchema `json:"accounts"`
	Metadata     IDLMetadata         `json:"metadata"`
}

type IDLMetadata struct {
	Address string `json:"address"`
}

type InstructionSchema struct {
	Name     string          `json:"name"`
	Accounts []AccountSchema `json:"accounts"`
	Args     []FieldSchema   `json:"args"`
}

// AccountSchema declares one account reference of an instruction, in position order.
type AccountSchema struct {
	Name     string `json:"name"`
	IsMut    bool   `json:"isMut"`
	IsSigner bool   `json:"isSigner"`
}

type FieldSchema struct {
	Name string  `json:"name"`
	Type ArgType `json:"type"`
}

type AccountTypeSchema struct {
	Name string `json:"name"`
	Type struct {
		Kind   string        `json:"kind"`
		Fields []FieldSchema `json:"fields"`
	} `json:"type"`
}

// DefaultIDL returns a freshly parsed copy of the embedded Turbin3 prereq program IDL.
func DefaultIDL() (*IDL, error) {
	return ParseIDL(defaultIDLJSON)
}

func ParseIDL(data []byte) (*IDL, error) {
	var idl IDL
	if err := json.Unmarshal(data, &idl); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidIDL, err)
	}
	if err := idl.Validate(); err != nil {
		return nil, err
	}
	return &idl, nil
}

func (idl *IDL) Validate() error {
	if idl.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidIDL)
	}
	if len(idl.Instructions) == 0 {
		return fmt.Errorf("%w: at least one instruction is required", ErrInvalidIDL)
	}
	seen := make(map[string]struct{}, len(idl.Instructions))
	for _, ix := range idl.Instructions {
		if ix.Name == "" {
			return fmt.Errorf("%w: instruction name is required", ErrInvalidIDL)
		}
		if _, ok := seen[ix.Name]; ok {
			return fmt.Errorf("%w: %w: instruction %q", ErrInvalidIDL, errDuplicateIDLEntries, ix.Name)
		}
		seen[ix.Name] = struct{}{}
		if err := validateNames(ix.Name, accountNames(ix.Accounts)); err != nil {
			return err
		}
		if err := validateFields(ix.Name, ix.Args); err != nil {
			return err
		}
	}
	for _, acct := range idl.Accounts {
		if acct.Name == "" {
			return fmt.Errorf("%w: account type name is required", ErrInvalidIDL)
		}
		if err := validateFields(acct.Name, acct.Type.Fields); err != nil {
			return err
		}
	}
	if idl.Metadata.Address != "" {
		if _, err := solana.PublicKeyFromBase58(idl.Metadata.Address); err != nil {
			return fmt.Errorf("%w: metadata address: %w", ErrInvalidIDL, err)
		}
	}
	return nil
}

// ProgramID returns the program address declared in the IDL metadata, or the zero key if none.
func (idl *IDL) ProgramID() solana.PublicKey {
	if idl.Metadata.Address == "" {
		return solana.PublicKey{}
	}
	pk, err := solana.PublicKeyFromBase58(idl.Metadata.Address)
	if err != nil {
		return solana.PublicKey{}
	}
	return pk
}

func (idl *IDL) Instruction(name string) (*InstructionSchema, error) {
	for i := range idl.Instructions {
		if idl.Instructions[i].Name == name {
			return &idl.Instructions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownInstruction, name)
}

func (idl *IDL) AccountType(name string) (*AccountTypeSchema, error) {
	for i := range idl.Accounts {
		if idl.Accounts[i].Name == name {
			return &idl.Accounts[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAccountType, name)
}

func (s *InstructionSchema) Discriminator() [8]byte {
	return InstructionDiscriminator(s.Name)
}

func (s *AccountTypeSchema) Discriminator() [8]byte {
	return AccountDiscriminator(s.Name)
}

func accountNames(accounts []AccountSchema) []string {
	names := make([]string, 0, len(accounts))
	for _, a := range accounts {
		names = append(names, a.Name)
	}
	return names
}

func validateNames(owner string, names []string) error {
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name == "" {
			return fmt.Errorf("%w: %s: empty name", ErrInvalidIDL, owner)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: %w: %s.%s", ErrInvalidIDL, errDuplicateIDLEntries, owner, name)
		}
		seen[name] = struct{}{}
	}
	return nil
}

func validateFields(owner string, fields []FieldSchema) error {
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if !f.Type.Valid() {
			return fmt.Errorf("%w: %w: %s.%s has type %q", ErrInvalidIDL, ErrUnsupportedArgType, owner, f.Name, f.Type)
		}
		names = append(names, f.Name)
	}
	return validateNames(owner, names)
}
