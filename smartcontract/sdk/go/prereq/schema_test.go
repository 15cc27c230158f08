package prereq_test

import (
	"testing"

	"github.com/malbeclabs/prereq/smartcontract/sdk/go/prereq"
	"github.com/stretchr/testify/require"
)

func TestSDK_Prereq_DefaultIDL(t *testing.T) {
	t.Parallel()

	idl, err := prereq.DefaultIDL()
	require.NoError(t, err)
	require.Equal(t, testProgramID, idl.ProgramID())

	ix, err := idl.Instruction(prereq.CompleteInstructionName)
	require.NoError(t, err)
	require.Equal(t, []prereq.AccountSchema{
		{Name: prereq.AccountNameSigner, IsMut: true, IsSigner: true},
		{Name: prereq.AccountNamePrereq, IsMut: true},
		{Name: prereq.AccountNameSystemAccount},
	}, ix.Accounts)
	require.Equal(t, []prereq.FieldSchema{{Name: prereq.ArgNameGithub, Type: prereq.ArgTypeBytes}}, ix.Args)
	require.Equal(t, prereq.DiscriminatorComplete, ix.Discriminator())

	acct, err := idl.AccountType(prereq.PrereqAccountName)
	require.NoError(t, err)
	require.Equal(t, prereq.DiscriminatorPrereqAccount, acct.Discriminator())

	_, err = idl.Instruction("enroll")
	require.ErrorIs(t, err, prereq.ErrUnknownInstruction)
	_, err = idl.AccountType("Enrollment")
	require.ErrorIs(t, err, prereq.ErrUnknownAccountType)
}

func TestSDK_Prereq_DefaultIDL_ReturnsCopy(t *testing.T) {
	t.Parallel()

	idl, err := prereq.DefaultIDL()
	require.NoError(t, err)
	idl.Instructions[0].Name = "mutated"

	fresh, err := prereq.DefaultIDL()
	require.NoError(t, err)
	_, err = fresh.Instruction(prereq.CompleteInstructionName)
	require.NoError(t, err)
}

func TestSDK_Prereq_ParseIDL_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name:    "malformed json",
			data:    `{"name":`,
			wantErr: prereq.ErrInvalidIDL,
		},
		{
			name:    "missing name",
			data:    `{"instructions":[{"name":"complete"}]}`,
			wantErr: prereq.ErrInvalidIDL,
		},
		{
			name:    "no instructions",
			data:    `{"name":"p","instructions":[]}`,
			wantErr: prereq.ErrInvalidIDL,
		},
		{
			name:    "duplicate instruction",
			data:    `{"name":"p","instructions":[{"name":"a"},{"name":"a"}]}`,
			wantErr: prereq.ErrInvalidIDL,
		},
		{
			name:    "duplicate account",
			data:    `{"name":"p","instructions":[{"name":"a","accounts":[{"name":"x"},{"name":"x"}]}]}`,
			wantErr: prereq.ErrInvalidIDL,
		},
		{
			name:    "unsupported arg type",
			data:    `{"name":"p","instructions":[{"name":"a","args":[{"name":"v","type":"f64"}]}]}`,
			wantErr: prereq.ErrUnsupportedArgType,
		},
		{
			name:    "bad metadata address",
			data:    `{"name":"p","instructions":[{"name":"a"}],"metadata":{"address":"not-a-key"}}`,
			wantErr: prereq.ErrInvalidIDL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := prereq.ParseIDL([]byte(tt.data))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
