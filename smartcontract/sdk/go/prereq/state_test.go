package prereq_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/prereq/smartcontract/sdk/go/prereq"
	"github.com/stretchr/testify/require"
)

func prereqAccountData(github string, key solana.PublicKey) []byte {
	data := append([]byte{}, prereq.DiscriminatorPrereqAccount[:]...)
	n := len(github)
	data = append(data, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	data = append(data, github...)
	return append(data, key[:]...)
}

func TestSDK_Prereq_DeserializePrereqAccount(t *testing.T) {
	t.Parallel()

	acct, err := prereq.DeserializePrereqAccount(prereqAccountData("alice", turbin3Signer))
	require.NoError(t, err)
	require.Equal(t, "alice", acct.GithubUsername())
	require.Equal(t, turbin3Signer, acct.Key)
}

func TestSDK_Prereq_PrereqAccount_Serialize(t *testing.T) {
	t.Parallel()

	acct := &prereq.PrereqAccount{Github: []byte("alice"), Key: turbin3Signer}
	data, err := acct.Serialize()
	require.NoError(t, err)
	require.Equal(t, prereqAccountData("alice", turbin3Signer), data)
}

func TestSDK_Prereq_DeserializePrereqAccount_Invalid(t *testing.T) {
	t.Parallel()

	t.Run("too short", func(t *testing.T) {
		t.Parallel()

		_, err := prereq.DeserializePrereqAccount([]byte{1, 2, 3})
		require.ErrorIs(t, err, prereq.ErrInvalidDiscriminator)
	})

	t.Run("wrong discriminator", func(t *testing.T) {
		t.Parallel()

		data := prereqAccountData("alice", turbin3Signer)
		data[0] ^= 0xff
		_, err := prereq.DeserializePrereqAccount(data)
		require.ErrorIs(t, err, prereq.ErrInvalidDiscriminator)
	})

	t.Run("truncated body", func(t *testing.T) {
		t.Parallel()

		data := prereqAccountData("alice", turbin3Signer)
		_, err := prereq.DeserializePrereqAccount(data[:len(data)-10])
		require.Error(t, err)
	})
}
