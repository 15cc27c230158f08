package config_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/malbeclabs/prereq/config"
	"github.com/stretchr/testify/require"
)

func TestConfig_NetworkConfigForEnv(t *testing.T) {
	programID := solana.MustPublicKeyFromBase58(config.PrereqProgramID)
	recipientPK := solana.MustPublicKeyFromBase58(config.Turbin3RecipientPK)

	tests := []struct {
		env     string
		want    *config.NetworkConfig
		wantErr string
	}{
		{
			env: config.EnvMainnet,
			want: &config.NetworkConfig{
				Moniker:            config.EnvMainnetBeta,
				SolanaRPCURL:       config.MainnetSolanaRPC,
				PrereqProgramID:    programID,
				Turbin3RecipientPK: recipientPK,
			},
		},
		{
			env: config.EnvMainnetBeta,
			want: &config.NetworkConfig{
				Moniker:            config.EnvMainnetBeta,
				SolanaRPCURL:       config.MainnetSolanaRPC,
				PrereqProgramID:    programID,
				Turbin3RecipientPK: recipientPK,
			},
		},
		{
			env: config.EnvTestnet,
			want: &config.NetworkConfig{
				Moniker:            config.EnvTestnet,
				SolanaRPCURL:       config.TestnetSolanaRPC,
				PrereqProgramID:    programID,
				Turbin3RecipientPK: recipientPK,
				AirdropEnabled:     true,
			},
		},
		{
			env: config.EnvDevnet,
			want: &config.NetworkConfig{
				Moniker:            config.EnvDevnet,
				SolanaRPCURL:       config.DevnetSolanaRPC,
				PrereqProgramID:    programID,
				Turbin3RecipientPK: recipientPK,
				AirdropEnabled:     true,
			},
		},
		{
			env: config.EnvLocalnet,
			want: &config.NetworkConfig{
				Moniker:            config.EnvLocalnet,
				SolanaRPCURL:       config.LocalnetSolanaRPC,
				PrereqProgramID:    programID,
				Turbin3RecipientPK: recipientPK,
				AirdropEnabled:     true,
			},
		},
		{
			env:     "invalid",
			wantErr: `invalid environment "invalid", must be one of: mainnet-beta, testnet, devnet`,
		},
	}

	for _, test := range tests {
		t.Run(test.env, func(t *testing.T) {
			got, err := config.NetworkConfigForEnv(test.env)
			if test.wantErr != "" {
				require.ErrorIs(t, err, config.ErrInvalidEnvironment)
				require.Equal(t, test.wantErr, err.Error())
				return
			}
			require.NoError(t, err)
			require.Equal(t, test.want, got)
		})
	}
}

func TestConfig_NetworkConfigForEnv_RPCURLOverrideFromEnvVars(t *testing.T) {
	t.Setenv(config.EnvVarSolanaRPCURL, "https://other-rpc-url.com")
	got, err := config.NetworkConfigForEnv(config.EnvDevnet)
	require.NoError(t, err)
	require.Equal(t, "https://other-rpc-url.com", got.SolanaRPCURL)
}

func TestConfig_NetworkConfigForEnv_ProgramIDOverrideFromEnvVars(t *testing.T) {
	override := solana.NewWallet().PublicKey()
	t.Setenv(config.EnvVarPrereqProgramID, override.String())
	got, err := config.NetworkConfigForEnv(config.EnvDevnet)
	require.NoError(t, err)
	require.Equal(t, override, got.PrereqProgramID)

	t.Setenv(config.EnvVarPrereqProgramID, "not-base58-!!")
	_, err = config.NetworkConfigForEnv(config.EnvDevnet)
	require.ErrorContains(t, err, config.EnvVarPrereqProgramID)
}

func TestConfig_ExplorerURLs(t *testing.T) {
	t.Parallel()

	var sig solana.Signature
	copy(sig[:], []byte("fake-sig-0000000000000000000000000000000"))
	pk := solana.MustPublicKeyFromBase58(config.Turbin3RecipientPK)

	devnet := &config.NetworkConfig{Moniker: config.EnvDevnet, SolanaRPCURL: config.DevnetSolanaRPC}
	require.Equal(t, config.ExplorerBaseURL+"/tx/"+sig.String()+"?cluster=devnet", devnet.ExplorerTransactionURL(sig))
	require.Equal(t, config.ExplorerBaseURL+"/address/"+pk.String()+"?cluster=devnet", devnet.ExplorerAddressURL(pk))

	mainnet := &config.NetworkConfig{Moniker: config.EnvMainnetBeta, SolanaRPCURL: config.MainnetSolanaRPC}
	require.Equal(t, config.ExplorerBaseURL+"/tx/"+sig.String(), mainnet.ExplorerTransactionURL(sig))

	localnet := &config.NetworkConfig{Moniker: config.EnvLocalnet, SolanaRPCURL: config.LocalnetSolanaRPC}
	require.Equal(t,
		config.ExplorerBaseURL+"/tx/"+sig.String()+"?cluster=custom&customUrl=http%3A%2F%2Flocalhost%3A8899",
		localnet.ExplorerTransactionURL(sig),
	)
}
