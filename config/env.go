package config

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
)

const (
	EnvMainnetBeta = "mainnet-beta"
	EnvMainnet     = "mainnet"
	EnvTestnet     = "testnet"
	EnvDevnet      = "devnet"
	EnvLocalnet    = "localnet"

	// Environment variable overrides.
	EnvVarSolanaRPCURL    = "SOLANA_RPC_URL"
	EnvVarPrereqProgramID = "PREREQ_PROGRAM_ID"
)

var (
	ErrInvalidEnvironment = fmt.Errorf("invalid environment")
)

type NetworkConfig struct {
	Moniker            string
	SolanaRPCURL       string
	PrereqProgramID    solana.PublicKey
	Turbin3RecipientPK solana.PublicKey
	// AirdropEnabled reports whether the cluster's faucet accepts airdrop requests.
	AirdropEnabled bool
}

// ExplorerCluster returns the explorer "cluster" query value for the network.
func (c *NetworkConfig) ExplorerCluster() string {
	switch c.Moniker {
	case EnvMainnetBeta:
		return ""
	case EnvLocalnet:
		return "custom"
	default:
		return c.Moniker
	}
}

func NetworkConfigForEnv(env string) (*NetworkConfig, error) {
	programID, err := solana.PublicKeyFromBase58(PrereqProgramID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prereq program ID: %w", err)
	}
	recipientPK, err := solana.PublicKeyFromBase58(Turbin3RecipientPK)
	if err != nil {
		return nil, fmt.Errorf("failed to parse turbin3 recipient PK: %w", err)
	}

	var config *NetworkConfig
	switch env {
	case EnvMainnetBeta, EnvMainnet:
		config = &NetworkConfig{
			Moniker:      EnvMainnetBeta,
			SolanaRPCURL: MainnetSolanaRPC,
		}
	case EnvTestnet:
		config = &NetworkConfig{
			Moniker:        EnvTestnet,
			SolanaRPCURL:   TestnetSolanaRPC,
			AirdropEnabled: true,
		}
	case EnvDevnet:
		config = &NetworkConfig{
			Moniker:        EnvDevnet,
			SolanaRPCURL:   DevnetSolanaRPC,
			AirdropEnabled: true,
		}
	case EnvLocalnet:
		config = &NetworkConfig{
			Moniker:        EnvLocalnet,
			SolanaRPCURL:   LocalnetSolanaRPC,
			AirdropEnabled: true,
		}
	default:
		// We intentionally do not include localnet in the error message.
		return nil, fmt.Errorf("%w %q, must be one of: %s, %s, %s", ErrInvalidEnvironment, env, EnvMainnetBeta, EnvTestnet, EnvDevnet)
	}
	config.PrereqProgramID = programID
	config.Turbin3RecipientPK = recipientPK

	rpcURL := os.Getenv(EnvVarSolanaRPCURL)
	if rpcURL != "" {
		config.SolanaRPCURL = rpcURL
	}

	programIDOverride := os.Getenv(EnvVarPrereqProgramID)
	if programIDOverride != "" {
		pid, err := solana.PublicKeyFromBase58(programIDOverride)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", EnvVarPrereqProgramID, err)
		}
		config.PrereqProgramID = pid
	}

	return config, nil
}
