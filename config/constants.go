package config

const (
	// Solana RPC endpoints.
	MainnetSolanaRPC  = "https://api.mainnet-beta.solana.com"
	TestnetSolanaRPC  = "https://api.testnet.solana.com"
	DevnetSolanaRPC   = "https://api.devnet.solana.com"
	LocalnetSolanaRPC = "http://localhost:8899"

	// Turbin3 prerequisite program. The same program id is used on every cluster it is deployed to.
	PrereqProgramID = "ADcaide4vBtKuyZQqdU689YqEGZMCmS4tL35bdTv9wJa"

	// Turbin3 recipient for prerequisite transfers.
	Turbin3RecipientPK = "5QpPAVrQE5aZzd9sS5pWMoXuqngGqrWUFNLcWqDCmhzT"

	// ExplorerBaseURL is the block explorer used for transaction and address links.
	ExplorerBaseURL = "https://explorer.solana.com"
)
