package prereq

// PDA seeds for the prereq program.
const (
	// PrereqSeed is the seed literal of the current enrollment flow.
	PrereqSeed = "prereq"
	// LegacyPrereqSeed is the seed literal used by the earlier enrollment flow. Which of the two
	// the deployed program expects is owned by the program configuration, not this client.
	LegacyPrereqSeed = "preQ225"
)

// Instruction and account names as declared in the program IDL.
const (
	CompleteInstructionName = "complete"
	PrereqAccountName       = "PrereqAccount"

	AccountNameSigner        = "signer"
	AccountNamePrereq        = "prereq"
	AccountNameSystemAccount = "systemAccount"

	ArgNameGithub = "github"
)

// Limits
const (
	// MaxSeeds is the maximum number of caller seeds; one slot is reserved for the bump.
	MaxSeeds      = 15
	MaxSeedLength = 32
)
