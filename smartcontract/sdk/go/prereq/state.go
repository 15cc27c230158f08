package prereq

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/near/borsh-go"
)

// PrereqAccount is the enrollment record the program writes on "complete".
type PrereqAccount struct {
	Github []byte           // 4-byte length prefix + raw bytes
	Key    solana.PublicKey // 32 bytes, the signer that completed
}

func (a *PrereqAccount) GithubUsername() string {
	return string(a.Github)
}

// Serialize returns the account data as stored on chain, discriminator included.
func (a *PrereqAccount) Serialize() ([]byte, error) {
	body, err := borsh.Serialize(*a)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize prereq account: %w", err)
	}
	data := make([]byte, 0, discriminatorSize+len(body))
	data = append(data, DiscriminatorPrereqAccount[:]...)
	return append(data, body...), nil
}

func DeserializePrereqAccount(data []byte) (*PrereqAccount, error) {
	if err := validateDiscriminator(data, DiscriminatorPrereqAccount); err != nil {
		return nil, err
	}
	var acct PrereqAccount
	if err := borsh.Deserialize(&acct, data[discriminatorSize:]); err != nil {
		return nil, fmt.Errorf("failed to deserialize prereq account: %w", err)
	}
	return &acct, nil
}
