package config

import (
	"fmt"
	"net/url"

	"github.com/gagliardetto/solana-go"
)

// ExplorerTransactionURL returns the explorer link for a transaction signature.
func (c *NetworkConfig) ExplorerTransactionURL(sig solana.Signature) string {
	return explorerURL("tx", sig.String(), c)
}

// ExplorerAddressURL returns the explorer link for an account address.
func (c *NetworkConfig) ExplorerAddressURL(pk solana.PublicKey) string {
	return explorerURL("address", pk.String(), c)
}

func explorerURL(kind, id string, c *NetworkConfig) string {
	u := fmt.Sprintf("%s/%s/%s", ExplorerBaseURL, kind, id)
	cluster := c.ExplorerCluster()
	if cluster == "" {
		return u
	}
	q := url.Values{}
	q.Set("cluster", cluster)
	if cluster == "custom" {
		q.Set("customUrl", c.SolanaRPCURL)
	}
	return u + "?" + q.Encode()
}
