package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/malbeclabs/prereq/cli/internal/cli"
)

var (
	// Set by LDFLAGS
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Optional; SOLANA_RPC_URL and PREREQ_PROGRAM_ID may also come from the environment.
	_ = godotenv.Load()

	os.Exit(int(cli.Run(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	})))
}
