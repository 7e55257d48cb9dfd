// Command recall is a personal memory assistant. It keeps an embedded
// index of observations about the user and answers questions grounded
// in them.
package main

import (
	"os"

	"github.com/recall-labs/recall-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
