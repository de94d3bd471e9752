// Package main is the kundali entrypoint. All behavior lives in the
// command tree under internal/commands.
package main

import (
	"os"

	"github.com/okian/kundali/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
