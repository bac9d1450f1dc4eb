package main

import (
	"os"

	"github.com/sourcingkit/sourcer/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
