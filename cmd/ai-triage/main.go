package main

import (
	"os"

	"github.com/triagelab/ai-triage/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
