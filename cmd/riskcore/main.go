package main

import (
	"os"

	"github.com/tradekit/riskcore/cmd/riskcore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
