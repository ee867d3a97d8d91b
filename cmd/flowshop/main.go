package main

import (
	"os"

	"github.com/stasais/flowshop/cmd/flowshop/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
