package main

import (
	"os"

	"github.com/sgpo-tools/pocheck/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
