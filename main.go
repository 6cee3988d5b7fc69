package main

import (
	"os"

	"github.com/lockstep-sim/lockstep/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
