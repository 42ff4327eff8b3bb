package main

import (
	"os"

	"github.com/gnahuy123/liftSim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
