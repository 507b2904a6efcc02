package main

import (
	"os"

	"github.com/procsim/flowsim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
