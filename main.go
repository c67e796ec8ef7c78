package main

import (
	"os"

	"github.com/simeonreusch/planobs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
