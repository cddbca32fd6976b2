package main

import (
	"os"

	"github.com/taskdeck/taskdeck/cmd/cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
