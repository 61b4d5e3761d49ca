package main

import (
	"os"

	"germanlearn/backend/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
