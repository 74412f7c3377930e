package main

import (
	"os"

	"labelprint-service/cmd/labelctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
