package main

import (
	"os"

	"github.com/itbuildgroup/authproxy-go/cmd/authproxy/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
