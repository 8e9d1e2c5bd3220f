package main

import (
	"os"

	"github.com/KOMKZ/go-yogan-singleton/cmd/singletonctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
