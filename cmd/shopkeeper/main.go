package main

import (
	"os"

	"github.com/rustyeddy/shopkeeper/cmd/shopkeeper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
