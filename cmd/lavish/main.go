package main

import (
	"os"

	"lavish/cmd/lavish/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
