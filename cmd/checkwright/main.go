package main

import (
	"os"

	"github.com/checkwright/checkwright/cmd/checkwright/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
