package main

import (
	"os"

	"github.com/vetbridge/vetbridge/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
