package main

import (
	"os"

	"github.com/mateusz-kow/Auto-Subs/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
