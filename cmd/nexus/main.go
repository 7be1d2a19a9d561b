package main

import (
	"os"

	"github.com/jrsteele09/nexus-console/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
