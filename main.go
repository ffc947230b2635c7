package main

import (
	"os"

	"github.com/fivemoreminix/workbench/cmd"
)

// version is set at build time: -ldflags "-X main.version=v1.0.0"
var version = "dev"

func main() {
	cmd.SetVersion(version)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
