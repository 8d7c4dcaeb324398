package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/foreman/foreman/pkg/cli"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := cli.ExecuteWithVersion(version); err != nil {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.RedString("[Foreman]"), err)
		os.Exit(1)
	}
}
