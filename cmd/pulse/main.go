package main

import (
	"os"

	"github.com/grovetools/pulse/cli"
	"github.com/grovetools/pulse/cmd"
)

func main() {
	os.Exit(cli.Execute(cmd.NewRootCmd()))
}
