package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tef/peg/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}
	// commands report their own failures; anything else is a usage error
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "peg:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
