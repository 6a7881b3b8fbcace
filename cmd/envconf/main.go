// Package main implements envconf, a command that loads a prefix-scoped
// section of the environment and prints a masked view of it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/envbase/internal/config"
	"github.com/phrazzld/envbase/internal/redact"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, config.OSEnviron{}); err != nil {
		os.Exit(1)
	}
}

// run executes the command line described by args. Failures are reported on
// errOut, through the command logger once it exists.
func run(args []string, out, errOut io.Writer, env config.Environ) error {
	a := &app{out: out, errOut: errOut, env: env}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	err := cmd.ExecuteContext(context.Background())
	if err == nil {
		return nil
	}
	if a.log != nil {
		a.log.Error("command failed", "error", err)
	} else {
		fmt.Fprintf(errOut, "Error: %s\n", redact.Error(err))
	}
	return err
}
