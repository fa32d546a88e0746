// Command strucdb builds indexed structure databases.
//
//	strucdb createdb [options] <input>... <output prefix>
//
// The exit status is 0 when the databases were written, even if some input
// files could not be parsed, and 1 on invalid usage or any I/O failure while
// writing, finalizing or publishing.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	flags "github.com/jessevdk/go-flags"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := &createDBCommand{ctx: ctx, stderr: stderr}

	parser := flags.NewNamedParser("strucdb", flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.AddCommand("createdb",
		"Create a database from structure files",
		"Ingests structure files (or one directory, searched recursively) and writes "+
			"the sequence, structure-alphabet, header and coordinate databases for the "+
			"output prefix, plus lookup and source tables.",
		cmd,
	); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(stdout, flagsErr.Message)
			return 0
		}
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}
