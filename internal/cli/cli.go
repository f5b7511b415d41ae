// Package cli parses arguments for the one-shot scan runner.
package cli

import (
	"flag"
	"fmt"
	"io"
)

// CLIArgs control a single scan run from the command line.
type CLIArgs struct {
	// Target is the host to scan. Falls back to the Email domain.
	Target string

	// Lead details attached to the scan.
	Name    string
	Email   string
	Company string
	Phone   string

	// DBPath is the SQLite file to persist into. Empty disables
	// persistence.
	DBPath string

	// Backend selects the web client backend (nethttp|chromedp).
	Backend string

	// Output is "json" for the raw result or "html" for the report.
	Output string

	// OutFile writes the output there instead of stdout.
	OutFile string

	// RawArgs is the original args slice (useful for debugging/tests).
	RawArgs []string
}

// ParseArgs parses a slice of args and returns CLIArgs. Use in tests by
// passing arbitrary slices. The function is deterministic and does not
// read os.Args.
func ParseArgs(args []string) (*CLIArgs, error) {
	fs := flag.NewFlagSet("scanforge", flag.ContinueOnError)
	var (
		target  = fs.String("target", "", "Host to scan (defaults to the -email domain)")
		name    = fs.String("name", "", "Lead name")
		email   = fs.String("email", "", "Lead email address")
		company = fs.String("company", "", "Lead company name (drives industry classification)")
		phone   = fs.String("phone", "", "Lead phone number")
		dbPath  = fs.String("db", "", "SQLite database path (empty disables persistence)")
		backend = fs.String("backend", "nethttp", "Web client backend: nethttp|chromedp")
		output  = fs.String("output", "json", "Output format: json|html")
		outFile = fs.String("out", "", "Write output to this file instead of stdout")
	)

	// Ensure Parse doesn't write to stdout/stderr in tests
	fs.SetOutput(io.Discard)

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *target == "" && *email == "" {
		return nil, fmt.Errorf("either -target or -email is required")
	}
	if *output != "json" && *output != "html" {
		return nil, fmt.Errorf("invalid -output %q: want json or html", *output)
	}

	return &CLIArgs{
		Target:  *target,
		Name:    *name,
		Email:   *email,
		Company: *company,
		Phone:   *phone,
		DBPath:  *dbPath,
		Backend: *backend,
		Output:  *output,
		OutFile: *outFile,
		RawArgs: args,
	}, nil
}
