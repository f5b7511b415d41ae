// Command scancli runs one scan from the command line and prints the
// result as JSON or the rendered HTML report.
// Usage: go run ./cmd/scancli -target example.com [-email jo@example.com] [-output html]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/scanforge/scanforge/internal/app"
	"github.com/scanforge/scanforge/internal/cli"
	"github.com/scanforge/scanforge/internal/logging"
	"github.com/scanforge/scanforge/internal/model"
)

func main() {
	args, err := cli.ParseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "scancli: %v\n", err)
		os.Exit(2)
	}
	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "scancli: %v\n", err)
		os.Exit(1)
	}
}

func run(args *cli.CLIArgs) error {
	cfg := app.DefaultConfig()
	cfg.DatabasePath = args.DBPath
	if cfg.DatabasePath == "" {
		// No persistence requested: an in-memory database keeps the
		// pipeline wiring identical.
		cfg.DatabasePath = ":memory:"
	}
	cfg.WebClientCfg.Backend = args.Backend

	logger := logging.NewStdoutLogger("scancli")

	application, err := app.NewApplication(cfg, logger)
	if err != nil {
		return err
	}
	defer application.Close()

	lead := model.LeadData{
		Name:    args.Name,
		Email:   args.Email,
		Company: args.Company,
		Phone:   args.Phone,
		Target:  args.Target,
	}
	result := application.Orch.RunScan(context.Background(), lead, nil)

	var out []byte
	switch args.Output {
	case "html":
		if result.CompleteHTMLReportError != "" {
			return fmt.Errorf("report rendering failed: %s", result.CompleteHTMLReportError)
		}
		out = []byte(result.CompleteHTMLReport)
	default:
		out, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
	}

	if args.OutFile != "" {
		return os.WriteFile(args.OutFile, out, 0o644)
	}
	fmt.Println(string(out))
	return nil
}
