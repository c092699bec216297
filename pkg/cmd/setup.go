package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pkumar26/adx-runbook/pkg/executor"
	"github.com/pkumar26/adx-runbook/pkg/schema"
	"github.com/urfave/cli/v3"
)

// setup creates the setup command, which provisions the full schema object
// chain: tables, transform function, update policy, ingestion mappings,
// retention and batching policies, and the DailySummary materialized view.
//
// The sequence is idempotent; re-running setup against an already
// provisioned database reports every step as OK or SKIPPED and exits zero.
// A failed run leaves earlier objects in place and is resumed by simply
// running setup again.
//
// Example usage:
//
//	adx-runbook setup \
//	  --cluster https://adx-ft-dev.eastus2.kusto.windows.net \
//	  --database ftevents_dev
func setup() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the full schema object chain (tables, mappings, policies, materialized view)",
		Description: `Provision every schema object the file-transfer analytics pipeline needs,
in dependency order. The objects are identical to the ones the production
Event Grid pipeline uses, so a database set up here is fully compatible
with production consumers.

Steps whose object already exists are skipped; transient network errors are
retried a bounded number of times; any other failure stops the run at that
step and leaves earlier objects applied.`,
		Flags: connFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runSetup(ctx, cmd)
		},
	}
}

func runSetup(ctx context.Context, cmd *cli.Command) error {
	conn, err := resolveConnection(cmd, false)
	if err != nil {
		return err
	}

	client, err := newClient(conn.cluster, conn)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	slog.Info("Starting schema setup", "cluster", conn.cluster, "database", conn.database, "steps", len(schema.Steps))

	fmt.Fprintf(cmd.Writer, "Setting up schema in %s...\n", conn.database)
	fmt.Fprintf(cmd.Writer, "  Cluster: %s\n\n", conn.cluster)

	results, err := executor.New(executor.Config{
		Conn:     client,
		Database: conn.database,
		Out:      cmd.Writer,
	}).Execute(ctx, schema.Steps)
	if err != nil {
		return err
	}

	var skipped int
	for _, result := range results {
		if result.Status == executor.StatusSkipped {
			skipped++
		}
	}

	fmt.Fprintln(cmd.Writer)
	fmt.Fprintln(cmd.Writer, "Setup complete. All tables, mappings, policies, and views are ready.")
	if skipped > 0 {
		fmt.Fprintf(cmd.Writer, "%d step(s) were skipped because their objects already existed.\n", skipped)
	}

	return nil
}
