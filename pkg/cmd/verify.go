package cmd

import (
	"context"
	"fmt"

	"github.com/pkumar26/adx-runbook/pkg/consts"
	"github.com/pkumar26/adx-runbook/pkg/verify"
	"github.com/urfave/cli/v3"
)

// verifyCmd creates the verify command, which queries the target table for
// its most recent rows and reports whether ingested data made it through
// the update policy.
//
// Example usage:
//
//	adx-runbook verify \
//	  --cluster https://adx-ft-dev.eastus2.kusto.windows.net \
//	  --database ftevents_dev
func verifyCmd() *cli.Command {
	return &cli.Command{
		Name:  "verify",
		Usage: "Query the target table and display recent rows to confirm ingestion",
		Description: `Fetch the 20 most recent rows of the target table and render them as a
table, then run two sanity checks over the returned rows: no row may have a
null Timestamp (that would indicate a schema or update-policy defect), and
the Status distribution is summarized for a quick eyeball. An empty result
is not an error; ingestion takes 1-3 minutes to land.`,
		Flags: connFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runVerify(ctx, cmd)
		},
	}
}

func runVerify(ctx context.Context, cmd *cli.Command) error {
	conn, err := resolveConnection(cmd, false)
	if err != nil {
		return err
	}

	client, err := newClient(conn.cluster, conn)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	fmt.Fprintf(cmd.Writer, "Verifying data in %s.%s...\n\n", conn.database, consts.TargetTable)

	report, err := verify.New(client, conn.database).Run(ctx)
	if err != nil {
		return err
	}

	report.Render(cmd.Writer)

	return nil
}
