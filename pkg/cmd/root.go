package cmd

import (
	"context"
	"os"

	"github.com/pkumar26/adx-runbook/pkg/config"
	"github.com/pkumar26/adx-runbook/pkg/consts"
	"github.com/urfave/cli/v3"
)

var currentConfig *config.Config

// Run creates and executes the main adx-runbook CLI application with the
// given version and command-line arguments.
//
// The application looks for an optional runbook.yaml (overridable with
// --config or ADX_RUNBOOK_CONFIG) supplying defaults for the connection
// flags. A missing config file is fine; every value can be passed as a
// flag. When the file names a CA bundle and SSL_CERT_FILE is not already
// set, it is exported before any connection is made so TLS works in
// environments without a system bundle.
//
// Example usage:
//
//	err := Run(ctx, "v1.0.0", []string{"adx-runbook", "setup",
//		"--cluster", "https://adx-ft-dev.eastus2.kusto.windows.net",
//		"--database", "ftevents_dev"})
func Run(ctx context.Context, version string, args []string) error {
	app := &cli.Command{
		Name:  "adx-runbook",
		Usage: "Set up, ingest into, and verify the file-transfer analytics pipeline",
		Description: `adx-runbook is a developer CLI for the Azure Data Explorer file-transfer
analytics pipeline. It provisions the same tables, mappings, policies, and
materialized view as the production Event Grid pipeline, queues CSV/JSON
data into the staging table, and verifies that rows have flowed through the
update policy into the target table.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "the runbook config file",
				Sources: cli.EnvVars("ADX_RUNBOOK_CONFIG"),
				Value:   consts.DefaultConfigFile,
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			path := cmd.String("config")

			if _, err := os.Stat(path); os.IsNotExist(err) {
				return ctx, nil
			} else if err != nil {
				return ctx, err
			}

			cfg, err := config.LoadConfigFile(path)
			if err != nil {
				return ctx, err
			}
			currentConfig = cfg

			if cfg.CertFile != "" && os.Getenv("SSL_CERT_FILE") == "" {
				if err := os.Setenv("SSL_CERT_FILE", cfg.CertFile); err != nil {
					return ctx, err
				}
			}

			return ctx, nil
		},
		Commands: []*cli.Command{
			setup(),
			ingestLocal(),
			ingestBlob(),
			verifyCmd(),
		},
	}

	return app.Run(ctx, args)
}
