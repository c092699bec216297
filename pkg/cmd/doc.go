// Package cmd provides the CLI commands for the adx-runbook tool.
//
// The runbook exposes four commands, each a single linear sequence of
// remote calls with no state shared between invocations:
//
//   - setup: provision the schema object chain in dependency order
//   - ingest-local: queue a local CSV/JSON file into the staging table
//   - ingest-blob: queue an Azure Storage blob into the staging table
//   - verify: read back recent target-table rows and sanity-check them
//
// Each command is implemented as a separate function returning a
// *cli.Command, following the urfave/cli/v3 pattern. Connection flags are
// shared across commands and may be defaulted from an optional runbook.yaml
// config file; flags always win over the file. All validation of user
// input (required flags, format resolution, service-principal credentials)
// happens before any network call, so bad input never reaches the service.
//
// Errors bubble to the binary's main, which prints a one-line diagnostic
// to stderr and exits non-zero. No partial-state rollback is attempted
// anywhere; the setup sequence is idempotent and safely resumable instead.
package cmd
