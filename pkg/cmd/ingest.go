package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/pkumar26/adx-runbook/pkg/consts"
	"github.com/pkumar26/adx-runbook/pkg/ingestion"
	"github.com/urfave/cli/v3"
)

// ingestLocal creates the ingest-local command, which queues a local CSV or
// JSON file into the staging table.
//
// Example usage:
//
//	adx-runbook ingest-local \
//	  --cluster https://adx-ft-dev.eastus2.kusto.windows.net \
//	  --ingest-uri https://ingest-adx-ft-dev.eastus2.kusto.windows.net \
//	  --database ftevents_dev \
//	  --file samples/sample-events.csv
func ingestLocal() *cli.Command {
	return &cli.Command{
		Name:  "ingest-local",
		Usage: "Ingest a local CSV/JSON file into the staging table",
		Description: `Queue a local file for ingestion into the staging table. The format is
detected from the file extension (.csv, .json, .jsonl) unless --format is
given; the ingestion mapping defaults to the one setup created for that
format. Rows land asynchronously and flow to the target table through the
update policy within 1-3 minutes.`,
		Flags: append(ingestFlags(),
			&cli.StringFlag{
				Name:  "file",
				Usage: "path to the local CSV or JSON file",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runIngestLocal(ctx, cmd)
		},
	}
}

// ingestBlob creates the ingest-blob command, which queues a blob already
// hosted in Azure Storage. SAS-signed URIs are fine; the query string is
// ignored when inferring the format.
//
// Example usage:
//
//	adx-runbook ingest-blob \
//	  --cluster https://adx-ft-dev.eastus2.kusto.windows.net \
//	  --ingest-uri https://ingest-adx-ft-dev.eastus2.kusto.windows.net \
//	  --database ftevents_dev \
//	  --blob-uri "https://stfteventsdev.blob.core.windows.net/file-transfer-events/data.json"
func ingestBlob() *cli.Command {
	return &cli.Command{
		Name:  "ingest-blob",
		Usage: "Ingest a blob from Azure Storage into the staging table",
		Description: `Queue a blob for ingestion into the staging table. The format is detected
from the blob URI extension (query string excluded) unless --format is
given. The blob is read by the service directly; nothing is downloaded
locally.`,
		Flags: append(ingestFlags(),
			&cli.StringFlag{
				Name:  "blob-uri",
				Usage: "Azure Blob Storage URI for the file to ingest",
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runIngestBlob(ctx, cmd)
		},
	}
}

func runIngestLocal(ctx context.Context, cmd *cli.Command) error {
	conn, err := resolveConnection(cmd, true)
	if err != nil {
		return err
	}

	file := cmd.String("file")
	if file == "" {
		return errors.New("--file is required")
	}
	if _, err := os.Stat(file); err != nil {
		if os.IsNotExist(err) {
			return errors.Errorf("file not found: %s", file)
		}
		return errors.Wrapf(err, "failed to stat %s", file)
	}

	req, err := buildRequest(cmd, file)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Writer, "Ingesting %s into %s...\n", file, consts.StagingTable)
	fmt.Fprintf(cmd.Writer, "  Format: %s, Mapping: %s\n", req.Format, req.Mapping)
	fmt.Fprintf(cmd.Writer, "  Ingest URI: %s\n", conn.ingestURI)

	return submit(ctx, cmd, conn, req)
}

func runIngestBlob(ctx context.Context, cmd *cli.Command) error {
	conn, err := resolveConnection(cmd, true)
	if err != nil {
		return err
	}

	blobURI := cmd.String("blob-uri")
	if blobURI == "" {
		return errors.New("--blob-uri is required for blob ingestion")
	}

	req, err := buildRequest(cmd, blobURI)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.Writer, "Ingesting blob into %s...\n", consts.StagingTable)
	fmt.Fprintf(cmd.Writer, "  Blob: %s\n", blobURI)
	fmt.Fprintf(cmd.Writer, "  Format: %s, Mapping: %s\n", req.Format, req.Mapping)

	return submit(ctx, cmd, conn, req)
}

// buildRequest resolves format and mapping for a source before any client
// is constructed, so unresolvable input never reaches the network.
func buildRequest(cmd *cli.Command, source string) (ingestion.Request, error) {
	format, err := ingestion.Resolve(source, cmd.String("format"))
	if err != nil {
		return ingestion.Request{}, err
	}

	return ingestion.Request{
		Source:  source,
		Format:  format,
		Mapping: ingestion.MappingFor(format, cmd.String("mapping")),
	}, nil
}

func submit(ctx context.Context, cmd *cli.Command, conn *connection, req ingestion.Request) error {
	client, err := newClient(conn.ingestURI, conn)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	ingestor, err := ingestion.NewIngestor(client, conn.database)
	if err != nil {
		return err
	}
	defer func() { _ = ingestor.Close() }()

	if err := ingestor.Submit(ctx, req); err != nil {
		return err
	}

	slog.Info("Ingestion queued", "source", req.Source, "format", req.Format, "mapping", req.Mapping)

	fmt.Fprintln(cmd.Writer)
	fmt.Fprintf(cmd.Writer, "Ingestion queued successfully. Data flows through the staging table and "+
		"update policy. Allow 1-3 minutes for rows to appear in %s.\n", consts.TargetTable)

	return nil
}
