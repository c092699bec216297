// Package ingestion submits CSV/JSON sources to the cluster's queued
// ingestion endpoint, landing rows in the staging table. Submission is
// fire-and-forget: the service batches and loads asynchronously, then the
// update policy propagates rows into the target table, typically within
// 1-3 minutes.
package ingestion

import (
	"context"

	"github.com/Azure/azure-kusto-go/kusto/ingest"
	"github.com/pkg/errors"
	"github.com/pkumar26/adx-runbook/pkg/adx"
	"github.com/pkumar26/adx-runbook/pkg/consts"
)

type (
	// Request describes one ingestion submission. Source is either a local
	// file path or a blob URI; the SDK dispatches on which it is.
	Request struct {
		// Source is the local path or blob URI to ingest.
		Source string

		// Format is the resolved wire format.
		Format Format

		// Mapping is the ingestion mapping reference to parse rows with.
		Mapping string
	}

	// Ingestor queues ingestion requests into the staging table of one
	// database.
	Ingestor struct {
		in queuedIngestor
	}

	// queuedIngestor is the slice of *ingest.Ingestion the Ingestor uses.
	queuedIngestor interface {
		FromFile(ctx context.Context, fPath string, options ...ingest.FileOption) (*ingest.Result, error)
		Close() error
	}
)

// NewIngestor creates a queued ingestor bound to the staging table. The
// client must have been built against the cluster's ingestion URI, not the
// query URI.
func NewIngestor(client *adx.Client, database string) (*Ingestor, error) {
	in, err := ingest.New(client.Inner(), database, consts.StagingTable)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create queued ingest client")
	}

	return &Ingestor{in: in}, nil
}

// Close releases the ingestion client.
func (i *Ingestor) Close() error {
	return i.in.Close()
}

// Submit enqueues one ingestion request and returns as soon as the service
// has accepted it. CSV submissions instruct the service to drop the header
// row; JSON submissions do not. Submission failures are fatal to the
// caller and are never retried here.
func (i *Ingestor) Submit(ctx context.Context, req Request) error {
	format := ingest.CSV
	if req.Format == FormatJSON {
		format = ingest.JSON
	}

	options := []ingest.FileOption{
		ingest.FileFormat(format),
		ingest.IngestionMappingRef(req.Mapping, format),
	}
	if req.Format == FormatCSV {
		options = append(options, ingest.IgnoreFirstRecord())
	}

	if _, err := i.in.FromFile(ctx, req.Source, options...); err != nil {
		return errors.Wrapf(err, "failed to queue ingestion of %s", req.Source)
	}

	return nil
}
