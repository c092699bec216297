package consts

import "time"

const (
	// TargetTable is the transformed table downstream consumers read.
	TargetTable = "FileTransferEvents"

	// StagingTable is the landing table queued ingestion writes into.
	StagingTable = "FileTransferEvents_Raw"

	// ErrorsTable is the dead-letter table for failed transformations.
	ErrorsTable = "FileTransferEvents_Errors"

	// TransformFunction feeds the update policy from staging to target.
	TransformFunction = "FileTransferEvents_Transform"

	// CSVMapping is the ingestion mapping created for CSV files.
	CSVMapping = "FileTransferEvents_CsvMapping"

	// JSONMapping is the ingestion mapping created for JSON files.
	JSONMapping = "FileTransferEvents_JsonMapping"

	// MaterializedView is the per-day rollup over the target table.
	MaterializedView = "DailySummary"
)

const (
	// DefaultMaxAttempts is the total number of tries for a management
	// command that keeps failing transiently.
	DefaultMaxAttempts = 3

	// DefaultRetryDelay is the fixed wait between retry attempts.
	DefaultRetryDelay = 5 * time.Second
)

const (
	// DefaultConfigFile is the optional per-project config file name.
	DefaultConfigFile = "runbook.yaml"

	// DefaultAuthMethod is used when neither flag nor config chooses one.
	DefaultAuthMethod = "az-cli"
)
