// Package schema holds the fixed DDL step sequence for the file-transfer
// analytics pipeline, plus the read query used to verify that ingested data
// has flowed through to the target table.
//
// The statements are identical to the ones the production Event Grid
// pipeline provisions, so a database set up by this tool is bit-for-bit
// compatible with production consumers. Order is significant: the update
// policy requires both tables and the transform function to exist, the
// retention/batching policies require their tables, and the materialized
// view requires the target table.
package schema

// Step is a single named DDL statement. Steps are defined once and never
// mutated; the sequencer executes them in declaration order.
type Step struct {
	// Description is the human-readable progress label for the step.
	Description string

	// Statement is the management command sent to the service verbatim.
	Statement string
}

// Steps is the ordered provisioning sequence. Every statement is written to
// be idempotent on the service side (create-merge, create-or-alter, create
// ifnotexists); anything that still reports "already exists" is treated as
// a skip by the sequencer.
var Steps = []Step{
	{
		Description: "Create target table (FileTransferEvents)",
		Statement: `.create-merge table FileTransferEvents (
    Filename: string,
    SourcePresent: bool,
    TargetPresent: bool,
    SourceLastModifiedUtc: datetime,
    TargetLastModifiedUtc: datetime,
    AgeMinutes: real,
    Status: string,
    Notes: string,
    Timestamp: datetime
)`,
	},
	{
		Description: "Create staging table (FileTransferEvents_Raw)",
		Statement: `.create-merge table FileTransferEvents_Raw (
    Filename: string,
    SourcePresent: bool,
    TargetPresent: bool,
    SourceLastModifiedUtc: datetime,
    TargetLastModifiedUtc: datetime,
    AgeMinutes: real,
    Status: string,
    Notes: string
)`,
	},
	{
		Description: "Create dead-letter table (FileTransferEvents_Errors)",
		Statement: `.create-merge table FileTransferEvents_Errors (
    RawData: string,
    Database: string,
    ['Table']: string,
    FailedOn: datetime,
    Error: string,
    OperationId: guid
)`,
	},
	{
		Description: "Create transformation function",
		Statement: `.create-or-alter function FileTransferEvents_Transform() {
    FileTransferEvents_Raw
    | extend Timestamp = coalesce(SourceLastModifiedUtc, ingestion_time())
    | project Filename, SourcePresent, TargetPresent,
              SourceLastModifiedUtc, TargetLastModifiedUtc,
              AgeMinutes, Status, Notes, Timestamp
}`,
	},
	{
		Description: "Attach update policy",
		Statement: `.alter table FileTransferEvents policy update
@'[{"IsEnabled": true, "Source": "FileTransferEvents_Raw", "Query": "FileTransferEvents_Transform()", "IsTransactional": true, "PropagateIngestionProperties": true}]'`,
	},
	{
		// Mapping bodies must be a single line for management execution.
		Description: "Create CSV ingestion mapping",
		Statement: `.create-or-alter table FileTransferEvents_Raw ingestion csv mapping 'FileTransferEvents_CsvMapping' ` +
			`'[` +
			`{"Name":"Filename","DataType":"string","Ordinal":0},` +
			`{"Name":"SourcePresent","DataType":"bool","Ordinal":1},` +
			`{"Name":"TargetPresent","DataType":"bool","Ordinal":2},` +
			`{"Name":"SourceLastModifiedUtc","DataType":"datetime","Ordinal":3},` +
			`{"Name":"TargetLastModifiedUtc","DataType":"datetime","Ordinal":4},` +
			`{"Name":"AgeMinutes","DataType":"real","Ordinal":5},` +
			`{"Name":"Status","DataType":"string","Ordinal":6},` +
			`{"Name":"Notes","DataType":"string","Ordinal":7}` +
			`]'`,
	},
	{
		Description: "Create JSON ingestion mapping",
		Statement: `.create-or-alter table FileTransferEvents_Raw ingestion json mapping 'FileTransferEvents_JsonMapping' ` +
			`'[` +
			`{"column":"Filename","path":"$.Filename","datatype":"string"},` +
			`{"column":"SourcePresent","path":"$.SourcePresent","datatype":"bool"},` +
			`{"column":"TargetPresent","path":"$.TargetPresent","datatype":"bool"},` +
			`{"column":"SourceLastModifiedUtc","path":"$.SourceLastModifiedUtc","datatype":"datetime"},` +
			`{"column":"TargetLastModifiedUtc","path":"$.TargetLastModifiedUtc","datatype":"datetime"},` +
			`{"column":"AgeMinutes","path":"$.AgeMinutes","datatype":"real"},` +
			`{"column":"Status","path":"$.Status","datatype":"string"},` +
			`{"column":"Notes","path":"$.Notes","datatype":"string"}` +
			`]'`,
	},
	{
		Description: "Set target table retention (90 days)",
		Statement: `.alter table FileTransferEvents policy retention
@'{"SoftDeletePeriod": "90.00:00:00", "Recoverability": "Enabled"}'`,
	},
	{
		Description: "Set staging table retention (1 day)",
		Statement: `.alter table FileTransferEvents_Raw policy retention
@'{"SoftDeletePeriod": "1.00:00:00", "Recoverability": "Disabled"}'`,
	},
	{
		Description: "Set dead-letter table retention (30 days)",
		Statement: `.alter table FileTransferEvents_Errors policy retention
@'{"SoftDeletePeriod": "30.00:00:00", "Recoverability": "Disabled"}'`,
	},
	{
		Description: "Set ingestion batching policy (1 min)",
		Statement: `.alter table FileTransferEvents_Raw policy ingestionbatching
@'{"MaximumBatchingTimeSpan": "00:01:00", "MaximumNumberOfItems": 20, "MaximumRawDataSizeMB": 256}'`,
	},
	{
		Description: "Create DailySummary materialized view",
		Statement: `.create ifnotexists materialized-view DailySummary on table FileTransferEvents {
    FileTransferEvents
    | summarize
        TotalCount      = count(),
        OkCount         = countif(Status == "OK"),
        MissingCount    = countif(Status == "MISSING"),
        DelayedCount    = countif(Status == "DELAYED"),
        AvgAgeMinutes   = avg(AgeMinutes),
        AgeDigest       = tdigest(AgeMinutes)
    by Date = startofday(Timestamp)
}`,
	},
	{
		Description: "Set DailySummary retention (730 days)",
		Statement: `.alter materialized-view DailySummary policy retention
@'{"SoftDeletePeriod": "730.00:00:00", "Recoverability": "Enabled"}'`,
	},
}

// VerifyQuery returns the 20 most recent target-table rows, newest first.
const VerifyQuery = `FileTransferEvents
| order by Timestamp desc
| take 20
| project Filename, SourcePresent, TargetPresent,
          SourceLastModifiedUtc, TargetLastModifiedUtc,
          AgeMinutes, Status, Notes, Timestamp`
