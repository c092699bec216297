package ingestion_test

import (
	"testing"

	"github.com/pkumar26/adx-runbook/pkg/consts"
	"github.com/pkumar26/adx-runbook/pkg/ingestion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		explicit string
		want     ingestion.Format
		wantErr  bool
	}{
		{name: "csv file", source: "events.csv", want: ingestion.FormatCSV},
		{name: "json file", source: "events.json", want: ingestion.FormatJSON},
		{name: "jsonl file", source: "events.jsonl", want: ingestion.FormatJSON},
		{name: "uppercase suffix", source: "EVENTS.CSV", want: ingestion.FormatCSV},
		{name: "unknown suffix", source: "events.txt", wantErr: true},
		{name: "no suffix", source: "events", wantErr: true},
		{name: "blob uri with sas token", source: "https://x/y/data.csv?sv=2022-11-02&sig=abc", want: ingestion.FormatCSV},
		{name: "blob uri json", source: "https://stfteventsdev.blob.core.windows.net/file-transfer-events/data.json", want: ingestion.FormatJSON},
		{name: "explicit wins over suffix", source: "events.txt", explicit: "json", want: ingestion.FormatJSON},
		{name: "explicit wins over csv suffix", source: "events.csv", explicit: "json", want: ingestion.FormatJSON},
		{name: "explicit uppercase", source: "events.txt", explicit: "CSV", want: ingestion.FormatCSV},
		{name: "explicit invalid", source: "events.csv", explicit: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ingestion.Resolve(tt.source, tt.explicit)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMappingFor(t *testing.T) {
	// The defaults must match the mapping names the setup sequence creates,
	// or ingested rows won't parse.
	assert.Equal(t, consts.CSVMapping, ingestion.MappingFor(ingestion.FormatCSV, ""))
	assert.Equal(t, consts.JSONMapping, ingestion.MappingFor(ingestion.FormatJSON, ""))
	assert.Equal(t, "CustomMapping", ingestion.MappingFor(ingestion.FormatCSV, "CustomMapping"))
}

func TestParseFormat(t *testing.T) {
	got, err := ingestion.ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, ingestion.FormatCSV, got)

	_, err = ingestion.ParseFormat("parquet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}
