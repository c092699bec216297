package verify_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/Azure/azure-kusto-go/kusto/data/table"
	"github.com/Azure/azure-kusto-go/kusto/data/value"
	"github.com/pkg/errors"
	"github.com/pkumar26/adx-runbook/pkg/verify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func event(filename, status string, timestamp time.Time, tsValid bool) verify.Event {
	return verify.Event{
		Filename:      value.String{Value: filename, Valid: true},
		SourcePresent: value.Bool{Value: true, Valid: true},
		TargetPresent: value.Bool{Value: true, Valid: true},
		AgeMinutes:    value.Real{Value: 4.5, Valid: true},
		Status:        value.String{Value: status, Valid: true},
		Timestamp:     value.DateTime{Value: timestamp, Valid: tsValid},
	}
}

func TestBuildReport(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	events := []verify.Event{
		event("a.csv", "OK", now, true),
		event("b.csv", "OK", now, true),
		event("c.csv", "MISSING", now, true),
		event("d.csv", "OK", now, true),
		event("e.csv", "DELAYED", time.Time{}, false),
	}

	report := verify.BuildReport(events)
	assert.Equal(t, 1, report.NullTimestamps)
	assert.Equal(t, map[string]int{"OK": 3, "MISSING": 1, "DELAYED": 1}, report.StatusCounts)
}

func TestReport_Render(t *testing.T) {
	now := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

	t.Run("empty result set is not an error", func(t *testing.T) {
		out := &bytes.Buffer{}
		verify.BuildReport(nil).Render(out)

		assert.Contains(t, out.String(), "No rows found in FileTransferEvents.")
		assert.Contains(t, out.String(), "wait 1-3 minutes")
	})

	t.Run("null timestamps are flagged", func(t *testing.T) {
		events := []verify.Event{
			event("a.csv", "OK", now, true),
			event("b.csv", "OK", now, true),
			event("c.csv", "OK", now, true),
			event("d.csv", "OK", now, true),
			event("e.csv", "OK", time.Time{}, false),
		}

		out := &bytes.Buffer{}
		verify.BuildReport(events).Render(out)

		assert.Contains(t, out.String(), "Found 5 recent rows")
		assert.Contains(t, out.String(), "1 row(s) have null Timestamp!")
		assert.NotContains(t, out.String(), "PASSED")
	})

	t.Run("clean rows pass with status distribution", func(t *testing.T) {
		events := []verify.Event{
			event("a.csv", "OK", now, true),
			event("b.csv", "MISSING", now, true),
			event("c.csv", "OK", now, true),
		}

		out := &bytes.Buffer{}
		verify.BuildReport(events).Render(out)

		assert.Contains(t, out.String(), "All rows have non-null Timestamp. Schema verification")
		assert.Contains(t, out.String(), "Status distribution: MISSING=1, OK=2")
		assert.Contains(t, out.String(), "a.csv")
	})
}

type failingConn struct{}

func (failingConn) Query(ctx context.Context, database, query string, onRow func(*table.Row) error) error {
	return errors.New("database does not exist")
}

func TestVerifier_Run(t *testing.T) {
	report, err := verify.New(failingConn{}, "ftevents_test").Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Contains(t, err.Error(), "failed to query FileTransferEvents")
}
