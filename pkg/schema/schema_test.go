package schema_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/pkumar26/adx-runbook/pkg/consts"
	"github.com/pkumar26/adx-runbook/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stepIndex(t *testing.T, substr string) int {
	t.Helper()
	for i, step := range schema.Steps {
		if strings.Contains(step.Statement, substr) {
			return i
		}
	}
	t.Fatalf("no step contains %q", substr)
	return -1
}

func TestSteps(t *testing.T) {
	require.Len(t, schema.Steps, 13)

	for i, step := range schema.Steps {
		assert.NotEmpty(t, step.Description, "step %d has no description", i)
		assert.True(t, strings.HasPrefix(step.Statement, "."), "step %d is not a management command", i)
	}
}

func TestSteps_DependencyOrder(t *testing.T) {
	policy := stepIndex(t, "policy update")

	// The update policy references both tables and the transform function,
	// so all three must be provisioned before it.
	assert.Less(t, stepIndex(t, ".create-merge table FileTransferEvents ("), policy)
	assert.Less(t, stepIndex(t, ".create-merge table FileTransferEvents_Raw ("), policy)
	assert.Less(t, stepIndex(t, ".create-or-alter function"), policy)

	view := stepIndex(t, ".create ifnotexists materialized-view")
	assert.Less(t, policy, view)
	assert.Less(t, view, stepIndex(t, ".alter materialized-view"))
}

func TestSteps_NamesMatchConstants(t *testing.T) {
	all := make([]string, 0, len(schema.Steps))
	for _, step := range schema.Steps {
		all = append(all, step.Statement)
	}
	joined := strings.Join(all, "\n")

	// Ingestion and verification address objects by these names; a rename
	// here without a matching consts change would break both.
	for _, name := range []string{
		consts.TargetTable,
		consts.StagingTable,
		consts.ErrorsTable,
		consts.TransformFunction,
		consts.MaterializedView,
	} {
		assert.Contains(t, joined, name)
	}

	assert.Contains(t, joined, fmt.Sprintf("csv mapping '%s'", consts.CSVMapping))
	assert.Contains(t, joined, fmt.Sprintf("json mapping '%s'", consts.JSONMapping))
}

func TestSteps_UpdatePolicyIsTransactional(t *testing.T) {
	stmt := schema.Steps[stepIndex(t, "policy update")].Statement
	assert.Contains(t, stmt, `"Source": "FileTransferEvents_Raw"`)
	assert.Contains(t, stmt, `"Query": "FileTransferEvents_Transform()"`)
	assert.Contains(t, stmt, `"IsTransactional": true`)
}

func TestVerifyQuery(t *testing.T) {
	assert.True(t, strings.HasPrefix(schema.VerifyQuery, consts.TargetTable))
	assert.Contains(t, schema.VerifyQuery, "order by Timestamp desc")
	assert.Contains(t, schema.VerifyQuery, "take 20")

	// The projection must match verify.Event's kusto tags.
	for _, column := range []string{
		"Filename", "SourcePresent", "TargetPresent",
		"SourceLastModifiedUtc", "TargetLastModifiedUtc",
		"AgeMinutes", "Status", "Notes", "Timestamp",
	} {
		assert.Contains(t, schema.VerifyQuery, column)
	}
}
