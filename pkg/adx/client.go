package adx

import (
	"context"

	"github.com/Azure/azure-kusto-go/kusto"
	kustoerrors "github.com/Azure/azure-kusto-go/kusto/data/errors"
	"github.com/Azure/azure-kusto-go/kusto/data/table"
	"github.com/Azure/azure-kusto-go/kusto/unsafe"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/pkg/errors"
)

// Client wraps the Kusto SDK client with the two operations the runbook
// needs: executing management commands and streaming query rows. Statements
// are plain strings because the DDL this tool runs is fixed literal text,
// not user-assembled KQL.
type Client struct {
	inner *kusto.Client
}

// New connects to the given cluster endpoint using the provided token
// credential. The endpoint is either the query URI (setup/verify) or the
// ingestion URI (ingest commands).
//
// Example:
//
//	cred, _ := auth.Credential(auth.MethodAzCLI, auth.ServicePrincipal{})
//	client, err := adx.New("https://adx-ft-dev.eastus2.kusto.windows.net", cred)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(endpoint string, cred azcore.TokenCredential) (*Client, error) {
	kcsb := kusto.NewConnectionStringBuilder(endpoint).WithTokenCredential(cred)

	inner, err := kusto.New(kcsb)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create client for %s", endpoint)
	}

	return &Client{inner: inner}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.inner.Close()
}

// Inner exposes the SDK client for subsystems that need it directly
// (queued ingestion).
func (c *Client) Inner() *kusto.Client {
	return c.inner
}

// Mgmt executes a single management command against the database. The
// result rows (if any) are discarded; callers only care about success.
func (c *Client) Mgmt(ctx context.Context, database, command string) error {
	iter, err := c.inner.Mgmt(ctx, database, unsafeStmt(command))
	if err != nil {
		return err
	}
	iter.Stop()

	return nil
}

// Query runs a read query against the database and invokes onRow for each
// returned row, in order. Inline service errors abort the iteration.
func (c *Client) Query(ctx context.Context, database, query string, onRow func(*table.Row) error) error {
	iter, err := c.inner.Query(ctx, database, unsafeStmt(query))
	if err != nil {
		return err
	}
	defer iter.Stop()

	return iter.DoOnRowOrError(func(row *table.Row, inline *kustoerrors.Error) error {
		if inline != nil {
			return inline
		}
		return onRow(row)
	})
}

// unsafeStmt wraps runtime statement text for the SDK, which otherwise only
// accepts compile-time string constants.
func unsafeStmt(text string) kusto.Stmt {
	return kusto.NewStmt("", kusto.UnsafeStmt(unsafe.Stmt{Add: true, SuppressWarning: true})).UnsafeAdd(text)
}
