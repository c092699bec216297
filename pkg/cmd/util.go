package cmd

import (
	"github.com/pkg/errors"
	"github.com/pkumar26/adx-runbook/pkg/adx"
	"github.com/pkumar26/adx-runbook/pkg/auth"
	"github.com/pkumar26/adx-runbook/pkg/config"
	"github.com/pkumar26/adx-runbook/pkg/consts"
	"github.com/urfave/cli/v3"
)

// connection is the fully resolved connection input for one invocation:
// flag values merged over config-file defaults, validated before any
// network call is made.
type connection struct {
	cluster   string
	ingestURI string
	database  string
	method    auth.Method
	sp        auth.ServicePrincipal
}

// connFlags returns the flags shared by every command.
func connFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "cluster",
			Usage: "cluster query URI (e.g. https://adx-ft-dev.eastus2.kusto.windows.net)",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
		&cli.StringFlag{
			Name:  "database",
			Usage: "database name (e.g. ftevents_dev)",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
		&cli.StringFlag{
			Name:        "auth-method",
			Usage:       "authentication method: az-cli, interactive, managed-identity, or service-principal",
			DefaultText: consts.DefaultAuthMethod,
		},
		&cli.StringFlag{
			Name:  "client-id",
			Usage: "service principal client ID",
		},
		&cli.StringFlag{
			Name:  "client-secret",
			Usage: "service principal client secret",
		},
		&cli.StringFlag{
			Name:  "tenant-id",
			Usage: "Azure AD tenant ID",
		},
	}
}

// ingestFlags returns the flags shared by the two ingest commands.
func ingestFlags() []cli.Flag {
	return append(connFlags(),
		&cli.StringFlag{
			Name:  "ingest-uri",
			Usage: "ingestion URI (e.g. https://ingest-adx-ft-dev.eastus2.kusto.windows.net)",
			Config: cli.StringConfig{
				TrimSpace: true,
			},
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "data format, csv or json (auto-detected from the source suffix if omitted)",
		},
		&cli.StringFlag{
			Name:  "mapping",
			Usage: "ingestion mapping name (defaults based on format)",
		},
	)
}

// resolveConnection merges flags over the config file and validates that
// everything required is present. It never touches the network.
func resolveConnection(cmd *cli.Command, needIngestURI bool) (*connection, error) {
	cfg := currentConfig
	if cfg == nil {
		cfg = &config.Config{AuthMethod: consts.DefaultAuthMethod}
	}

	conn := &connection{
		cluster:  stringOr(cmd.String("cluster"), cfg.Cluster),
		database: stringOr(cmd.String("database"), cfg.Database),
		sp: auth.ServicePrincipal{
			ClientID:     cmd.String("client-id"),
			ClientSecret: cmd.String("client-secret"),
			TenantID:     cmd.String("tenant-id"),
		},
	}

	if conn.cluster == "" {
		return nil, errors.New("--cluster is required")
	}
	if conn.database == "" {
		return nil, errors.New("--database is required")
	}

	if needIngestURI {
		conn.ingestURI = stringOr(cmd.String("ingest-uri"), cfg.IngestURI)
		if conn.ingestURI == "" {
			return nil, errors.New("--ingest-uri is required for ingestion")
		}
	}

	method, err := auth.ParseMethod(stringOr(cmd.String("auth-method"), cfg.AuthMethod))
	if err != nil {
		return nil, err
	}
	conn.method = method

	return conn, nil
}

// newClient builds a credential for the chosen auth method and connects to
// the given endpoint.
func newClient(endpoint string, conn *connection) (*adx.Client, error) {
	cred, err := auth.Credential(conn.method, conn.sp)
	if err != nil {
		return nil, err
	}

	return adx.New(endpoint, cred)
}

func stringOr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
