// Package config loads the optional runbook.yaml file, which supplies
// per-project defaults for the connection flags so developers don't have to
// repeat cluster URIs on every invocation. Flags always win over the file.
package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/pkumar26/adx-runbook/pkg/consts"
	"gopkg.in/yaml.v3"
)

// Config represents the optional project configuration.
type Config struct {
	// Cluster is the default query endpoint URI.
	Cluster string `yaml:"cluster,omitempty"`

	// IngestURI is the default queued-ingestion endpoint URI.
	IngestURI string `yaml:"ingest_uri,omitempty"`

	// Database is the default database name.
	Database string `yaml:"database,omitempty"`

	// AuthMethod is the default authentication method.
	AuthMethod string `yaml:"auth_method,omitempty"`

	// CertFile optionally points at a CA bundle. When set and SSL_CERT_FILE
	// is absent from the environment, the CLI exports it before connecting.
	CertFile string `yaml:"cert_file,omitempty"`
}

// LoadConfig parses a runbook configuration from the provided reader.
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal runbook config")
	}

	if cfg.AuthMethod == "" {
		cfg.AuthMethod = consts.DefaultAuthMethod
	}

	return &cfg, nil
}

// LoadConfigFile loads a runbook configuration from the specified file path.
// This is a convenience function that opens the file and calls LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}
