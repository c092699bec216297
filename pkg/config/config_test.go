package config_test

import (
	_ "embed"
	"os"
	"strings"
	"testing"

	. "github.com/pkumar26/adx-runbook/pkg/config"
	"github.com/pkumar26/adx-runbook/pkg/consts"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/runbook.yaml
var testConfigYAML string

func TestLoadConfig(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		config, err := LoadConfig(strings.NewReader(testConfigYAML))
		require.NoError(t, err)
		validateTestConfig(t, config)
	})

	t.Run("error", func(t *testing.T) {
		// Invalid YAML
		config, err := LoadConfig(strings.NewReader("invalid: yaml: ["))
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), "failed to unmarshal runbook config")

		// Empty input
		config, err = LoadConfig(strings.NewReader(""))
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), "failed to unmarshal runbook config")
	})

	t.Run("defaults", func(t *testing.T) {
		// Valid YAML with no runbook fields still gets the default auth method
		config, err := LoadConfig(strings.NewReader("other_key: value"))
		require.NoError(t, err)
		require.NotNil(t, config)
		require.Equal(t, consts.DefaultAuthMethod, config.AuthMethod)
		require.Empty(t, config.Cluster)
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tempFile, err := os.CreateTemp("", "runbook_test_*.yaml")
		require.NoError(t, err)
		defer os.Remove(tempFile.Name())

		_, err = tempFile.WriteString(testConfigYAML)
		require.NoError(t, err)
		require.NoError(t, tempFile.Close())

		config, err := LoadConfigFile(tempFile.Name())
		require.NoError(t, err)
		validateTestConfig(t, config)
	})

	t.Run("missing file", func(t *testing.T) {
		config, err := LoadConfigFile("testdata/nope.yaml")
		require.Error(t, err)
		require.Nil(t, config)
		require.Contains(t, err.Error(), "failed to open file")
	})
}

func validateTestConfig(t *testing.T, config *Config) {
	t.Helper()

	require.Equal(t, "https://ftevents-dev.eastus.kusto.windows.net", config.Cluster)
	require.Equal(t, "https://ingest-ftevents-dev.eastus.kusto.windows.net", config.IngestURI)
	require.Equal(t, "ftevents", config.Database)
	require.Equal(t, "service-principal", config.AuthMethod)
	require.Equal(t, "/etc/ssl/certs/corp-ca.pem", config.CertFile)
}
