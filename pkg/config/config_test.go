package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const minimalConfig = `
directory:
  baseURL: https://idp.example.com
  realm: bank
  clientID: tellerguard
`

func TestLoadMinimalAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "Bank Teller", cfg.Directory.TellerGroup)
	assert.Equal(t, "Bank Teller Administrator", cfg.Directory.AdminGroup)
	assert.Equal(t, "log", cfg.Audit.Sink)
	assert.Equal(t, "tellerguard", cfg.Vault.KeyringService)
	assert.Equal(t, "banking-app-aes-key", cfg.Vault.KeyName)
	assert.Equal(t, 10*time.Second, cfg.DirectoryTimeout())
	assert.False(t, cfg.MailEnabled())
}

func TestLoadFullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
directory:
  baseURL: https://idp.example.com
  realm: bank
  clientID: tellerguard
  serviceClientID: tellerguard-svc
  serviceClientSecret: s3cret
  tellerGroup: Tellers
  adminGroup: Supervisors
  requestTimeout: 3s
audit:
  sink: kafka
  kafka:
    brokers: ["kafka-0:9092", "kafka-1:9092"]
    topic: bank.audit
    sasl:
      mechanism: SCRAM-SHA-512
      username: audit
      password: pw
mail:
  host: smtp.example.com
  port: 587
  recipients: ["security@example.com"]
metrics:
  listenAddress: ":9090"
`))
	require.NoError(t, err)

	assert.Equal(t, "Tellers", cfg.Directory.TellerGroup)
	assert.Equal(t, 3*time.Second, cfg.DirectoryTimeout())
	assert.Equal(t, "kafka", cfg.Audit.Sink)
	require.NotNil(t, cfg.Audit.Kafka)
	assert.Equal(t, "bank.audit", cfg.Audit.Kafka.Topic)
	assert.True(t, cfg.MailEnabled())
	assert.Equal(t, ":9090", cfg.Metrics.ListenAddress)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, minimalConfig)
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("/nonexistent/other.yaml")
	require.NoError(t, err)
	assert.Equal(t, "bank", cfg.Directory.Realm)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing baseURL",
			content: "directory:\n  realm: bank\n  clientID: x\n",
			wantErr: "directory.baseURL",
		},
		{
			name:    "missing realm",
			content: "directory:\n  baseURL: https://idp\n  clientID: x\n",
			wantErr: "directory.realm",
		},
		{
			name:    "bad timeout",
			content: minimalConfig + "  requestTimeout: nonsense\n",
			wantErr: "requestTimeout",
		},
		{
			name:    "kafka sink without kafka block",
			content: minimalConfig + "audit:\n  sink: kafka\n",
			wantErr: "audit.kafka",
		},
		{
			name:    "unknown sink",
			content: minimalConfig + "audit:\n  sink: syslog\n",
			wantErr: "not supported",
		},
		{
			name:    "mail host without recipients",
			content: minimalConfig + "mail:\n  host: smtp.example.com\n",
			wantErr: "mail.recipients",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
