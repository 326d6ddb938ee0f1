package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `directory:
  baseURL: https://keycloak.bank.example
  realm: tellers
  clientID: tellerguard
vault:
  keyringService: tellerguard-test
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runCommand(t *testing.T, configPath string, stdin string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	root := NewRootCommand(Config{
		ConfigPath:   configPath,
		OutputWriter: out,
		InputReader:  strings.NewReader(stdin),
	})
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "", "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tellerguard")
}

func TestUnknownCommand(t *testing.T) {
	_, err := runCommand(t, "", "", "definitely-not-a-command")
	assert.Error(t, err)
}

func TestCompletionNeedsNoConfig(t *testing.T) {
	out, err := runCommand(t, filepath.Join(t.TempDir(), "nope.yaml"), "", "completion", "bash")
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestMissingConfigFails(t *testing.T) {
	_, err := runCommand(t, filepath.Join(t.TempDir(), "nope.yaml"), "", "encrypt", "hello")
	assert.Error(t, err)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	keyring.MockInit()
	configPath := writeTestConfig(t)

	out, err := runCommand(t, configPath, "", "encrypt", "Bob Smith")
	require.NoError(t, err)
	ciphertext := strings.TrimSpace(out)
	require.NotEmpty(t, ciphertext)
	assert.NotEqual(t, "Bob Smith", ciphertext)

	out, err = runCommand(t, configPath, "", "decrypt", ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "Bob Smith", strings.TrimSpace(out))
}

func TestDecryptRejectsGarbage(t *testing.T) {
	keyring.MockInit()
	configPath := writeTestConfig(t)

	_, err := runCommand(t, configPath, "", "decrypt", "not base64!!!")
	assert.Error(t, err)
}

func TestApproveRequiresFlags(t *testing.T) {
	keyring.MockInit()
	configPath := writeTestConfig(t)

	_, err := runCommand(t, configPath, "", "approve")
	assert.Error(t, err)
}
