package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"DANA_COOKIE", "DANA_CLIENT_ID", "DANA_USERNAME", "DANA_BASE_URL", "DANA_IMPL_PATH"} {
		t.Setenv(key, "")
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dana:
  cookie: "session=abc"
  client_id: "a-b-c"
  impl_paths: ["EXM1", "EXM2"]
  timeout: 15s
export:
  xlsx_path: out.xlsx
logging:
  level: debug
`), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "session=abc", cfg.Dana.Cookie)
	assert.Equal(t, []string{"EXM1", "EXM2"}, cfg.Dana.ImplPaths)
	assert.Equal(t, 15*time.Second, cfg.Dana.Timeout)
	assert.Equal(t, 4, cfg.Dana.Concurrency)
	assert.Equal(t, "https://dana.medu.ir/core-api/v1", cfg.Dana.BaseURL)
	assert.Equal(t, "out.xlsx", cfg.Export.XLSXPath)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)

	cred := cfg.Credential()
	assert.Equal(t, "a-b-c", cred.ClientID)
	assert.NoError(t, cred.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DANA_COOKIE", "from-env")
	t.Setenv("DANA_CLIENT_ID", "x-y")
	t.Setenv("DANA_IMPL_PATH", "P1,P2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Dana.Cookie)
	assert.Equal(t, "x-y", cfg.Dana.ClientID)
	assert.Equal(t, []string{"P1", "P2"}, cfg.Dana.ImplPaths)
	assert.Equal(t, 60*time.Second, cfg.Dana.Timeout)
}

func TestLoadFileInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dana: [unclosed"), 0o600))

	_, err := LoadFile(path)
	assert.Error(t, err)
}
