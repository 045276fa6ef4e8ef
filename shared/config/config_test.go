package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

func TestLoad(t *testing.T) {
	t.Run("reads public and private files", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "public.yaml", `
env: development
http:
  port: 9000
directory:
  timeout: 5s
report:
  embed_url: https://example.com/report
cors:
  allowed_origins: ["https://klse.example"]
`)
		writeFile(t, dir, "private.yaml", `directory_url: https://script.example/exec`)

		cfg, err := Load(dir)
		require.NoError(t, err)

		assert.Equal(t, "development", cfg.Public.Env)
		assert.Equal(t, 9000, cfg.Public.HTTP.Port)
		assert.Equal(t, 5*time.Second, cfg.Public.Directory.Timeout)
		assert.Equal(t, "https://script.example/exec", cfg.DirectoryURL())
		assert.Equal(t, []string{"https://klse.example"}, cfg.Public.CORS.AllowedOrigins)
		assert.False(t, cfg.UseMockDirectory())
	})

	t.Run("applies defaults", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "public.yaml", `env: test`)

		cfg, err := Load(dir)
		require.NoError(t, err)

		assert.Equal(t, 8081, cfg.Public.HTTP.Port)
		assert.Equal(t, 30*time.Second, cfg.Public.Directory.Timeout)
		assert.Equal(t, "RM30", cfg.Public.Pricing.Amount)
		assert.Equal(t, "/month", cfg.Public.Pricing.Period)
		assert.True(t, cfg.UseMockDirectory(), "no private.yaml means mock directory")
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "public.yaml", `not_a_key: 1`)

		_, err := Load(dir)
		assert.Error(t, err)
	})

	t.Run("missing public file", func(t *testing.T) {
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})
}

func TestUseMockDirectory(t *testing.T) {
	tests := []struct {
		name string
		url  string
		mock bool
		want bool
	}{
		{"placeholder url", "https://script.google.com/macros/s/REPLACE_WITH_ID/exec", false, true},
		{"empty url", "", false, true},
		{"forced mock", "https://script.example/exec", true, true},
		{"real url", "https://script.example/exec", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewForTest(Public{Directory: Directory{Mock: tt.mock}}, tt.url)
			assert.Equal(t, tt.want, cfg.UseMockDirectory())
		})
	}
}
