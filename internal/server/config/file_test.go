package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func Test_parseFile(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("loads from json", func(t *testing.T) {
		path := writeTemp(t, "cfg.json", `{
			"listen_addr": ":9090",
			"database_dsn": "postgres://db",
			"mulearn_user": "user",
			"mulearn_password": "pw",
			"delimiter": ";",
			"http_timeout": "45s",
			"sheet_id": "sheet",
			"sheet_gid": "7",
			"projection_cols": "1,4",
			"leaderboard_source": "sheet",
			"atomic": true,
			"archive_bucket": "raw"
		}`)
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFile(cfg)

		assert.Equal(t, ":9090", cfg.ListenAddr)
		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "user", cfg.MulearnUser)
		assert.Equal(t, "pw", cfg.MulearnPassword)
		assert.Equal(t, ";", cfg.Delimiter)
		assert.Equal(t, 45*time.Second, cfg.HTTPTimeout)
		assert.Equal(t, "sheet", cfg.SheetID)
		assert.Equal(t, "7", cfg.SheetGID)
		assert.Equal(t, "1,4", cfg.ProjectionCols)
		assert.Equal(t, SourceSheet, cfg.LeaderboardSource)
		assert.True(t, cfg.Atomic)
		assert.Equal(t, "raw", cfg.ArchiveBucket)
		assert.Equal(t, "$.response.accessToken", cfg.TokenPath, "absent keys keep defaults")
	})

	t.Run("loads from yaml", func(t *testing.T) {
		path := writeTemp(t, "cfg.yaml", "listen_addr: \":7070\"\nhttp_timeout: 2m\nsprint_start: \"2026-02-01\"\natomic: false\n")
		os.Args = []string{"testbin", "-c", path}

		cfg := &Config{Atomic: true}
		parseFile(cfg)

		assert.Equal(t, ":7070", cfg.ListenAddr)
		assert.Equal(t, 2*time.Minute, cfg.HTTPTimeout)
		assert.Equal(t, "2026-02-01", cfg.SprintStart)
		assert.False(t, cfg.Atomic)
	})

	t.Run("no config flag → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{ListenAddr: "defaults:1234", Atomic: true}
		parseFile(cfg)

		assert.Equal(t, "defaults:1234", cfg.ListenAddr)
		assert.True(t, cfg.Atomic)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := writeTemp(t, "bad.json", `{ this is not valid json`)
		os.Args = []string{"testbin", "-config", bad}

		require.Panics(t, func() { parseFile(&Config{}) })
	})

	t.Run("missing file → panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-c", filepath.Join(t.TempDir(), "nope.json")}
		require.Panics(t, func() { parseFile(&Config{}) })
	})
}
