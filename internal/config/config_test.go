package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8410", cfg.Server.Addr)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Empty(t, cfg.Database.DSN)
	assert.Equal(t, 8000, cfg.Game.StartingLP)
	assert.Equal(t, 5, cfg.Game.OpeningHandSize)
	assert.Equal(t, 500, cfg.Game.FatigueDamage)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DUEL_SERVER_ADDR", ":9999")
	t.Setenv("DUEL_LOGGING_LEVEL", "debug")
	t.Setenv("DUEL_GAME_STARTING_LP", "4000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 4000, cfg.Game.StartingLP)
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":7001"
logging:
  format: console
game:
  opening_hand_size: 6
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7001", cfg.Server.Addr)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 6, cfg.Game.OpeningHandSize)
	// Untouched keys keep their defaults.
	assert.Equal(t, 8000, cfg.Game.StartingLP)
}

func TestLoad_RejectsBadGameConstants(t *testing.T) {
	t.Setenv("DUEL_GAME_STARTING_LP", "0")
	_, err := Load("")
	assert.ErrorContains(t, err, "starting_lp")
}
