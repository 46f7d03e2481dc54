package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ismaiel54/itch50-decoder/internal/itch"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig("itch")
	assert.Equal(t, "itch", cfg.ServiceName)
	assert.Equal(t, "itch.messages", cfg.Topic)
	assert.Equal(t, ":8080", cfg.HTTPAddr())
	assert.Equal(t, ":50051", cfg.GRPCAddr())

	mode, err := cfg.DecodeMode()
	require.NoError(t, err)
	assert.Equal(t, itch.ModeStrict, mode)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("ITCH_MODE", "fast")
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("PORT_HTTP", "9999")
	t.Setenv("PORT_GRPC", "not-a-number")

	cfg := LoadConfig("itch")
	mode, err := cfg.DecodeMode()
	require.NoError(t, err)
	assert.Equal(t, itch.ModeFast, mode)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Brokers())
	assert.Equal(t, 9999, cfg.HTTPPort)
	assert.Equal(t, 50051, cfg.GRPCPort)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itch.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode = "fast"
topic = "itch.replay"
store_path = "/tmp/replay.db"
checkpoint_every = 500
`), 0o644))
	t.Setenv("ITCH_TOPIC", "itch.override")

	cfg, err := Load("itch", path)
	require.NoError(t, err)
	assert.Equal(t, "fast", cfg.Mode)
	assert.Equal(t, "itch.override", cfg.Topic)
	assert.Equal(t, "/tmp/replay.db", cfg.StorePath)
	assert.Equal(t, 500, cfg.CheckpointEvery)
	assert.Equal(t, 10000, cfg.MaxInFlight)
}

func TestLoad_RejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itch.toml")
	require.NoError(t, os.WriteFile(path, []byte("moed = \"fast\"\n"), 0o644))

	_, err := Load("itch", path)
	assert.ErrorContains(t, err, "moed")
}

func TestLoad_InvalidMode(t *testing.T) {
	t.Setenv("ITCH_MODE", "lenient")
	_, err := Load("itch", "")
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("itch", filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
