package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.General.EthRPCURL = "http://localhost:9545"
	cfg.Registry.Path = "/tmp/addresses.json"
	cfg.Layouts.URL = "https://layouts.example.com"
	cfg.Signer.Address = "0x847B5c174615B1B7fDF770882256e2D3E95b9D92"
	cfg.Signer.Owners = []string{"0x1000000000000000000000000000000000000001"}

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "http://127.0.0.1:8545", cfg.General.EthRPCURL)
	assert.Equal(t, ":8547", cfg.General.ListenAddr)
	assert.Empty(t, cfg.Registry.Path)
}
