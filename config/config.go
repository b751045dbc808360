package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// Config holds the application configuration
type Config struct {
	General  GeneralConfig  `toml:"general"`
	Registry RegistryConfig `toml:"registry"`
	Layouts  LayoutConfig   `toml:"layouts"`
	Signer   SignerConfig   `toml:"signer"`
}

// GeneralConfig holds general settings
type GeneralConfig struct {
	EthRPCURL  string `toml:"eth_rpc_url"`
	CachePath  string `toml:"cache_path"`
	ListenAddr string `toml:"listen_addr"`
}

// RegistryConfig points at the chain-scoped address registry. Path wins over
// URL when both are set.
type RegistryConfig struct {
	Path string `toml:"path"`
	URL  string `toml:"url"`
}

// LayoutConfig points at the storage-layout schema store. Dir wins over URL.
type LayoutConfig struct {
	Dir string `toml:"dir"`
	URL string `toml:"url"`
}

// SignerConfig identifies the approving safe for report annotation.
type SignerConfig struct {
	Address string   `toml:"address"`
	Owners  []string `toml:"owners"`
}

// DefaultConfig returns the default configuration values
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			EthRPCURL:  "http://127.0.0.1:8545",
			CachePath:  "./data/cache_db",
			ListenAddr: ":8547",
		},
	}
}

// LoadConfig reads from config.toml and returns Config struct
func LoadConfig(path string) (Config, error) {
	var cfg Config
	file, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %v", err)
	}

	err = toml.Unmarshal(file, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %v", err)
	}

	return cfg, nil
}

// Save writes the configuration to path as TOML.
func (c Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}
	return nil
}
