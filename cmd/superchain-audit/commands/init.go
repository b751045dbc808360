package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Reimouto/superchain-ops/config"
	"github.com/spf13/cobra"
)

// InitCmd represents the init command
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the audit tool",
	Long: `Initialize the audit tool with the required configuration.
This command creates the necessary directories and configuration files.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(cmd)
	},
}

func init() {
	InitCmd.Flags().String("eth.rpc-url", "http://127.0.0.1:8545", "Ethereum RPC URL used by identity probes")
	InitCmd.Flags().String("registry.path", "", "Path to a local registry addresses.json")
	InitCmd.Flags().String("registry.url", "", "Registry service URL")
	InitCmd.Flags().String("layouts.dir", "", "Directory of storage layout artifacts")
	InitCmd.Flags().String("layouts.url", "", "Storage layout schema service URL")
	InitCmd.Flags().String("listen-addr", ":8547", "Listen address for the serve command")
	InitCmd.Flags().String("signer.address", "", "Address of the approving safe")
	InitCmd.Flags().StringSlice("signer.owner", nil, "Owner of the approving safe (repeatable)")
}

func initCommand(cmd *cobra.Command) error {
	ethRPCURL, _ := cmd.Flags().GetString("eth.rpc-url")
	registryPath, _ := cmd.Flags().GetString("registry.path")
	registryURL, _ := cmd.Flags().GetString("registry.url")
	layoutsDir, _ := cmd.Flags().GetString("layouts.dir")
	layoutsURL, _ := cmd.Flags().GetString("layouts.url")
	listenAddr, _ := cmd.Flags().GetString("listen-addr")
	signerAddr, _ := cmd.Flags().GetString("signer.address")
	signerOwners, _ := cmd.Flags().GetStringSlice("signer.owner")

	log := newLogger()

	// Get user's home directory
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %v", err)
	}

	auditDir := filepath.Join(home, appDir)
	if err := os.MkdirAll(auditDir, 0755); err != nil {
		return fmt.Errorf("failed to create %s directory: %v", appDir, err)
	}

	cachePath := filepath.Join(auditDir, "data", "cache_db")
	if err := os.MkdirAll(cachePath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %v", cachePath, err)
	}

	// Create config with command-line flags
	cfg := config.DefaultConfig()
	cfg.General.EthRPCURL = ethRPCURL
	cfg.General.CachePath = cachePath
	cfg.General.ListenAddr = listenAddr
	cfg.Registry.Path = registryPath
	cfg.Registry.URL = registryURL
	cfg.Layouts.Dir = layoutsDir
	cfg.Layouts.URL = layoutsURL
	cfg.Signer.Address = signerAddr
	cfg.Signer.Owners = signerOwners

	// Save config file
	path := filepath.Join(auditDir, "config.toml")
	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("failed to create config file: %v", err)
	}
	log.Infof("Created config file at: %s", path)

	// Show configuration summary
	fmt.Println("\n=== Configuration Summary ===")
	fmt.Printf("Ethereum RPC URL: %s\n", cfg.General.EthRPCURL)
	fmt.Printf("Registry: %s%s\n", cfg.Registry.Path, cfg.Registry.URL)
	fmt.Printf("Layouts: %s%s\n", cfg.Layouts.Dir, cfg.Layouts.URL)
	fmt.Printf("Cache: %s\n", cfg.General.CachePath)
	fmt.Printf("Listen Address: %s\n", cfg.General.ListenAddr)
	fmt.Printf("Config File: %s\n", path)

	log.Info("Initialization completed successfully!")
	log.Info("Run an audit with: superchain-audit run --trace <trace.json>")

	return nil
}
