package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Reimouto/superchain-ops/audit"
	"github.com/Reimouto/superchain-ops/config"
	"github.com/Reimouto/superchain-ops/db"
	"github.com/Reimouto/superchain-ops/decoder"
	"github.com/Reimouto/superchain-ops/eth"
	"github.com/Reimouto/superchain-ops/layout"
	"github.com/Reimouto/superchain-ops/registry"
	"github.com/sirupsen/logrus"
)

const appDir = ".superchain-audit"

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		ForceColors:     true,
	})
	log.SetLevel(logrus.InfoLevel)
	return log
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %v", err)
	}
	return filepath.Join(home, appDir, "config.toml"), nil
}

// runtime bundles the wired pipeline and the handles it must release.
type runtime struct {
	auditor *audit.Auditor
	cache   *db.Cache
	client  *eth.Client
}

func (r *runtime) Close() {
	if r.client != nil {
		r.client.Close()
	}
	if r.cache != nil {
		r.cache.Close()
	}
}

// newRuntime wires the audit pipeline from configuration. Every external
// collaborator is optional: a missing one degrades decoding instead of
// failing startup.
func newRuntime(ctx context.Context, cfg config.Config, log *logrus.Logger) (*runtime, error) {
	rt := &runtime{}

	if cfg.General.CachePath != "" {
		cache, err := db.OpenCache(cfg.General.CachePath)
		if err != nil {
			log.Warnf("Lookup cache unavailable, continuing without it: %v", err)
		} else {
			rt.cache = cache
		}
	}

	if cfg.General.EthRPCURL != "" {
		client, err := eth.NewClient(ctx, cfg.General.EthRPCURL)
		if err != nil {
			log.Warnf("Ethereum RPC unavailable, identity probes disabled: %v", err)
		} else {
			rt.client = client
		}
	}

	doc, err := loadRegistry(cfg.Registry, rt.cache, log)
	if err != nil {
		log.Warnf("Registry unavailable, accounts will be unnamed: %v", err)
		doc = registry.Document{}
	}

	var caller registry.ContractCaller
	if rt.client != nil {
		caller = rt.client.Eth
	}
	resolver := registry.NewResolver(doc, caller, log)

	layouts := layout.NewStore(cfg.Layouts.Dir, cfg.Layouts.URL, rt.cache, log)
	rt.auditor = audit.New(resolver, decoder.New(layouts, log), log)

	return rt, nil
}

func loadRegistry(cfg config.RegistryConfig, cache *db.Cache, log *logrus.Logger) (registry.Document, error) {
	switch {
	case cfg.Path != "":
		return registry.LoadDocument(cfg.Path)
	case cfg.URL != "":
		return registry.FetchDocument(cfg.URL, cache, log)
	default:
		return nil, fmt.Errorf("no registry source configured")
	}
}
