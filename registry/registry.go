package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Reimouto/superchain-ops/db"
	"github.com/Reimouto/superchain-ops/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// SafeMarker is appended to a resolved name when the account answers the
// GnosisSafe threshold probe.
const SafeMarker = " (GnosisSafe)"

const cacheKey = "registry:addresses"

// Document is the chain-scoped registry: chain ID (textual) to contract label
// to address.
type Document map[string]map[string]common.Address

// LoadDocument reads a registry document from disk.
func LoadDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %v", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse registry file: %v", err)
	}
	return doc, nil
}

// FetchDocument retrieves the registry document from url, consulting and
// refreshing cache when one is supplied.
func FetchDocument(url string, cache *db.Cache, log *logrus.Logger) (Document, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		if cache != nil {
			var doc Document
			if hit, cerr := cache.GetJSON(cacheKey, &doc); cerr == nil && hit {
				log.Warnf("Registry fetch failed, using cached document: %v", err)
				return doc, nil
			}
		}
		return nil, fmt.Errorf("failed to fetch registry: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry service returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry response: %v", err)
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse registry response: %v", err)
	}

	if cache != nil {
		if err := cache.PutJSON(cacheKey, doc); err != nil {
			log.Warnf("Failed to cache registry document: %v", err)
		}
	}
	return doc, nil
}

// Resolver maps accounts to display names and chain scopes using the registry
// document and, when a caller is available, behavioral probes.
type Resolver struct {
	doc    Document
	caller ContractCaller
	log    *logrus.Logger
}

// NewResolver builds a Resolver. caller may be nil; probes are then skipped.
func NewResolver(doc Document, caller ContractCaller, log *logrus.Logger) *Resolver {
	return &Resolver{doc: doc, caller: caller, log: log}
}

// Resolve looks the account up in the registry, falling back to behavioral
// probes. The zero identity is a valid result for unknown accounts.
func (r *Resolver) Resolve(ctx context.Context, account common.Address) types.AccountIdentity {
	if identity, ok := r.lookup(ctx, account); ok {
		return identity
	}

	// Duck-typed fallbacks, cheapest first. Each matches purely on call
	// success and response shape.
	switch {
	case r.isSafe(ctx, account):
		return types.AccountIdentity{Name: "GnosisSafe"}
	case r.isLivenessGuard(ctx, account):
		return types.AccountIdentity{Name: "LivenessGuard"}
	case r.isLivenessModule(ctx, account):
		return types.AccountIdentity{Name: "LivenessModule"}
	}

	r.log.Debugf("Account %s not found in registry or probes", account.Hex())
	return types.AccountIdentity{}
}

// lookup scans the registry, first match wins. Chain IDs are visited in
// ascending order so the first match is deterministic.
func (r *Resolver) lookup(ctx context.Context, account common.Address) (types.AccountIdentity, bool) {
	chainIDs := make([]string, 0, len(r.doc))
	for id := range r.doc {
		chainIDs = append(chainIDs, id)
	}
	sort.Slice(chainIDs, func(i, j int) bool {
		a, _ := strconv.ParseUint(chainIDs[i], 10, 64)
		b, _ := strconv.ParseUint(chainIDs[j], 10, 64)
		return a < b
	})

	for _, chainID := range chainIDs {
		labels := r.doc[chainID]
		names := make([]string, 0, len(labels))
		for name := range labels {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			if labels[name] != account {
				continue
			}
			id, err := strconv.ParseUint(chainID, 10, 64)
			if err != nil {
				r.log.Warnf("Registry has non-numeric chain ID %q, ignoring entry", chainID)
				continue
			}
			return types.AccountIdentity{ChainID: id, Name: r.displayName(ctx, name, account)}, true
		}
	}
	return types.AccountIdentity{}, false
}

// displayName normalizes a registry label for the report.
func (r *Resolver) displayName(ctx context.Context, label string, account common.Address) string {
	name := strings.TrimSuffix(label, "Proxy")
	if name == "SuperchainConfig" {
		name = "SharedSuperchainConfig"
	}
	if r.isSafe(ctx, account) {
		name += SafeMarker
	}
	return name
}
