package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/Reimouto/superchain-ops/db"
	"github.com/sirupsen/logrus"
)

const cacheKeyPrefix = "layout:"

// Store resolves storage layouts by contract identity. A local artifact
// directory takes precedence over the schema service URL; fetched layouts are
// cached so repeated audits stay offline.
type Store struct {
	dir    string
	url    string
	cache  *db.Cache
	client *http.Client
	log    *logrus.Logger
}

// NewStore builds a layout store. dir, url and cache may each be empty/nil;
// lookups fail once every configured source has been exhausted.
func NewStore(dir, url string, cache *db.Cache, log *logrus.Logger) *Store {
	return &Store{
		dir:   dir,
		url:   url,
		cache: cache,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// Layout returns the storage layout for the contract identified by name.
func (s *Store) Layout(name string) (StorageLayout, error) {
	var layout StorageLayout

	if s.cache != nil {
		hit, err := s.cache.GetJSON(cacheKeyPrefix+name, &layout)
		if err != nil {
			s.log.Warnf("Layout cache lookup for %s failed: %v", name, err)
		} else if hit {
			return layout, nil
		}
	}

	if s.dir != "" {
		layout, err := s.readFile(name)
		if err == nil {
			s.store(name, layout)
			return layout, nil
		}
		if !os.IsNotExist(err) {
			return StorageLayout{}, err
		}
		s.log.Debugf("No layout file for %s in %s, trying schema service", name, s.dir)
	}

	if s.url != "" {
		layout, err := s.fetch(name)
		if err != nil {
			return StorageLayout{}, err
		}
		s.store(name, layout)
		return layout, nil
	}

	return StorageLayout{}, fmt.Errorf("no storage layout source configured for %s", name)
}

func (s *Store) readFile(name string) (StorageLayout, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name+".json"))
	if err != nil {
		return StorageLayout{}, err
	}
	var layout StorageLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		return StorageLayout{}, fmt.Errorf("failed to parse layout file for %s: %v", name, err)
	}
	return layout, nil
}

func (s *Store) fetch(name string) (StorageLayout, error) {
	uri := fmt.Sprintf("%s/layouts/%s", s.url, url.PathEscape(name))
	resp, err := s.client.Get(uri)
	if err != nil {
		return StorageLayout{}, fmt.Errorf("failed to fetch layout for %s: %v", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return StorageLayout{}, fmt.Errorf("schema service returned HTTP %d for %s", resp.StatusCode, name)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return StorageLayout{}, fmt.Errorf("failed to read layout response for %s: %v", name, err)
	}

	var layout StorageLayout
	if err := json.Unmarshal(body, &layout); err != nil {
		return StorageLayout{}, fmt.Errorf("failed to parse layout response for %s: %v", name, err)
	}
	return layout, nil
}

func (s *Store) store(name string, layout StorageLayout) {
	if s.cache == nil {
		return
	}
	if err := s.cache.PutJSON(cacheKeyPrefix+name, layout); err != nil {
		s.log.Warnf("Failed to cache layout for %s: %v", name, err)
	}
}
