package db

import (
	"encoding/json"
	"fmt"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// Cache is a LevelDB-backed store for external documents (registry snapshots,
// storage-layout schemas) so repeated audits do not refetch them.
type Cache struct {
	db *leveldb.DB
}

// OpenCache opens (or creates) the cache at path.
func OpenCache(path string) (*Cache, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{ErrorIfMissing: false})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %v", err)
	}
	return &Cache{db: db}, nil
}

// GetJSON looks up key and unmarshals the stored document into out. The first
// return value reports whether the key was present.
func (c *Cache) GetJSON(key string, out interface{}) (bool, error) {
	data, err := c.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key %s: %v", key, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to decode cached document %s: %v", key, err)
	}
	return true, nil
}

// PutJSON stores v under key as JSON.
func (c *Cache) PutJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %v", key, err)
	}
	return c.db.Put([]byte(key), data, nil)
}

// Delete removes key from the cache. Missing keys are not an error.
func (c *Cache) Delete(key string) error {
	return c.db.Delete([]byte(key), nil)
}

// Close shuts down the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
