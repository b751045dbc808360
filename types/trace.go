package types

import (
	"encoding/json"
	"fmt"
	"os"
)

// traceFile matches the simulation engine's dump format when the accesses are
// wrapped in an object instead of a bare array.
type traceFile struct {
	Accesses []AccountAccess `json:"accesses"`
}

// ParseTrace decodes a simulation trace from its JSON dump. Both a bare array
// of touch records and an {"accesses": [...]} wrapper are accepted.
func ParseTrace(data []byte) ([]AccountAccess, error) {
	var accesses []AccountAccess
	if err := json.Unmarshal(data, &accesses); err == nil {
		return accesses, nil
	}

	var wrapped traceFile
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse trace: %v", err)
	}
	return wrapped.Accesses, nil
}

// LoadTrace reads and parses a simulation trace dump from disk.
func LoadTrace(path string) ([]AccountAccess, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trace file: %v", err)
	}
	return ParseTrace(data)
}
