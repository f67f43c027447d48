// Package storage remembers the last exported version of each record.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store maps a record key to the fingerprint of its last exported version.
type Store interface {
	Close() error
	// Exported returns the stored fingerprint for key, or "" when the record
	// was never exported or its entry expired.
	Exported(key string) (string, error)
	Mark(key, fingerprint string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	RecordTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultRecordTTL       = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// Key builds the store key of one record.
func Key(resource, recordID string) string {
	return resource + "/" + recordID
}

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		store, err := openBolt(path, opts)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.RecordTTL <= 0 {
		opts.RecordTTL = defaultRecordTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                    { return nil }
func (noopStore) Exported(string) (string, error) { return "", nil }
func (noopStore) Mark(string, string) error       { return nil }
