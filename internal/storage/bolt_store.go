package storage

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var (
	recordsBucket = []byte("exported_records")

	errBucketMissing = errors.New("exported records bucket missing")
)

// entry is the stored value of one record: an 8 byte big-endian unix expiry
// followed by the fingerprint.
type entry struct {
	expiresAt   time.Time
	fingerprint string
}

func (e entry) encode() []byte {
	buf := make([]byte, 8, 8+len(e.fingerprint))
	binary.BigEndian.PutUint64(buf, uint64(e.expiresAt.Unix()))
	return append(buf, e.fingerprint...)
}

func decodeEntry(raw []byte) (entry, bool) {
	if len(raw) <= 8 {
		return entry{}, false
	}
	unix := int64(binary.BigEndian.Uint64(raw[:8]))
	if unix <= 0 {
		return entry{}, false
	}
	return entry{expiresAt: time.Unix(unix, 0), fingerprint: string(raw[8:])}, true
}

func (e entry) live(now time.Time) bool {
	return e.expiresAt.After(now)
}

// boltStore keeps one entry per record, so a record that changes often
// still occupies a single key.
type boltStore struct {
	db  *bolt.DB
	ttl time.Duration
	now func() time.Time

	mu           sync.Mutex
	sweepEvery   time.Duration
	nextSweepDue time.Time
}

func openBolt(path string, opts Options) (*boltStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(recordsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	s := &boltStore{db: db, ttl: opts.RecordTTL, now: time.Now, sweepEvery: opts.CleanupInterval}
	s.nextSweepDue = s.now().Add(s.sweepEvery)
	return s, nil
}

func (s *boltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Exported is read-only; stale entries are left to the sweep.
func (s *boltStore) Exported(key string) (string, error) {
	if err := s.sweepIfDue(); err != nil {
		return "", err
	}

	var fingerprint string
	err := s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(recordsBucket)
		if bucket == nil {
			return errBucketMissing
		}
		if e, ok := decodeEntry(bucket.Get([]byte(key))); ok && e.live(s.now()) {
			fingerprint = e.fingerprint
		}
		return nil
	})
	return fingerprint, err
}

// Mark replaces the record's entry and restarts its TTL.
func (s *boltStore) Mark(key, fingerprint string) error {
	if fingerprint == "" {
		return errors.New("mark requires a fingerprint")
	}
	if err := s.sweepIfDue(); err != nil {
		return err
	}

	value := entry{expiresAt: s.now().Add(s.ttl), fingerprint: fingerprint}.encode()
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(recordsBucket)
		if bucket == nil {
			return errBucketMissing
		}
		return bucket.Put([]byte(key), value)
	})
}

func (s *boltStore) sweepIfDue() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Before(s.nextSweepDue) {
		return nil
	}
	if _, err := s.sweep(now); err != nil {
		return err
	}
	s.nextSweepDue = now.Add(s.sweepEvery)
	return nil
}

// sweep deletes expired or unreadable entries and reports how many went.
func (s *boltStore) sweep(now time.Time) (int, error) {
	var stale [][]byte
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(recordsBucket)
		if bucket == nil {
			return errBucketMissing
		}
		err := bucket.ForEach(func(k, v []byte) error {
			if e, ok := decodeEntry(v); !ok || !e.live(now) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := bucket.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(stale), nil
}
