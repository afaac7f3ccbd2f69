package store

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"goaround-bot/internal/constants"
)

// MemoryStore keeps hashes and strings in process memory with per-key expiry
type MemoryStore struct {
	cache  *cache.Cache
	mu     sync.Mutex
	logger *logrus.Logger
}

// snapshotEntry is one key of the JSON snapshot file
type snapshotEntry struct {
	Hash       map[string]string `json:"hash,omitempty"`
	Value      *string           `json:"value,omitempty"`
	Expiration int64             `json:"expiration,omitempty"`
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(logger *logrus.Logger) *MemoryStore {
	return &MemoryStore{
		cache:  cache.New(cache.NoExpiration, constants.MemoryCleanupInterval),
		logger: logger,
	}
}

// HGet returns one field of a hash
func (s *MemoryStore) HGet(_ context.Context, key, field string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, _, err := s.hash(key)
	if err != nil {
		return "", false, err
	}
	value, ok := hash[field]
	return value, ok, nil
}

// HGetAll returns a copy of every field of a hash
func (s *MemoryStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, _, err := s.hash(key)
	if err != nil {
		return nil, err
	}
	return maps.Clone(hash), nil
}

// HSet writes fields of a hash keeping its current expiry
func (s *MemoryStore) HSet(_ context.Context, key string, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, expiration, err := s.hash(key)
	if err != nil {
		return err
	}
	next := mergeHash(hash, values)
	s.cache.Set(key, next, remaining(expiration))
	return nil
}

// HSetTTL writes fields of a hash and resets its expiry
func (s *MemoryStore) HSetTTL(_ context.Context, key string, values map[string]string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, _, err := s.hash(key)
	if err != nil {
		return err
	}
	s.cache.Set(key, mergeHash(hash, values), expiry(ttl))
	return nil
}

// HDel removes fields of a hash, dropping the key when it becomes empty
func (s *MemoryStore) HDel(_ context.Context, key string, fields ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, expiration, err := s.hash(key)
	if err != nil {
		return err
	}
	if hash == nil {
		return nil
	}
	next := maps.Clone(hash)
	for _, field := range fields {
		delete(next, field)
	}
	if len(next) == 0 {
		s.cache.Delete(key)
		return nil
	}
	s.cache.Set(key, next, remaining(expiration))
	return nil
}

// Expire resets the expiry of a key; missing keys are ignored
func (s *MemoryStore) Expire(_ context.Context, key string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	value, found := s.cache.Get(key)
	if !found {
		return nil
	}
	s.cache.Set(key, value, expiry(ttl))
	return nil
}

// Get returns a string value
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, found := s.cache.Get(key)
	if !found {
		return "", false, nil
	}
	value, ok := data.(string)
	if !ok {
		return "", false, fmt.Errorf("key %s does not hold a string value", key)
	}
	return value, true, nil
}

// Set writes a string value
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Set(key, value, expiry(ttl))
	return nil
}

// Close flushes nothing; the snapshot is written explicitly with Save
func (s *MemoryStore) Close() error {
	return nil
}

// Load restores the store from a snapshot file written by Save
func (s *MemoryStore) Load(filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(filename)
	if os.IsNotExist(err) {
		s.logger.Info("Snapshot file does not exist, starting with empty store")
		return nil
	}
	if err != nil {
		return err
	}

	var entries map[string]snapshotEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to parse snapshot: %w", err)
	}

	now := time.Now()
	restored := 0
	for key, entry := range entries {
		ttl := cache.NoExpiration
		if entry.Expiration > 0 {
			ttl = time.Unix(0, entry.Expiration).Sub(now)
			if ttl <= 0 {
				continue
			}
		}
		switch {
		case entry.Hash != nil:
			s.cache.Set(key, entry.Hash, ttl)
		case entry.Value != nil:
			s.cache.Set(key, *entry.Value, ttl)
		default:
			continue
		}
		restored++
	}

	s.logger.Infof("Restored %d keys from snapshot %s", restored, filename)
	return nil
}

// Save writes every live key to a snapshot file atomically
func (s *MemoryStore) Save(filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.cache.Items()
	entries := make(map[string]snapshotEntry, len(items))
	for key, item := range items {
		entry := snapshotEntry{Expiration: item.Expiration}
		switch value := item.Object.(type) {
		case map[string]string:
			entry.Hash = value
		case string:
			entry.Value = &value
		default:
			continue
		}
		entries[key] = entry
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmpFile := filename + ".tmp"
	if err := os.WriteFile(tmpFile, data, constants.DefaultSnapshotFileMode); err != nil {
		return err
	}

	return os.Rename(tmpFile, filename)
}

// hash returns the hash stored under key and its expiry; it assumes the mutex is held
func (s *MemoryStore) hash(key string) (map[string]string, time.Time, error) {
	data, expiration, found := s.cache.GetWithExpiration(key)
	if !found {
		return nil, time.Time{}, nil
	}
	hash, ok := data.(map[string]string)
	if !ok {
		return nil, time.Time{}, fmt.Errorf("key %s does not hold a hash", key)
	}
	return hash, expiration, nil
}

func mergeHash(hash, values map[string]string) map[string]string {
	next := make(map[string]string, len(hash)+len(values))
	maps.Copy(next, hash)
	maps.Copy(next, values)
	return next
}

func expiry(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return cache.NoExpiration
	}
	return ttl
}

func remaining(expiration time.Time) time.Duration {
	if expiration.IsZero() {
		return cache.NoExpiration
	}
	if left := time.Until(expiration); left > 0 {
		return left
	}
	return time.Nanosecond
}
