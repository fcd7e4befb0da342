// Package bigcache backs regioncache with an in-process allegro/bigcache
// instance. BigCache exposes no key enumeration and only a global LifeWindow
// for expiry, so the driver is flush-only (st.Flusher) and per-entry TTLs are
// not honored.
package bigcache

import (
	"context"
	"errors"
	"sync"
	"time"

	bc "github.com/allegro/bigcache/v3"

	st "github.com/unkn0wn-root/regioncache/store"
)

type Store struct {
	c *bc.BigCache

	// BigCache has no atomic insert; the mutex covers the check-then-set.
	mu sync.Mutex
}

var (
	_ st.Store   = (*Store)(nil)
	_ st.Flusher = (*Store)(nil)
)

type Config struct {
	LifeWindow         time.Duration
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*Store, error) {
	conf := bc.DefaultConfig(cfg.LifeWindow)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	b, err := s.c.Get(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return nil, false, nil
	}
	return b, err == nil, err
}

// Upsert stores value under key. BigCache does not support per-entry TTL;
// entries expire with the global LifeWindow.
func (s *Store) Upsert(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.c.Set(key, value)
}

func (s *Store) Insert(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.c.Get(key); err == nil {
		return st.ErrKeyExists
	} else if !errors.Is(err, bc.ErrEntryNotFound) {
		return err
	}
	return s.c.Set(key, value)
}

func (s *Store) Remove(_ context.Context, key string) error {
	err := s.c.Delete(key)
	if errors.Is(err, bc.ErrEntryNotFound) {
		return st.ErrKeyAbsent
	}
	return err
}

// Flush drops every entry in the cache.
func (s *Store) Flush(context.Context) error {
	return s.c.Reset()
}

func (s *Store) Close(context.Context) error {
	return s.c.Close()
}
