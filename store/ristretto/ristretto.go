// Package ristretto backs regioncache with an in-process dgraph-io/ristretto
// cache. Ristretto cannot enumerate its keys, so the driver is flush-only
// (st.Flusher): scoped region clears are not available on this store.
package ristretto

import (
	"context"
	"errors"
	"sync"
	"time"

	rc "github.com/dgraph-io/ristretto"

	st "github.com/unkn0wn-root/regioncache/store"
)

type Store struct {
	c *rc.Cache

	// Ristretto has no atomic insert and applies writes asynchronously; the
	// mutex plus Wait makes Insert's existence check reliable.
	mu sync.Mutex
}

var (
	_ st.Store   = (*Store)(nil)
	_ st.Flusher = (*Store)(nil)
)

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c}, nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		s.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (s *Store) Upsert(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(key, value, ttl)
	return nil
}

func (s *Store) Insert(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.c.Get(key); ok {
		return st.ErrKeyExists
	}
	s.set(key, value, ttl)
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.c.Get(key); !ok {
		return st.ErrKeyAbsent
	}
	s.c.Del(key)
	return nil
}

// Flush drops every entry in the cache.
func (s *Store) Flush(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Clear()
	return nil
}

func (s *Store) Close(context.Context) error {
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes ristretto metrics if enabled (not part of store.Store).
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }

func (s *Store) set(key string, value []byte, ttl time.Duration) {
	cost := int64(len(value))
	if cost == 0 {
		cost = 1
	}
	if ttl > 0 {
		s.c.SetWithTTL(key, value, cost, ttl)
	} else {
		s.c.Set(key, value, cost)
	}
	s.c.Wait() // make the write visible to subsequent existence checks
}
