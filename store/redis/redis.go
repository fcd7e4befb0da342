// Package redis backs regioncache with a Redis server.
//
// Redis has no secondary index over the cache keyspace, but it does offer a
// declarative cursor scan, so the driver is classified as a scan-capable
// store (st.Scanner) and also supports whole-database flushes (st.Flusher).
package redis

import (
	"context"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	st "github.com/unkn0wn-root/regioncache/store"
)

var ErrNilClient = errors.New("redis store: nil client")

type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
	scanCount   int64
}

var (
	_ st.Store   = (*Redis)(nil)
	_ st.Scanner = (*Redis)(nil)
	_ st.Flusher = (*Redis)(nil)
)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool  // set true only if this store exclusively owns the client
	ScanCount   int64 // batch hint for SCAN; 0 => 256
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	count := cfg.ScanCount
	if count <= 0 {
		count = 256
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient, scanCount: count}, nil
}

func (s *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := s.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (s *Redis) Upsert(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 0 // non-positive TTL means "no expiry" per store contract
	}
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *Redis) Insert(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = 0
	}
	ok, err := s.rdb.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return st.ErrKeyExists
	}
	return nil
}

func (s *Redis) Remove(ctx context.Context, key string) error {
	n, err := s.rdb.Del(ctx, key).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return st.ErrKeyAbsent
	}
	return nil
}

// ScanKeys walks the keyspace with SCAN and collects every key starting with
// prefix. The prefix is escaped so glob metacharacters in region or cache key
// names match literally.
func (s *Redis) ScanKeys(ctx context.Context, prefix string) ([]string, error) {
	match := escapeGlob(prefix) + "*"

	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := s.rdb.Scan(ctx, cursor, match, s.scanCount).Result()
		if err != nil {
			return nil, err
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

// Flush destroys the entire logical database, including data that does not
// belong to any cache region.
func (s *Redis) Flush(ctx context.Context) error {
	return s.rdb.FlushDB(ctx).Err()
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Redis) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

func escapeGlob(s string) string { return globEscaper.Replace(s) }
