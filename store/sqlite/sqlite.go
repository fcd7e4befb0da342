// Package sqlite backs regioncache with a SQLite database via
// modernc.org/sqlite (pure Go, no CGO).
//
// Each entry row carries a region column materialized from the storage-key
// shape at write time, and EnsureIndex builds a secondary index over it, so
// the driver classifies as an index-querying store (st.IndexQuerier +
// st.Provisioner). Keys that do not have the regioncache shape are stored
// with a NULL region and are invisible to region enumeration.
package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/unkn0wn-root/regioncache/internal/keys"
	st "github.com/unkn0wn-root/regioncache/store"
)

type SQLite struct {
	db     *sql.DB
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

var (
	_ st.Store        = (*SQLite)(nil)
	_ st.IndexQuerier = (*SQLite)(nil)
	_ st.Provisioner  = (*SQLite)(nil)
	_ st.Flusher      = (*SQLite)(nil)
)

type Config struct {
	// Path of the database file. Empty or ":memory:" selects an in-memory
	// database.
	Path string
	// SweepInterval controls how often expired rows are pruned. 0 => 1m.
	SweepInterval time.Duration
}

func New(ctx context.Context, cfg Config) (*SQLite, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	}

	// WAL mode for concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS cache_entries (
		key        TEXT PRIMARY KEY,
		region     TEXT,
		value      BLOB NOT NULL,
		expires_at INTEGER NOT NULL DEFAULT 0
	)`); err != nil {
		db.Close()
		return nil, err
	}

	sweep := cfg.SweepInterval
	if sweep <= 0 {
		sweep = time.Minute
	}

	childCtx, cancel := context.WithCancel(ctx)
	s := &SQLite{db: db, ctx: childCtx, cancel: cancel}

	s.wg.Add(1)
	go s.run(sweep)

	return s, nil
}

// EnsureIndex creates the secondary index over the region column. CREATE
// INDEX IF NOT EXISTS is idempotent; a racing create from another instance
// that slips past the existence check still reports "already exists", which
// is accepted as success.
func (s *SQLite) EnsureIndex(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS cache_entries_region_idx ON cache_entries(region)`)
	if err != nil && strings.Contains(err.Error(), "already exists") {
		return nil
	}
	return err
}

func (s *SQLite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		value     []byte
		expiresAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, expires_at FROM cache_entries WHERE key = ?`, key,
	).Scan(&value, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if expired(expiresAt) {
		// Lazily drop the expired row.
		_, _ = s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
		return nil, false, nil
	}
	return value, true, nil
}

func (s *SQLite) Upsert(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, region, value, expires_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET region = excluded.region, value = excluded.value, expires_at = excluded.expires_at`,
		key, regionOf(key), value, expiry(ttl),
	)
	return err
}

func (s *SQLite) Insert(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// An expired row does not count as an existing entry.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE key = ? AND expires_at > 0 AND expires_at < ?`,
		key, time.Now().UnixNano(),
	); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO cache_entries (key, region, value, expires_at) VALUES (?, ?, ?, ?)`,
		key, regionOf(key), value, expiry(ttl),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return st.ErrKeyExists
	}
	return tx.Commit()
}

func (s *SQLite) Remove(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return st.ErrKeyAbsent
	}
	return nil
}

// RegionKeys enumerates the live storage keys of one region via the region
// index. Rows with a NULL region (foreign data) never match, including for
// the unnamed region.
func (s *SQLite) RegionKeys(ctx context.Context, region string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key FROM cache_entries WHERE region = ? AND (expires_at = 0 OR expires_at >= ?)`,
		region, time.Now().UnixNano(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

// Flush destroys every row, foreign data included.
func (s *SQLite) Flush(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	return err
}

func (s *SQLite) Close(context.Context) error {
	var dbErr error
	s.once.Do(func() {
		s.cancel()
		s.wg.Wait()
		dbErr = s.db.Close()
	})
	return dbErr
}

func (s *SQLite) run(sweep time.Duration) {
	defer s.wg.Done()
	ticker := time.NewTicker(sweep)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.db.Exec(`DELETE FROM cache_entries WHERE expires_at > 0 AND expires_at < ?`,
				time.Now().UnixNano())
		}
	}
}

// regionOf materializes the region column from the storage-key shape,
// matching the enumeration predicate of the key codec. Non-cache keys get a
// NULL region.
func regionOf(key string) sql.NullString {
	region, ok := keys.Region(key)
	if !ok {
		return sql.NullString{}
	}
	return sql.NullString{String: region, Valid: true}
}

func expiry(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return time.Now().Add(ttl).UnixNano()
}

func expired(expiresAt int64) bool {
	return expiresAt > 0 && expiresAt < time.Now().UnixNano()
}
