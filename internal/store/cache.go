// Package store is the injected lookup cache: resolved domains with a TTL,
// plus the per-run audit trail. SQLite-backed so repeated runs don't re-burn
// search quota on companies already resolved.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"leadscout-engine/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS company_domains (
  company    TEXT PRIMARY KEY,
  domain     TEXT NOT NULL,
  fetched_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_audit (
  run_id     TEXT NOT NULL,
  company    TEXT NOT NULL,
  state      TEXT NOT NULL,
  emails     INTEGER NOT NULL,
  contacts   INTEGER NOT NULL,
  elapsed_ms INTEGER NOT NULL,
  created_at TEXT NOT NULL,
  PRIMARY KEY (run_id, company)
);
`

// Cache wraps the sqlite file. TTL applies to domain lookups; audit rows are
// append-only.
type Cache struct {
	db   *sql.DB
	lock *flock.Flock
	ttl  time.Duration
}

// Open opens (creating if needed) the cache at path. The flock guards the
// file against a second engine process; sqlite itself only tolerates one
// writer.
func Open(path string, ttl time.Duration) (*Cache, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("cache lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("cache %s: already in use by another process", path)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("cache schema: %w", err)
	}

	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Cache{db: db, lock: lock, ttl: ttl}, nil
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	if c.lock != nil {
		_ = c.lock.Unlock()
	}
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// GetDomain returns the cached domain for a company key, or "" when missing
// or expired.
func (c *Cache) GetDomain(ctx context.Context, companyKey string) (string, error) {
	companyKey = normalizeCacheKey(companyKey)
	if companyKey == "" {
		return "", nil
	}

	var dom, fetched string
	err := c.db.QueryRowContext(ctx,
		`SELECT domain, fetched_at FROM company_domains WHERE company = ? LIMIT 1;`,
		companyKey,
	).Scan(&dom, &fetched)

	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	t, err := time.Parse(time.RFC3339, fetched)
	if err != nil || time.Since(t) > c.ttl {
		return "", nil
	}
	return strings.TrimSpace(dom), nil
}

func (c *Cache) PutDomain(ctx context.Context, companyKey, dom string) error {
	companyKey = normalizeCacheKey(companyKey)
	dom = strings.ToLower(strings.TrimSpace(dom))
	if companyKey == "" || dom == "" {
		return nil
	}

	_, err := c.db.ExecContext(ctx, `
INSERT INTO company_domains(company, domain, fetched_at)
VALUES(?,?,?)
ON CONFLICT(company) DO UPDATE SET
  domain = excluded.domain,
  fetched_at = excluded.fetched_at;
`, companyKey, dom, time.Now().UTC().Format(time.RFC3339))

	return err
}

// PutAudit records how far a company made it in a run.
func (c *Cache) PutAudit(ctx context.Context, runID string, report domain.CompanyReport) error {
	key := normalizeCacheKey(report.Company.Key())
	if runID == "" || key == "" {
		return nil
	}

	_, err := c.db.ExecContext(ctx, `
INSERT INTO run_audit(run_id, company, state, emails, contacts, elapsed_ms, created_at)
VALUES(?,?,?,?,?,?,?)
ON CONFLICT(run_id, company) DO UPDATE SET
  state = excluded.state,
  emails = excluded.emails,
  contacts = excluded.contacts,
  elapsed_ms = excluded.elapsed_ms;
`,
		runID,
		key,
		string(report.State),
		report.Emails,
		len(report.Contacts),
		report.Elapsed.Milliseconds(),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func normalizeCacheKey(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}
