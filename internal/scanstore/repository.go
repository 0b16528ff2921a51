package scanstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	adomain "nathanbeddoewebdev/dnsweeper/internal/analysis/domain"
	"nathanbeddoewebdev/dnsweeper/internal/database"
	"nathanbeddoewebdev/dnsweeper/internal/domain"
	"nathanbeddoewebdev/dnsweeper/internal/util"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// minPrefix is the shortest ID prefix Get will match on.
const minPrefix = 4

var (
	ErrNotFound  = fmt.Errorf("scan %w", domain.ErrNotFound)
	ErrAmbiguous = fmt.Errorf("scan id prefix is ambiguous: %w", domain.ErrConflict)
)

// Repository defines the persistence interface for scans.
type Repository interface {
	Save(ctx context.Context, scan *Scan) error
	Get(ctx context.Context, id string) (*Scan, error)
	List(ctx context.Context, limit int) ([]Scan, error)
	ListByDomain(ctx context.Context, domainName string, limit int) ([]Scan, error)
	Latest(ctx context.Context, domainName string) (*Scan, error)
	Domains(ctx context.Context) ([]DomainEntry, error)
	Prune(ctx context.Context, olderThan time.Duration) (int64, error)
	Close() error
}

// SQLiteRepository implements Repository backed by a local SQLite database.
type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

var _ Repository = (*SQLiteRepository)(nil)

// Open creates or opens the scan store at the default path.
func Open(ctx context.Context) (*SQLiteRepository, error) {
	path, err := database.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("scanstore: %w", err)
	}
	return OpenAt(ctx, path)
}

// OpenAt creates or opens a scan store in the SQLite file at path.
func OpenAt(ctx context.Context, path string) (*SQLiteRepository, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scanstore: %w", err)
	}

	if err := database.Migrate(ctx, db, schema...); err != nil {
		db.Close()
		return nil, fmt.Errorf("scanstore: %w", err)
	}
	return &SQLiteRepository{db: db, now: time.Now}, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS domains (
        name      TEXT PRIMARY KEY,
        provider  TEXT NOT NULL DEFAULT '',
        last_scan TEXT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS scans (
        id                        TEXT    PRIMARY KEY,
        domain                    TEXT    NOT NULL REFERENCES domains(name) ON DELETE CASCADE,
        provider                  TEXT    NOT NULL DEFAULT '',
        scan_date                 TEXT    NOT NULL,
        total_records             INTEGER NOT NULL DEFAULT 0,
        garbage_count             INTEGER NOT NULL DEFAULT 0,
        safe_to_delete_count      INTEGER NOT NULL DEFAULT 0,
        review_needed_count       INTEGER NOT NULL DEFAULT 0,
        estimated_monthly_savings REAL    NOT NULL DEFAULT 0,
        duration_ms               INTEGER NOT NULL DEFAULT 0,
        result                    TEXT    NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_scans_scan_date ON scans(scan_date)`,
	`CREATE INDEX IF NOT EXISTS idx_scans_domain ON scans(domain, scan_date)`,
}

const scanColumns = `id, domain, provider, scan_date, total_records, garbage_count,
        safe_to_delete_count, review_needed_count, estimated_monthly_savings, duration_ms`

// Save inserts a scan and bumps its domain's last scan time.
func (r *SQLiteRepository) Save(ctx context.Context, scan *Scan) error {
	if scan.Result == nil {
		return errors.New("scanstore: scan has no result")
	}
	if scan.ID == "" {
		scan.ID = uuid.NewString()
	}
	if scan.ScanDate.IsZero() {
		scan.ScanDate = r.now()
	}
	scan.ScanDate = scan.ScanDate.UTC()
	scan.Domain = util.NormalizeHost(scan.Domain)

	blob, err := json.Marshal(scan.Result)
	if err != nil {
		return fmt.Errorf("scanstore: encode result: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("scanstore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	date := scan.ScanDate.Format(timeLayout)
	if _, err := tx.ExecContext(ctx, `
        INSERT INTO domains (name, provider, last_scan) VALUES (?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET
            provider  = excluded.provider,
            last_scan = MAX(domains.last_scan, excluded.last_scan)`,
		scan.Domain, scan.Provider, date,
	); err != nil {
		return fmt.Errorf("scanstore: upsert domain: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
        INSERT INTO scans (`+scanColumns+`, result)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		scan.ID, scan.Domain, scan.Provider, date,
		scan.Summary.TotalRecords, scan.Summary.GarbageCount,
		scan.Summary.SafeToDeleteCount, scan.Summary.ReviewNeededCount,
		scan.EstimatedMonthlySavings, scan.DurationMs, string(blob),
	); err != nil {
		return fmt.Errorf("scanstore: insert scan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("scanstore: commit: %w", err)
	}
	return nil
}

// Get returns a scan with its full result. id may be a unique prefix of at
// least four characters.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Scan, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return nil, ErrNotFound
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT `+scanColumns+`, result FROM scans WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("scanstore: query failed: %w", err)
	}
	scans, err := scanFullRows(rows)
	if err != nil {
		return nil, err
	}

	if len(scans) == 0 && len(id) >= minPrefix {
		rows, err = r.db.QueryContext(ctx, `
            SELECT `+scanColumns+`, result FROM scans
            WHERE id LIKE ? ESCAPE '\' LIMIT 2`, escapeLike(id)+"%")
		if err != nil {
			return nil, fmt.Errorf("scanstore: query failed: %w", err)
		}
		if scans, err = scanFullRows(rows); err != nil {
			return nil, err
		}
	}

	switch len(scans) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return &scans[0], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrAmbiguous, id)
	}
}

// List returns the most recent scans across all domains, newest first.
func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]Scan, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+scanColumns+` FROM scans
        ORDER BY scan_date DESC LIMIT ?`, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("scanstore: query failed: %w", err)
	}
	return scanRows(rows)
}

// ListByDomain returns the most recent scans of one domain, newest first.
func (r *SQLiteRepository) ListByDomain(ctx context.Context, domainName string, limit int) ([]Scan, error) {
	domainName = util.NormalizeHost(domainName)
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+scanColumns+` FROM scans WHERE domain = ?
        ORDER BY scan_date DESC LIMIT ?`, domainName, limitOrAll(limit))
	if err != nil {
		return nil, fmt.Errorf("scanstore: query failed: %w", err)
	}
	return scanRows(rows)
}

// Latest returns the newest scan of a domain with its full result.
func (r *SQLiteRepository) Latest(ctx context.Context, domainName string) (*Scan, error) {
	domainName = util.NormalizeHost(domainName)
	rows, err := r.db.QueryContext(ctx, `
        SELECT `+scanColumns+`, result FROM scans WHERE domain = ?
        ORDER BY scan_date DESC LIMIT 1`, domainName)
	if err != nil {
		return nil, fmt.Errorf("scanstore: query failed: %w", err)
	}
	scans, err := scanFullRows(rows)
	if err != nil {
		return nil, err
	}
	if len(scans) == 0 {
		return nil, fmt.Errorf("%w for domain %s", ErrNotFound, domainName)
	}
	return &scans[0], nil
}

// Domains lists every domain that has been scanned, most recent first.
func (r *SQLiteRepository) Domains(ctx context.Context) ([]DomainEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT d.name, d.provider, d.last_scan, COUNT(s.id)
        FROM domains d LEFT JOIN scans s ON s.domain = d.name
        GROUP BY d.name, d.provider, d.last_scan
        ORDER BY d.last_scan DESC, d.name`)
	if err != nil {
		return nil, fmt.Errorf("scanstore: query failed: %w", err)
	}
	defer rows.Close()

	var out []DomainEntry
	for rows.Next() {
		var (
			entry    DomainEntry
			lastScan string
		)
		if err := rows.Scan(&entry.Name, &entry.Provider, &lastScan, &entry.ScanCount); err != nil {
			return nil, fmt.Errorf("scanstore: scan failed: %w", err)
		}
		entry.LastScan, _ = time.Parse(timeLayout, lastScan)
		out = append(out, entry)
	}
	return out, rows.Err()
}

// Prune deletes scans older than the given duration and forgets domains
// left without any scans.
func (r *SQLiteRepository) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := r.now().UTC().Add(-olderThan).Format(timeLayout)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("scanstore: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM scans WHERE scan_date < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("scanstore: delete failed: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("scanstore: rows affected: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
        DELETE FROM domains WHERE NOT EXISTS (
            SELECT 1 FROM scans WHERE scans.domain = domains.name
        )`); err != nil {
		return 0, fmt.Errorf("scanstore: delete domains failed: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("scanstore: commit: %w", err)
	}
	return n, nil
}

// Close releases database resources.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

func limitOrAll(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner, extra ...any) (Scan, error) {
	var (
		s    Scan
		date string
	)
	dest := append([]any{
		&s.ID, &s.Domain, &s.Provider, &date,
		&s.Summary.TotalRecords, &s.Summary.GarbageCount,
		&s.Summary.SafeToDeleteCount, &s.Summary.ReviewNeededCount,
		&s.EstimatedMonthlySavings, &s.DurationMs,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return Scan{}, fmt.Errorf("scanstore: scan failed: %w", err)
	}
	s.ScanDate, _ = time.Parse(timeLayout, date)
	return s, nil
}

func scanRows(rows *sql.Rows) ([]Scan, error) {
	defer rows.Close()

	var out []Scan
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanFullRows(rows *sql.Rows) ([]Scan, error) {
	defer rows.Close()

	var out []Scan
	for rows.Next() {
		var blob string
		s, err := scanSummary(rows, &blob)
		if err != nil {
			return nil, err
		}
		var res adomain.Result
		if err := json.Unmarshal([]byte(blob), &res); err != nil {
			return nil, fmt.Errorf("scanstore: decode result for %s: %w", s.ID, err)
		}
		s.Result = &res
		out = append(out, s)
	}
	return out, rows.Err()
}
