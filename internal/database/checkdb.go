package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/torlook/internal/model"
)

// CheckDB provides SQLite-based storage for exit-node check results.
// It manages connection pooling and provides methods for recording and
// querying check history.
//
// Design decision: We use a single database file for all checked
// addresses rather than one file per source. Cross-address queries
// ("which of my visitors were exits last week") stay cheap and
// backup/restore is a single-file copy.
type CheckDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CheckDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CheckDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CheckDB, error) {
	dbPath := filepath.Join(dbDir, "torlook.db")

	// Check if we should create the database or require it to exist
	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer, so a single connection avoids
	// SQLITE_BUSY churn without hurting this workload.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CheckDB{
		db:     db,
		dbPath: dbPath,
	}

	// Enable WAL mode if requested
	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Create tables
	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CheckDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CheckDB) createTables() error {
	schema := `
	-- Check results store individual exit-node lookups
	CREATE TABLE IF NOT EXISTS check_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		target TEXT,
		schema_name TEXT NOT NULL,
		outcome TEXT NOT NULL,
		answer TEXT,
		error TEXT,
		checked_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_results_source ON check_results(source);
	CREATE INDEX IF NOT EXISTS idx_results_checked_at ON check_results(checked_at);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveResult records a single check result.
func (cdb *CheckDB) SaveResult(ctx context.Context, result *model.CheckResult) (int64, error) {
	query := `
	INSERT INTO check_results (source, target, schema_name, outcome, answer, error, checked_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := cdb.db.ExecContext(ctx, query,
		result.Source,
		result.Target,
		result.Schema,
		result.OutcomeText,
		result.Answer,
		result.Err,
		result.CheckedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save check result: %w", err)
	}

	return res.LastInsertId()
}

// GetLatestResult retrieves the most recent check result for a source address.
// Returns nil without error when the address has never been checked.
func (cdb *CheckDB) GetLatestResult(ctx context.Context, source string) (*model.CheckResult, error) {
	query := `
	SELECT source, target, schema_name, outcome, answer, error, checked_at
	FROM check_results
	WHERE source = ?
	ORDER BY checked_at DESC, id DESC
	LIMIT 1
	`

	row := cdb.db.QueryRowContext(ctx, query, source)
	result, err := scanResult(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get check result: %w", err)
	}

	return result, nil
}

// GetHistory retrieves the check history for a source address, newest first.
// A limit of zero or less returns the full history.
func (cdb *CheckDB) GetHistory(ctx context.Context, source string, limit int) ([]*model.CheckResult, error) {
	query := `
	SELECT source, target, schema_name, outcome, answer, error, checked_at
	FROM check_results
	WHERE source = ?
	ORDER BY checked_at DESC, id DESC
	`
	args := []interface{}{source}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get check history: %w", err)
	}
	defer rows.Close()

	var results []*model.CheckResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check result: %w", err)
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

// HasRecentCheck reports whether a source was checked within the specified duration.
func (cdb *CheckDB) HasRecentCheck(ctx context.Context, source string, duration time.Duration) (bool, error) {
	query := `
	SELECT COUNT(*) FROM check_results
	WHERE source = ? AND checked_at > datetime('now', ?)
	`

	// SQLite datetime modifier format
	modifier := fmt.Sprintf("-%d seconds", int(duration.Seconds()))

	var count int
	err := cdb.db.QueryRowContext(ctx, query, source, modifier).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check recent result: %w", err)
	}

	return count > 0, nil
}

// ListCheckedSources returns all source addresses with at least one recorded check.
func (cdb *CheckDB) ListCheckedSources(ctx context.Context) ([]string, error) {
	query := `
	SELECT DISTINCT source FROM check_results
	ORDER BY source
	`

	rows, err := cdb.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// rowScanner abstracts sql.Row and sql.Rows so one scan routine serves both.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanResult reads one check_results row into a model.CheckResult.
func scanResult(row rowScanner) (*model.CheckResult, error) {
	var result model.CheckResult
	var target, answer, errText sql.NullString
	var checkedAt string

	if err := row.Scan(
		&result.Source,
		&target,
		&result.Schema,
		&result.OutcomeText,
		&answer,
		&errText,
		&checkedAt,
	); err != nil {
		return nil, err
	}

	result.Target = target.String
	result.Answer = answer.String
	result.Err = errText.String
	result.Outcome = model.ParseOutcome(result.OutcomeText)
	result.CheckedAt = parseTimestamp(checkedAt)

	return &result, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
