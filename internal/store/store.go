// Package store is the durable record store for crash records.
package store

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/crashspot/internal/contract"
	"github.com/huangsam/crashspot/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// CrashesTable is the table holding crash records.
const CrashesTable = "crashspot_crashes"

// RecordStoreImpl implements the RecordStore interface on database/sql.
type RecordStoreImpl struct {
	db         *sql.DB
	tableName  string
	backend    schema.DatabaseBackend
	driverName string
	connStr    string
}

var _ contract.RecordStore = &RecordStoreImpl{} // Compile-time check

// NewRecordStore opens the store for the given backend and ensures the table exists.
func NewRecordStore(backend schema.DatabaseBackend, connStr string) (contract.RecordStore, error) {
	return newRecordStore(CrashesTable, backend, connStr)
}

func newRecordStore(tableName string, backend schema.DatabaseBackend, connStr string) (*RecordStoreImpl, error) {
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		// Return a no-op store for disabled persistence
		return &RecordStoreImpl{tableName: tableName, backend: backend}, nil
	}

	db, driverName, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	// Ping to verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, &contract.ConnectionError{Backend: backend, Err: err}
	}

	if _, err := db.Exec(getCreateCrashesQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &RecordStoreImpl{
		db:         db,
		tableName:  tableName,
		backend:    backend,
		driverName: driverName,
		connStr:    connStr,
	}, nil
}

// openDB opens a database handle for the backend without verifying the connection.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, string, error) {
	var db *sql.DB
	var err error
	var driverName string

	switch backend {
	case schema.SQLiteBackend:
		driverName = "sqlite"
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetDBFilePath()
		}
		db, err = sql.Open(driverName, dbPath)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		driverName = "mysql"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		driverName = "pgx"
		db, err = sql.Open(driverName, connStr)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=... user=... password=...", err)
		}

	default:
		return nil, "", fmt.Errorf("unsupported backend: %s", backend)
	}

	return db, driverName, nil
}

// getCreateCrashesQuery returns the CREATE TABLE query for the crash records table.
func getCreateCrashesQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				collision_id BIGINT NOT NULL,
				crash_date DATE NOT NULL,
				crash_time VARCHAR(5) NOT NULL,
				borough VARCHAR(32),
				zip_code VARCHAR(10),
				latitude VARCHAR(32),
				longitude VARCHAR(32),
				on_street_name VARCHAR(255),
				persons_injured INT NOT NULL DEFAULT 0,
				persons_killed INT NOT NULL DEFAULT 0,
				contributing_factor VARCHAR(255),
				vehicle_type VARCHAR(255)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id BIGSERIAL PRIMARY KEY,
				collision_id BIGINT NOT NULL,
				crash_date DATE NOT NULL,
				crash_time TEXT NOT NULL,
				borough TEXT,
				zip_code TEXT,
				latitude TEXT,
				longitude TEXT,
				on_street_name TEXT,
				persons_injured INT NOT NULL DEFAULT 0,
				persons_killed INT NOT NULL DEFAULT 0,
				contributing_factor TEXT,
				vehicle_type TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				collision_id INTEGER NOT NULL,
				crash_date TEXT NOT NULL,
				crash_time TEXT NOT NULL,
				borough TEXT,
				zip_code TEXT,
				latitude TEXT,
				longitude TEXT,
				on_street_name TEXT,
				persons_injured INTEGER NOT NULL DEFAULT 0,
				persons_killed INTEGER NOT NULL DEFAULT 0,
				contributing_factor TEXT,
				vehicle_type TEXT
			);
		`, quotedTableName)
	}
}

// Close closes the database connection.
func (rs *RecordStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// disabled reports whether the store is the no-op backend.
func (rs *RecordStoreImpl) disabled() bool {
	return rs.backend == schema.NoneBackend || rs.db == nil
}

// validateTableName validates that the table name is a safe SQL identifier.
// It ensures the name consists only of alphanumeric characters and underscores,
// starting with a letter or underscore, to prevent SQL injection.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	matched, err := regexp.MatchString(`^[a-zA-Z_][a-zA-Z0-9_]*$`, name)
	if err != nil {
		return fmt.Errorf("error validating table name: %w", err)
	}
	if !matched {
		return fmt.Errorf("invalid table name: %s (must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$)", name)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

// rebind rewrites "?" placeholders into the backend's placeholder style.
func rebind(query string, backend schema.DatabaseBackend) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// placeholders returns n comma-separated "?" placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// dateArg formats a calendar date as a bind value.
func dateArg(d time.Time) string {
	return schema.DayOf(d).Format(schema.DateLayout)
}

// scanDate normalizes a scanned date column across drivers.
// SQLite returns TEXT, pgx returns time.Time and MySQL returns either depending on parseTime.
func scanDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return schema.DayOf(d), nil
	case []byte:
		return parseDateText(string(d))
	case string:
		return parseDateText(d)
	case nil:
		return time.Time{}, fmt.Errorf("unexpected NULL date")
	default:
		return time.Time{}, fmt.Errorf("unexpected date type %T", v)
	}
}

func parseDateText(s string) (time.Time, error) {
	if len(s) < len(schema.DateLayout) {
		return time.Time{}, fmt.Errorf("invalid stored date %q", s)
	}
	return schema.ParseDate(s[:len(schema.DateLayout)])
}
