package iocache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/mades/core"
	"github.com/huangsam/mades/internal/contract"
	"github.com/huangsam/mades/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// RecordStoreImpl keeps one snapshot row per recovery code in a SQL database.
type RecordStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
	now       func() time.Time
}

var _ contract.RemoteStore = &RecordStoreImpl{} // Compile-time check

// driverName maps a backend to its database/sql driver.
func driverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported remote backend: %s. Must be sqlite, mysql or postgresql", backend)
	}
}

// openDB opens and pings a connection for the backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	driver, err := driverName(backend)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, connStr)
	if err != nil {
		switch backend {
		case schema.MySQLBackend:
			return nil, fmt.Errorf("failed to connect to MySQL: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		case schema.PostgreSQLBackend:
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		default:
			return nil, fmt.Errorf("failed to initialize SQLite at %q: %w. Ensure the directory is writable", connStr, err)
		}
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

// NewRecordStore migrates the schema to the latest version and opens the store.
func NewRecordStore(backend schema.DatabaseBackend, connStr string) (*RecordStoreImpl, error) {
	if err := validateTableName(syncTable); err != nil {
		return nil, err
	}
	if _, err := MigrateRemote(backend, connStr, -1); err != nil {
		return nil, err
	}
	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	return &RecordStoreImpl{
		db:        db,
		tableName: syncTable,
		backend:   backend,
		connStr:   connStr,
		now:       time.Now,
	}, nil
}

// placeholders returns n positional parameters for the backend.
func (rs *RecordStoreImpl) placeholders(n int) []any {
	out := make([]any, n)
	for i := range out {
		if rs.backend == schema.PostgreSQLBackend {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

// Fetch returns the snapshot stored under code or contract.ErrRecordNotFound.
// Stored payloads are decoded with the same defaults as local data.
func (rs *RecordStoreImpl) Fetch(ctx context.Context, code string) (schema.Snapshot, error) {
	p := rs.placeholders(1)
	query := fmt.Sprintf(`SELECT tasks, config FROM %s WHERE recovery_code = %s`,
		quoteTableName(rs.tableName, rs.backend), p[0])

	var tasks, config string
	err := rs.db.QueryRowContext(ctx, query, code).Scan(&tasks, &config)
	if errors.Is(err, sql.ErrNoRows) {
		return schema.Snapshot{}, fmt.Errorf("%w: %s", contract.ErrRecordNotFound, code)
	}
	if err != nil {
		return schema.Snapshot{}, fmt.Errorf("failed to fetch record: %w", err)
	}

	return schema.Snapshot{
		Tasks:  core.DecodeTasks([]byte(tasks), rs.now()),
		Config: core.DecodeSettings([]byte(config)),
	}, nil
}

func encodeSnapshot(snap schema.Snapshot) (string, string, error) {
	tasks, err := core.EncodeTasks(snap.Tasks)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode tasks: %w", err)
	}
	config, err := core.EncodeSettings(snap.Config)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode config: %w", err)
	}
	return string(tasks), string(config), nil
}

// Insert creates a new record. It fails if the code is already taken.
func (rs *RecordStoreImpl) Insert(ctx context.Context, code string, snap schema.Snapshot) error {
	tasks, config, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	p := rs.placeholders(4)
	query := fmt.Sprintf(`INSERT INTO %s (recovery_code, tasks, config, updated_at) VALUES (%s, %s, %s, %s)`,
		quoteTableName(rs.tableName, rs.backend), p[0], p[1], p[2], p[3])
	if _, err := rs.db.ExecContext(ctx, query, code, tasks, config, rs.now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to insert record: %w", err)
	}
	return nil
}

// Upsert creates or replaces the record for code.
func (rs *RecordStoreImpl) Upsert(ctx context.Context, code string, snap schema.Snapshot) error {
	tasks, config, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	if _, err := rs.db.ExecContext(ctx, rs.getUpsertQuery(), code, tasks, config, rs.now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

// getUpsertQuery returns the UPSERT query for the backend.
func (rs *RecordStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(rs.tableName, rs.backend)
	switch rs.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (recovery_code, tasks, config, updated_at) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE tasks = new.tasks, config = new.config, updated_at = new.updated_at`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (recovery_code, tasks, config, updated_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (recovery_code) DO UPDATE SET tasks = EXCLUDED.tasks, config = EXCLUDED.config, updated_at = EXCLUDED.updated_at`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (recovery_code, tasks, config, updated_at) VALUES (?, ?, ?, ?)`, quotedTableName)
	}
}

// Delete removes the record for code, if any.
func (rs *RecordStoreImpl) Delete(ctx context.Context, code string) error {
	p := rs.placeholders(1)
	query := fmt.Sprintf(`DELETE FROM %s WHERE recovery_code = %s`, quoteTableName(rs.tableName, rs.backend), p[0])
	if _, err := rs.db.ExecContext(ctx, query, code); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// Clear removes every record while keeping the schema.
func (rs *RecordStoreImpl) Clear(ctx context.Context) error {
	query := fmt.Sprintf(`DELETE FROM %s`, quoteTableName(rs.tableName, rs.backend))
	if _, err := rs.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}

// Close closes the underlying DB connection.
func (rs *RecordStoreImpl) Close() error {
	if rs.db != nil {
		return rs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the remote store.
func (rs *RecordStoreImpl) GetStatus() (schema.RemoteStatus, error) {
	status := schema.RemoteStatus{
		Backend:   string(rs.backend),
		Connected: rs.db != nil,
	}
	if rs.db == nil {
		return status, nil
	}

	quotedTableName := quoteTableName(rs.tableName, rs.backend)

	row := rs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName))
	if err := row.Scan(&status.TotalRecords); err != nil {
		return status, fmt.Errorf("failed to get total records: %w", err)
	}
	if status.TotalRecords == 0 {
		return status, nil
	}

	var lastMs, oldestMs int64
	row = rs.db.QueryRow(fmt.Sprintf("SELECT MAX(updated_at), MIN(updated_at) FROM %s", quotedTableName))
	if err := row.Scan(&lastMs, &oldestMs); err != nil {
		return status, fmt.Errorf("failed to get update times: %w", err)
	}
	status.LastUpdateTime = time.UnixMilli(lastMs)
	status.OldestEntryTime = time.UnixMilli(oldestMs)

	// Fallback rough estimate if the backend-specific size query fails
	status.TableSizeBytes = int64(status.TotalRecords) * 1000

	switch rs.backend {
	case schema.SQLiteBackend:
		row = rs.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		_ = row.Scan(&status.TableSizeBytes)
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(rs.connStr)
		if err != nil || cfg.DBName == "" {
			break
		}
		row = rs.db.QueryRow("SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?", cfg.DBName, rs.tableName)
		_ = row.Scan(&status.TableSizeBytes)
	case schema.PostgreSQLBackend:
		row = rs.db.QueryRow("SELECT pg_total_relation_size($1)", rs.tableName)
		_ = row.Scan(&status.TableSizeBytes)
	}

	return status, nil
}
