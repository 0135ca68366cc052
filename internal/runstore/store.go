package runstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/seisread/internal/contract"
	"github.com/huangsam/seisread/internal/log"
	"github.com/huangsam/seisread/schema"

	_ "github.com/go-sql-driver/mysql" // mysql driver
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	_ "modernc.org/sqlite"             // sqlite driver
)

// runsTable is the name of the table holding one row per conversion run.
const runsTable = "seisread_runs"

const runColumns = `run_id, run_uuid, file_path, anchor_date, start_time, end_time, run_duration_ms,
	status, sample_count, sum_x, sum_y, sum_z, max_x, max_y, max_z, error_message`

// SQLStore implements contract.RunStore on top of database/sql.
type SQLStore struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.RunStore = &SQLStore{} // Compile-time check

// NewRunStore opens the store for backend and migrates it to the latest
// schema version.
// The none backend returns a store that accepts and discards everything.
func NewRunStore(backend schema.DatabaseBackend, connStr string) (contract.RunStore, error) {
	if backend == schema.NoneBackend {
		return &SQLStore{backend: backend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connectionHint(backend))
	}

	if err := upgradeRuns(db, backend, connStr); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to prepare runs table: %w", err)
	}

	log.Infow("run store ready", "backend", backend)
	return &SQLStore{db: db, backend: backend}, nil
}

// openDB opens a handle for the backend without touching the network.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetRunsDBFilePath()
		}
		db, err := sql.Open(driverName(backend), dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		db, err := sql.Open(driverName(backend), connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s database: %w. %s", backend, err, connectionHint(backend))
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
}

func driverName(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "mysql"
	case schema.PostgreSQLBackend:
		return "pgx"
	default:
		return "sqlite"
	}
}

func connectionHint(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "Check connection string format: user:password@tcp(host:port)/dbname?parseTime=true"
	case schema.PostgreSQLBackend:
		return "Check connection string format: host=... port=... user=... password=... dbname=..."
	default:
		return "Verify the database server is running and accessible."
	}
}

// rebind rewrites '?' placeholders into '$n' for PostgreSQL.
func (s *SQLStore) rebind(query string) string {
	if s.backend != schema.PostgreSQLBackend {
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

func (s *SQLStore) table() string {
	return quoteTableName(runsTable, s.backend)
}

// Enabled reports whether runs are actually recorded. The none backend is not.
func (s *SQLStore) Enabled() bool {
	return !s.disabled()
}

func (s *SQLStore) disabled() bool {
	return s.backend == schema.NoneBackend || s.db == nil
}

// BeginRun inserts a run in the running state and returns its ID.
func (s *SQLStore) BeginRun(ctx context.Context, start schema.RunStart) (int64, error) {
	if s.disabled() {
		return 0, nil
	}

	args := []any{start.UUID, start.FilePath, start.Anchor.Name, formatTime(start.StartTime, s.backend), string(schema.RunningStatus)}
	query := fmt.Sprintf(`INSERT INTO %s (run_uuid, file_path, anchor_date, start_time, status) VALUES (?, ?, ?, ?, ?)`, s.table())

	var runID int64
	if s.backend == schema.PostgreSQLBackend {
		if err := s.db.QueryRowContext(ctx, s.rebind(query)+" RETURNING run_id", args...).Scan(&runID); err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		return runID, nil
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	if runID, err = result.LastInsertId(); err != nil {
		return 0, fmt.Errorf("failed to read run id: %w", err)
	}
	return runID, nil
}

// EndRun stores the outcome of a run and its duration.
func (s *SQLStore) EndRun(ctx context.Context, runID int64, end schema.RunEnd) error {
	if s.disabled() {
		return nil
	}

	row := s.db.QueryRowContext(ctx, s.rebind(fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, s.table())), runID)
	startTime, err := s.scanTime(row)
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	var errMsg *string
	if end.ErrorMessage != "" {
		errMsg = &end.ErrorMessage
	}

	query := fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, status = ?, sample_count = ?,
		sum_x = ?, sum_y = ?, sum_z = ?, max_x = ?, max_y = ?, max_z = ?, error_message = ? WHERE run_id = ?`, s.table())
	_, err = s.db.ExecContext(ctx, s.rebind(query),
		formatTime(end.EndTime, s.backend), end.EndTime.Sub(startTime).Milliseconds(), string(end.Status), end.Stats.Count,
		end.Stats.Sum.X, end.Stats.Sum.Y, end.Stats.Sum.Z,
		end.Stats.MaxAbs.X, end.Stats.MaxAbs.Y, end.Stats.MaxAbs.Z,
		errMsg, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// GetStatus returns status information about the run store.
func (s *SQLStore) GetStatus(ctx context.Context) (schema.RunStoreStatus, error) {
	status := schema.RunStoreStatus{
		Backend:      string(s.backend),
		Connected:    s.db != nil,
		StatusCounts: make(map[string]int64),
	}
	if s.disabled() {
		return status, nil
	}

	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*), COALESCE(SUM(sample_count), 0) FROM %s`, s.table()))
	if err := row.Scan(&status.TotalRuns, &status.TotalSamples); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}
	if status.TotalRuns == 0 {
		return status, nil
	}

	row = s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1`, s.table()))
	var lastStart any
	if err := row.Scan(&status.LastRunID, &lastStart); err != nil {
		return status, fmt.Errorf("failed to get last run info: %w", err)
	}
	lastRunTime, err := s.parseTime(lastStart)
	if err != nil {
		return status, fmt.Errorf("failed to parse last run time: %w", err)
	}
	status.LastRunTime = lastRunTime

	row = s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1`, s.table()))
	if status.OldestRunTime, err = s.scanTime(row); err != nil {
		return status, fmt.Errorf("failed to get oldest run time: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT status, COUNT(*) FROM %s GROUP BY status`, s.table()))
	if err != nil {
		return status, fmt.Errorf("failed to count runs by status: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var name string
		var count int64
		if err := rows.Scan(&name, &count); err != nil {
			return status, fmt.Errorf("failed to scan status count: %w", err)
		}
		status.StatusCounts[name] = count
	}
	return status, rows.Err()
}

// GetAllRuns retrieves every run ordered by ID.
func (s *SQLStore) GetAllRuns(ctx context.Context) ([]schema.RunRecord, error) {
	if s.disabled() {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM %s ORDER BY run_id`, runColumns, s.table()))
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var rec schema.RunRecord
		var startRaw, endRaw any
		if err := rows.Scan(&rec.RunID, &rec.RunUUID, &rec.FilePath, &rec.AnchorDate, &startRaw, &endRaw,
			&rec.RunDurationMs, &rec.Status, &rec.SampleCount, &rec.SumX, &rec.SumY, &rec.SumZ,
			&rec.MaxX, &rec.MaxY, &rec.MaxZ, &rec.ErrorMessage); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if rec.StartTime, err = s.parseTime(startRaw); err != nil {
			return nil, fmt.Errorf("failed to parse start_time: %w", err)
		}
		if endRaw != nil {
			endTime, err := s.parseTime(endRaw)
			if err != nil {
				return nil, fmt.Errorf("failed to parse end_time: %w", err)
			}
			rec.EndTime = &endTime
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLStore) scanTime(row *sql.Row) (time.Time, error) {
	var raw any
	if err := row.Scan(&raw); err != nil {
		return time.Time{}, err
	}
	return s.parseTime(raw)
}

// parseTime accepts the representations drivers hand back for time columns:
// RFC 3339 text from SQLite, time.Time from MySQL (parseTime=true) and PostgreSQL.
func (s *SQLStore) parseTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		return parseTimeText(v)
	case []byte:
		return parseTimeText(string(v))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", raw)
	}
}

// parseTimeText handles RFC 3339 and the MySQL DATETIME text form.
func parseTimeText(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05.999999999", v)
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.Format(time.RFC3339Nano)
	}
	return t
}

// quoteTableName quotes a table name for the backend's SQL dialect.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}
