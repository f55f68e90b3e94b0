// Package history stores evaluation transcripts in a SQL database.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const (
	DriverSQLite   = "sqlite3"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

const createTable = `CREATE TABLE IF NOT EXISTS mankai_history (
	session_id VARCHAR(36) NOT NULL,
	seq INTEGER NOT NULL,
	source TEXT NOT NULL,
	result TEXT NOT NULL,
	failure TEXT NOT NULL,
	created_at BIGINT NOT NULL
)`

// Entry is one evaluated input. Exactly one of Result and Failure is set.
type Entry struct {
	SessionID string
	Seq       int64
	Source    string
	Result    string
	Failure   string
	CreatedAt time.Time
}

func (e Entry) Failed() bool {
	return e.Failure != ""
}

// String renders the entry as a transcript line.
func (e Entry) String() string {
	if e.Failed() {
		return fmt.Sprintf("[%d] %s => error: %s", e.Seq, e.Source, e.Failure)
	}
	return fmt.Sprintf("[%d] %s => %s", e.Seq, e.Source, e.Result)
}

type Store struct {
	db     *sql.DB
	driver string
}

// Open connects to the database and makes sure the transcript table exists.
func Open(driver string, dsn string) (*Store, error) {
	switch driver {
	case DriverSQLite, DriverMySQL, DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported history driver '%s'", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection: %w", err)
	}
	if driver == DriverSQLite {
		// an in-memory database lives in a single connection
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history table: %w", err)
	}

	slog.Debug("history store opened", slog.String("driver", driver))
	return &Store{db: db, driver: driver}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	query := s.rebind(`INSERT INTO mankai_history
		(session_id, seq, source, result, failure, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	_, err := s.db.ExecContext(ctx, query,
		e.SessionID, e.Seq, e.Source, e.Result, e.Failure, e.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to record history entry: %w", err)
	}
	return nil
}

// Recent returns up to limit of the latest entries of a session, oldest
// first. A limit <= 0 returns the whole transcript.
func (s *Store) Recent(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	query := `SELECT session_id, seq, source, result, failure, created_at
		FROM mankai_history WHERE session_id = ? ORDER BY seq DESC`
	args := []interface{}{sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.SessionID, &e.Seq, &e.Source, &e.Result, &e.Failure, &created); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Sessions lists the distinct session ids that have recorded entries.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT session_id FROM mankai_history ORDER BY session_id`)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// rebind rewrites '?' placeholders to the driver's syntax.
func (s *Store) rebind(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	return rebindDollar(query)
}

func rebindDollar(query string) string {
	var out strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			out.WriteByte('$')
			out.WriteString(strconv.Itoa(n))
			continue
		}
		out.WriteRune(ch)
	}
	return out.String()
}
