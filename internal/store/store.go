// Package store keeps a DuckDB history of runs so a case can be followed
// across runs.
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"chatcheck/internal/runner"
	"chatcheck/internal/value"
)

// Store wraps a DuckDB connection holding run history.
type Store struct {
	db  *sql.DB
	log logrus.FieldLogger
}

// HistoryEntry is one appearance of a case in a stored run.
type HistoryEntry struct {
	RunID       string
	StartedAt   time.Time
	MatchType   string
	ExpectedKey string
	Actual      string
	Status      runner.Status
	HTTPStatus  int
	DurationMs  int64
}

// RunRow summarises a stored run.
type RunRow struct {
	RunID      string
	Endpoint   string
	Suite      string
	StartedAt  time.Time
	FinishedAt time.Time
	Summary    runner.RunSummary
}

// Open opens or creates the database at path and applies the schema. An
// empty path opens an in-memory database.
func Open(ctx context.Context, path string, log logrus.FieldLogger) (*Store, error) {
	if log == nil {
		logger := logrus.New()
		logger.SetOutput(io.Discard)
		log = logger
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, log: log.WithField("component", "store")}, nil
}

// DB exposes the underlying connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ExpectedKey fingerprints an expectation so changes to it show up in
// history.
func ExpectedKey(expected value.Value) string {
	hash := sha256.Sum256([]byte(expected.Key()))
	return hex.EncodeToString(hash[:])
}

// IngestRun stores a run and its results. Ingesting a run id that is already
// present is a no-op and reports false.
func (s *Store) IngestRun(ctx context.Context, results runner.Results) (bool, error) {
	if results.RunID == "" {
		return false, errors.New("store: run id is required")
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin ingest: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs WHERE run_id = ?`, results.RunID).Scan(&existing); err != nil {
		return false, fmt.Errorf("lookup run: %w", err)
	}
	if existing > 0 {
		s.log.WithField("run_id", results.RunID).Debug("run already ingested")
		return false, nil
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (run_id, endpoint, suite, started_at, finished_at, passed, failed, skipped)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		results.RunID,
		results.Endpoint,
		results.Suite,
		results.StartedAt.UTC(),
		results.FinishedAt.UTC(),
		results.Summary.Success,
		results.Summary.Failed,
		results.Summary.Skipped,
	); err != nil {
		return false, fmt.Errorf("insert run: %w", err)
	}

	for position, result := range results.Results {
		var httpStatus interface{}
		if result.HTTPStatus != 0 {
			httpStatus = result.HTTPStatus
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO test_results (result_id, run_id, position, case_id, query, match_type, expected_key, expected, actual, status, http_status, duration_ms, natural_response)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(),
			results.RunID,
			position,
			result.ID,
			result.Query,
			result.MatchType.String(),
			ExpectedKey(result.Expected),
			result.Expected.Key(),
			result.Actual.Key(),
			string(result.Status),
			httpStatus,
			result.DurationMs,
			result.NaturalResponse,
		); err != nil {
			return false, fmt.Errorf("insert result %s: %w", result.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit ingest: %w", err)
	}
	s.log.WithFields(logrus.Fields{"run_id": results.RunID, "results": len(results.Results)}).Info("ingested run")
	return true, nil
}

// History returns every stored result for caseID, oldest run first.
func (s *Store) History(ctx context.Context, caseID string) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, started_at, match_type, expected_key, actual, status, http_status, duration_ms
		 FROM v_case_history
		 WHERE case_id = ?
		 ORDER BY started_at, run_id`,
		caseID,
	)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var (
			entry      HistoryEntry
			status     string
			httpStatus sql.NullInt64
		)
		if err := rows.Scan(&entry.RunID, &entry.StartedAt, &entry.MatchType, &entry.ExpectedKey, &entry.Actual, &status, &httpStatus, &entry.DurationMs); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entry.Status = runner.Status(status)
		if httpStatus.Valid {
			entry.HTTPStatus = int(httpStatus.Int64)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

// Runs returns stored runs, newest first.
func (s *Store) Runs(ctx context.Context) ([]RunRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, endpoint, suite, started_at, finished_at, passed, failed, skipped
		 FROM runs
		 ORDER BY started_at DESC, run_id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var row RunRow
		if err := rows.Scan(&row.RunID, &row.Endpoint, &row.Suite, &row.StartedAt, &row.FinishedAt,
			&row.Summary.Success, &row.Summary.Failed, &row.Summary.Skipped); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}
