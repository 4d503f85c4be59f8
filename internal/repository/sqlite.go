package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/deedscan/deedscan/constants"
	"github.com/deedscan/deedscan/internal/common"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	state       TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP,
	result_json TEXT
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at DESC);
`

// SQLiteStore implements RunStore on a local SQLite file.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// OpenSQLite opens (creating if needed) the run store at path. Use
// ":memory:" for an ephemeral store.
func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite is single-writer; avoid "database is locked" churn.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	logger.Info("repository.sqlite.open", "path", path)
	return &SQLiteStore{db: db, logger: logger}, nil
}

func (s *SQLiteStore) Create(ctx context.Context, run *Run) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.State == "" {
		run.State = constants.RunStateRunning
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, state, started_at) VALUES (?, ?, ?)`,
		run.ID.String(), string(run.State), run.StartedAt,
	)
	if err != nil {
		return common.WrapError(err, "insert run")
	}
	return nil
}

func (s *SQLiteStore) Finish(ctx context.Context, id uuid.UUID, state constants.RunState, result RunResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return common.WrapError(err, "marshal run result")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET state = ?, finished_at = ?, result_json = ? WHERE id = ?`,
		string(state), time.Now().UTC(), string(b), id.String(),
	)
	if err != nil {
		return common.WrapError(err, "finish run")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, state, started_at, finished_at, result_json FROM runs WHERE id = ?`,
		id.String(),
	)
	return scanRun(row)
}

func (s *SQLiteStore) Latest(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, state, started_at, finished_at, result_json FROM runs ORDER BY started_at DESC, id DESC LIMIT 1`,
	)
	return scanRun(row)
}

func (s *SQLiteStore) LatestFinished(ctx context.Context) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, state, started_at, finished_at, result_json FROM runs
		 WHERE finished_at IS NOT NULL
		 ORDER BY started_at DESC, id DESC LIMIT 1`,
	)
	return scanRun(row)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanRun(row *sql.Row) (*Run, error) {
	var (
		idStr      string
		state      string
		startedAt  time.Time
		finishedAt sql.NullTime
		resultJSON sql.NullString
	)
	if err := row.Scan(&idStr, &state, &startedAt, &finishedAt, &resultJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, common.WrapError(err, "scan run")
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, common.WrapError(err, "parse run id")
	}
	run := &Run{ID: id, State: constants.RunState(state), StartedAt: startedAt}
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}
	if resultJSON.Valid && resultJSON.String != "" {
		var r RunResult
		if err := json.Unmarshal([]byte(resultJSON.String), &r); err != nil {
			return nil, common.WrapError(err, "decode run result")
		}
		run.Result = &r
	}
	return run, nil
}
