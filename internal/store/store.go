// Package store persists planning runs to a local sqlite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"

	"github.com/joss/stagehand/internal/planner"
)

// Run is one persisted planning result.
type Run struct {
	ID        string          `json:"id"`
	Scenario  string          `json:"scenario"`
	CreatedAt time.Time       `json:"created_at"`
	Stages    int             `json:"stages"`
	Actions   int             `json:"actions"`
	Result    *planner.Result `json:"result,omitempty"`
}

// Store wraps the runs database.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates the database directory if needed, opens the sqlite database,
// and applies the schema.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal=WAL&_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		scenario TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		stage_count INTEGER NOT NULL,
		action_count INTEGER NOT NULL,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_scenario ON runs(scenario);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Save persists a planning result under a new ULID run ID.
func (s *Store) Save(ctx context.Context, scenario string, result *planner.Result) (*Run, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}

	run := &Run{
		ID:        ulid.Make().String(),
		Scenario:  scenario,
		CreatedAt: time.Now().UTC(),
		Stages:    result.MaxStage(),
		Actions:   result.ActionCount(),
		Result:    result,
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, scenario, created_at, stage_count, action_count, result_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.ID, run.Scenario, run.CreatedAt, run.Stages, run.Actions, string(data))
	if err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	return run, nil
}

// Get retrieves a run, including its full result, by ID.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, scenario, created_at, stage_count, action_count, result_json
		 FROM runs WHERE id = ?`, id)

	var run Run
	var resultJSON string
	err := row.Scan(&run.ID, &run.Scenario, &run.CreatedAt, &run.Stages, &run.Actions, &resultJSON)
	if err == sql.ErrNoRows {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	run.Result = &planner.Result{}
	if err := json.Unmarshal([]byte(resultJSON), run.Result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &run, nil
}

// List returns run summaries, newest first, without the full results.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, scenario, created_at, stage_count, action_count
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Scenario, &run.CreatedAt, &run.Stages, &run.Actions); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Delete removes a run by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &NotFoundError{ID: id}
	}
	return nil
}
