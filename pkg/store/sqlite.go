package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/repbook/repbook/pkg/program"
)

// SQLiteStore implements Persistence on a local sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// Open creates the database file if needed, applies the schema, and returns
// a ready store.
func Open(cfg Config) (*SQLiteStore, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}
	path := cfg.DBPath()
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: ensure db directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenMemory returns a store on an in-memory database, used by tests.
func OpenMemory() (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("store: open memory database: %w", err)
	}
	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) initSchema() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("store: enable WAL mode: %w", err)
	}
	if _, err := s.db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("store: enable foreign keys: %w", err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS program (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		client TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS day (
		id TEXT PRIMARY KEY,
		program_id TEXT NOT NULL,
		title TEXT NOT NULL,
		ord INTEGER NOT NULL,
		FOREIGN KEY (program_id) REFERENCES program(id)
	);

	CREATE TABLE IF NOT EXISTS exercise (
		id TEXT PRIMARY KEY,
		day_id TEXT NOT NULL,
		ord INTEGER NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		kind TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		sets INTEGER NOT NULL DEFAULT 0,
		reps TEXT NOT NULL DEFAULT '',
		rest_sec INTEGER NOT NULL DEFAULT 0,
		target TEXT NOT NULL DEFAULT '',
		done INTEGER NOT NULL DEFAULT 0,
		tags TEXT NOT NULL DEFAULT '',
		scheduled TEXT NOT NULL DEFAULT '',
		video_url TEXT NOT NULL DEFAULT '',
		notes TEXT NOT NULL DEFAULT '',
		FOREIGN KEY (day_id) REFERENCES day(id)
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store: create schema: %w", err)
	}
	return nil
}

// Programs lists all programs sorted by name.
func (s *SQLiteStore) Programs(ctx context.Context) ([]program.Program, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, client, notes FROM program ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []program.Program
	for rows.Next() {
		var p program.Program
		if err := rows.Scan(&p.ID, &p.Name, &p.Client, &p.Notes); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

// SaveProgram upserts a program, assigning an identity when absent.
func (s *SQLiteStore) SaveProgram(ctx context.Context, p program.Program) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" || program.IsTempID(p.ID) {
		p.ID = program.NewID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO program (id, name, client, notes) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, client=excluded.client, notes=excluded.notes`,
		p.ID, p.Name, p.Client, p.Notes,
	)
	return err
}

// DeleteProgram removes a program with its days and exercises.
func (s *SQLiteStore) DeleteProgram(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM exercise WHERE day_id IN (SELECT id FROM day WHERE program_id = ?)", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM day WHERE program_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM program WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// Days lists a program's days in order-key order.
func (s *SQLiteStore) Days(ctx context.Context, programID string) ([]program.Day, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, program_id, title, ord FROM day WHERE program_id = ? ORDER BY ord", programID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []program.Day
	for rows.Next() {
		var d program.Day
		if err := rows.Scan(&d.ID, &d.ProgramID, &d.Title, &d.Order); err != nil {
			return nil, err
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

// SaveDay upserts a day, assigning an identity when absent.
func (s *SQLiteStore) SaveDay(ctx context.Context, d program.Day) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if d.ID == "" || program.IsTempID(d.ID) {
		d.ID = program.NewID()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO day (id, program_id, title, ord) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET title=excluded.title, ord=excluded.ord`,
		d.ID, d.ProgramID, d.Title, d.Order,
	)
	return err
}

// DeleteDay removes a day and its exercises.
func (s *SQLiteStore) DeleteDay(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "DELETE FROM exercise WHERE day_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM day WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// Exercises lists a day's rows in order-key order.
func (s *SQLiteStore) Exercises(ctx context.Context, dayID string) ([]program.Exercise, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, day_id, ord, name, kind, category, sets, reps, rest_sec,
		        target, done, tags, scheduled, video_url, notes
		 FROM exercise WHERE day_id = ? ORDER BY ord`, dayID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []program.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

// UpsertExercise persists a row edit and returns the day's authoritative set.
func (s *SQLiteStore) UpsertExercise(ctx context.Context, e program.Exercise) ([]program.Exercise, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if e.ID == "" {
		return nil, errors.New("store: exercise id required for update")
	}
	if program.IsTempID(e.ID) {
		return s.InsertExercise(ctx, e)
	}
	if err := s.writeExercise(ctx, e); err != nil {
		return nil, err
	}
	return s.Exercises(ctx, e.DayID)
}

// InsertExercise persists a new row, replacing any client temp identity with
// a server-issued one, and returns the day's authoritative set.
func (s *SQLiteStore) InsertExercise(ctx context.Context, e program.Exercise) ([]program.Exercise, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if e.ID == "" || program.IsTempID(e.ID) {
		e.ID = program.NewID()
	}
	if err := s.writeExercise(ctx, e); err != nil {
		return nil, err
	}
	return s.Exercises(ctx, e.DayID)
}

// DeleteExercises removes the identified rows, renumbers the survivors, and
// returns the day's authoritative set.
func (s *SQLiteStore) DeleteExercises(ctx context.Context, dayID string, ids []string) ([]program.Exercise, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, "DELETE FROM exercise WHERE id = ? AND day_id = ?", id, dayID); err != nil {
			return nil, err
		}
	}
	if err := renumberTx(ctx, tx, dayID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.Exercises(ctx, dayID)
}

// ReorderExercises rewrites order keys to match the given id sequence and
// returns the day's authoritative set. Unknown ids are ignored; rows missing
// from the sequence keep their relative order after the listed ones.
func (s *SQLiteStore) ReorderExercises(ctx context.Context, dayID string, ids []string) ([]program.Exercise, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			"UPDATE exercise SET ord = ? WHERE id = ? AND day_id = ?", i, id, dayID); err != nil {
			return nil, err
		}
	}
	if err := renumberTx(ctx, tx, dayID); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return s.Exercises(ctx, dayID)
}

func (s *SQLiteStore) writeExercise(ctx context.Context, e program.Exercise) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exercise (id, day_id, ord, name, kind, category, sets, reps,
		                       rest_sec, target, done, tags, scheduled, video_url, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   ord=excluded.ord, name=excluded.name, kind=excluded.kind,
		   category=excluded.category, sets=excluded.sets, reps=excluded.reps,
		   rest_sec=excluded.rest_sec, target=excluded.target, done=excluded.done,
		   tags=excluded.tags, scheduled=excluded.scheduled,
		   video_url=excluded.video_url, notes=excluded.notes`,
		e.ID, e.DayID, e.Order, e.Name, e.Kind, e.Category, e.Sets, e.Reps,
		e.RestSec, e.Target, boolToInt(e.Done), strings.Join(e.Tags, ","),
		e.Scheduled, e.VideoURL, e.Notes,
	)
	return err
}

func renumberTx(ctx context.Context, tx *sql.Tx, dayID string) error {
	rows, err := tx.QueryContext(ctx, "SELECT id FROM exercise WHERE day_id = ? ORDER BY ord", dayID)
	if err != nil {
		return err
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, "UPDATE exercise SET ord = ? WHERE id = ?", i, id); err != nil {
			return err
		}
	}
	return nil
}

func scanExercise(rows *sql.Rows) (program.Exercise, error) {
	var e program.Exercise
	var done int
	var tags string
	err := rows.Scan(&e.ID, &e.DayID, &e.Order, &e.Name, &e.Kind, &e.Category,
		&e.Sets, &e.Reps, &e.RestSec, &e.Target, &done, &tags,
		&e.Scheduled, &e.VideoURL, &e.Notes)
	if err != nil {
		return e, err
	}
	e.Done = done != 0
	if tags != "" {
		e.Tags = strings.Split(tags, ",")
	}
	return e, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
