// Package export writes finished runs to a SQLite file for later analysis.
// hnsort itself never reads it back.
package export

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/matheuskafuri/hnsort/internal/classify"
	"github.com/matheuskafuri/hnsort/internal/listing"
	_ "modernc.org/sqlite"
)

type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating export dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id          TEXT PRIMARY KEY,
			started_at  DATETIME NOT NULL,
			finished_at DATETIME NOT NULL,
			start_url   TEXT NOT NULL,
			engine      TEXT NOT NULL,
			target      INTEGER NOT NULL,
			pages       INTEGER NOT NULL,
			reason      TEXT NOT NULL,
			items       INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS items (
			run_id        TEXT NOT NULL REFERENCES runs(id),
			position      INTEGER NOT NULL,
			id            TEXT NOT NULL,
			title         TEXT NOT NULL DEFAULT '',
			kind          TEXT NOT NULL DEFAULT '',
			url           TEXT NOT NULL DEFAULT '',
			age_text      TEXT NOT NULL DEFAULT '',
			score         TEXT NOT NULL DEFAULT '',
			author        TEXT NOT NULL DEFAULT '',
			comments_text TEXT NOT NULL DEFAULT '',
			posted_at     DATETIME NOT NULL,
			minutes_ago   INTEGER NOT NULL,
			PRIMARY KEY (run_id, id)
		);
		CREATE INDEX IF NOT EXISTS idx_items_posted ON items(posted_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// SaveRun stores run and its items, in the given order, in one transaction.
// Items must already be enriched.
func (s *Store) SaveRun(run Run, items []listing.Item) error {
	tx, err := s.writeDB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	run.Items = len(items)
	_, err = tx.Exec(`
		INSERT INTO runs (id, started_at, finished_at, start_url, engine, target, pages, reason, items)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.StartedAt, run.FinishedAt, run.StartURL, run.Engine, run.Target, run.Pages, run.Reason, run.Items)
	if err != nil {
		return fmt.Errorf("inserting run %s: %w", run.ID, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO items (run_id, position, id, title, kind, url, age_text, score, author, comments_text, posted_at, minutes_ago)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, it := range items {
		if !it.Enriched() {
			return fmt.Errorf("item %s has no age", it.ID)
		}
		_, err := stmt.Exec(run.ID, i+1, it.ID, it.Title, string(classify.Classify(it.Title)), it.URL, it.AgeText, it.Score, it.By, it.CommentsText,
			it.Age.At, it.Age.MinutesAgo)
		if err != nil {
			return fmt.Errorf("inserting item %s: %w", it.ID, err)
		}
	}

	return tx.Commit()
}

// Runs returns stored runs, most recent first.
func (s *Store) Runs(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.readDB.Query(fmt.Sprintf(`
		SELECT id, started_at, finished_at, start_url, engine, target, pages, reason, items
		FROM runs ORDER BY started_at DESC LIMIT %d`, limit))
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.StartURL, &r.Engine, &r.Target, &r.Pages, &r.Reason, &r.Items); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Items returns the stored items of one run in position order.
func (s *Store) Items(runID string) ([]Row, error) {
	rows, err := s.readDB.Query(`
		SELECT run_id, position, id, title, kind, url, age_text, score, author, comments_text, posted_at, minutes_ago
		FROM items WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		if err := rows.Scan(&r.RunID, &r.Position, &r.ID, &r.Title, &r.Kind, &r.URL, &r.AgeText, &r.Score, &r.By, &r.CommentsText, &r.PostedAt, &r.MinutesAgo); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
