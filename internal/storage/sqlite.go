package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"appweld/internal/model"
)

// ErrNoModel means no scan has been saved yet for the requested app root.
var ErrNoModel = errors.New("no scanned model found; run scan first")

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS scans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			app_root TEXT NOT NULL,
			framework TEXT,
			app_type TEXT,
			scanned_at TEXT NOT NULL,
			model JSON NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scans_root ON scans(app_root, id)`,
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			mode TEXT NOT NULL,
			app_root TEXT NOT NULL,
			output_dir TEXT,
			total INTEGER NOT NULL,
			failed INTEGER NOT NULL,
			files JSON,
			created_at TEXT NOT NULL
		)`,
	}
	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveModel stores the model as a JSON blob plus a few scalar columns for
// quick listing.
func (s *SQLiteStore) SaveModel(ctx context.Context, appRoot string, m *model.AppModel) error {
	blob, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scans (app_root, framework, app_type, scanned_at, model) VALUES (?, ?, ?, ?, ?)`,
		appRoot, string(m.Framework), string(m.AppType), time.Now().UTC().Format(time.RFC3339), blob,
	)
	return err
}

// LatestModel loads the most recent scan for the app root. Each load returns
// a fresh AppModel; stored rows are never mutated.
func (s *SQLiteStore) LatestModel(ctx context.Context, appRoot string) (*model.AppModel, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT model FROM scans WHERE app_root = ? ORDER BY id DESC LIMIT 1`, appRoot,
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoModel
	}
	if err != nil {
		return nil, err
	}

	m := model.New()
	if err := json.Unmarshal(blob, m); err != nil {
		return nil, fmt.Errorf("stored model is corrupt: %w", err)
	}
	return m, nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, rec RunRecord) error {
	files, err := json.Marshal(rec.Files)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (mode, app_root, output_dir, total, failed, files, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Mode, rec.AppRoot, rec.OutputDir, rec.Total, rec.Failed, files, time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ErrNoGeneration means no generation run has been recorded for the root.
var ErrNoGeneration = errors.New("no generation run found; run generate first")

func (s *SQLiteStore) LatestGeneration(ctx context.Context, appRoot string) (RunRecord, error) {
	rec := RunRecord{Mode: "generate", AppRoot: appRoot}
	var files []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT output_dir, total, failed, files FROM runs WHERE mode = 'generate' AND app_root = ? ORDER BY id DESC LIMIT 1`,
		appRoot,
	).Scan(&rec.OutputDir, &rec.Total, &rec.Failed, &files)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, ErrNoGeneration
	}
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(files, &rec.Files); err != nil {
		return rec, fmt.Errorf("stored file list is corrupt: %w", err)
	}
	return rec, nil
}
