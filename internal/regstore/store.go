// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package regstore persists RegulatoryEntries and builds a retrieval index.
// Implements: prd004-corpus-store (R1-R5);
//
//	docs/ARCHITECTURE § Corpus Store.
package regstore

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/yinhse00/SmartFinAI-sub003/pkg/types"
)

const (
	entriesDir = "entries"
	indexDir   = "index"
	dbFile     = "regulatory.db"
)

// Store manages the regulatory corpus SQLite database.
type Store struct {
	db         *sql.DB
	corpusDir  string
	maxResults int
}

// NewStore opens or creates the corpus SQLite database at
// corpusDir/index/regulatory.db. It creates the schema if it does not
// exist (R1.2, R1.3).
func NewStore(cfg types.CorpusConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.CorpusDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		corpusDir:  cfg.CorpusDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			category TEXT NOT NULL,
			source TEXT,
			section TEXT,
			last_updated TEXT,
			status TEXT,
			corpus_file TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_category ON entries(category)`,
		`CREATE INDEX IF NOT EXISTS idx_entries_corpus_file ON entries(corpus_file)`,
		`CREATE TABLE IF NOT EXISTS indexing_status (
			corpus_file TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='entries_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE entries_fts USING fts5(title, content, content=entries, content_rowid=rowid)`,
			`CREATE TRIGGER entries_ai AFTER INSERT ON entries BEGIN
				INSERT INTO entries_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
			END`,
			`CREATE TRIGGER entries_ad AFTER DELETE ON entries BEGIN
				INSERT INTO entries_fts(entries_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
			END`,
			`CREATE TRIGGER entries_au AFTER UPDATE ON entries BEGIN
				INSERT INTO entries_fts(entries_fts, rowid, title, content) VALUES('delete', old.rowid, old.title, old.content);
				INSERT INTO entries_fts(rowid, title, content) VALUES (new.rowid, new.title, new.content);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from a corpus indexing run (R4.5).
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of corpus files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// corpusFile is the on-disk shape of one YAML file under corpus/entries/.
type corpusFile struct {
	Entries []types.RegulatoryEntry `yaml:"entries"`
}

// Ingest reads entry YAML files from corpusDir/entries/ and populates the
// database. It detects new, changed, and unchanged files for incremental
// updates (R1.1, R4.1-R4.5).
func (s *Store) Ingest(ctx context.Context, w io.Writer) (IngestSummary, error) {
	srcDir := filepath.Join(s.corpusDir, entriesDir)

	dirEntries, err := os.ReadDir(srcDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading corpus directory %s: %w", srcDir, err)
	}

	var summary IngestSummary

	for _, entry := range dirEntries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		name := entry.Name()
		filePath := filepath.Join(srcDir, name)

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		// Check whether the file has changed since last indexing (R4.1, R4.3).
		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM indexing_status WHERE corpus_file = ?`, name,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", name)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		data, err := os.ReadFile(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		var file corpusFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", name, err)
			summary.Failed++
			continue
		}

		if err := s.ingestFile(ctx, name, file.Entries, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d entries)\n", name, len(file.Entries))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexing %s (%d entries)\n", name, len(file.Entries))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) ingestFile(ctx context.Context, name string, entries []types.RegulatoryEntry, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Remove old entries if updating (R4.2).
	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE corpus_file = ?`, name); err != nil {
			return fmt.Errorf("deleting old entries: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO entries (id, title, content, category, source, section, last_updated, status, corpus_file)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if e.ID == "" || e.Title == "" {
			return fmt.Errorf("entry without id or title in %s", name)
		}
		status := e.Status
		if status == "" {
			status = types.StatusActive
		}
		lastUpdated := ""
		if !e.LastUpdated.IsZero() {
			lastUpdated = e.LastUpdated.UTC().Format(time.RFC3339)
		}
		_, err := stmt.ExecContext(ctx,
			e.ID, e.Title, e.Content, string(e.Category),
			e.Source, e.Section, lastUpdated, string(status), name,
		)
		if err != nil {
			return fmt.Errorf("inserting entry %s: %w", e.ID, err)
		}
	}

	// Update indexing status (R4.1).
	_, err = tx.ExecContext(ctx,
		`INSERT INTO indexing_status (corpus_file, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(corpus_file) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		name, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating indexing status: %w", err)
	}

	return tx.Commit()
}
