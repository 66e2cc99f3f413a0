// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists generated summaries in a local SQLite
// database with full-text search over their prose.
// See docs/ARCHITECTURE.md § Summary Catalog.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/summary-engine/pkg/types"
)

const dbFile = "summaries.db"

// Store manages the summary catalog SQLite database.
type Store struct {
	db         *sql.DB
	catalogDir string
	maxResults int
}

// NewStore opens or creates the catalog database at
// catalogDir/summaries.db, creating the schema if needed.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if cfg.CatalogDir == "" {
		return nil, fmt.Errorf("catalog directory not configured")
	}
	if err := os.MkdirAll(cfg.CatalogDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.CatalogDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{db: db, catalogDir: cfg.CatalogDir, maxResults: maxResults}
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
		`CREATE TABLE IF NOT EXISTS summaries (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			title TEXT,
			year TEXT,
			model TEXT,
			language TEXT,
			source_path TEXT,
			created_at TEXT,
			document TEXT NOT NULL,
			search_text TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_summaries_year ON summaries(year)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='summaries_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE summaries_fts USING fts5(search_text, content=summaries, content_rowid=rowid)`,
			`CREATE TRIGGER summaries_ai AFTER INSERT ON summaries BEGIN
				INSERT INTO summaries_fts(rowid, search_text) VALUES (new.rowid, new.search_text);
			END`,
			`CREATE TRIGGER summaries_ad AFTER DELETE ON summaries BEGIN
				INSERT INTO summaries_fts(summaries_fts, rowid, search_text) VALUES('delete', old.rowid, old.search_text);
			END`,
			`CREATE TRIGGER summaries_au AFTER UPDATE ON summaries BEGIN
				INSERT INTO summaries_fts(summaries_fts, rowid, search_text) VALUES('delete', old.rowid, old.search_text);
				INSERT INTO summaries_fts(rowid, search_text) VALUES (new.rowid, new.search_text);
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

// Entry is the catalog view of one stored summary.
type Entry struct {
	ID         string `json:"id" yaml:"id"`
	Title      string `json:"title" yaml:"title"`
	Year       string `json:"year" yaml:"year"`
	Model      string `json:"model" yaml:"model"`
	Language   string `json:"language" yaml:"language"`
	SourcePath string `json:"source_path" yaml:"source_path"`
	CreatedAt  string `json:"created_at" yaml:"created_at"`
}

// Save upserts a summary under an ID derived from its title and year and
// returns that ID. Saving the same article twice replaces the earlier
// record.
func (s *Store) Save(ctx context.Context, sum *types.SummaryDocument) (string, error) {
	id := summaryID(sum.Header.Title, sum.Header.Year)

	doc, err := json.Marshal(sum)
	if err != nil {
		return "", fmt.Errorf("serializing summary: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO summaries (id, title, year, model, language, source_path, created_at, document, search_text)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, year=excluded.year, model=excluded.model,
			language=excluded.language, source_path=excluded.source_path,
			created_at=excluded.created_at, document=excluded.document,
			search_text=excluded.search_text`,
		id, sum.Header.Title, sum.Header.Year, sum.Header.Model,
		sum.Header.Language, sum.Header.SourcePath,
		time.Now().UTC().Format(time.RFC3339),
		string(doc), searchText(sum),
	)
	if err != nil {
		return "", fmt.Errorf("saving summary %s: %w", id, err)
	}
	return id, nil
}

// List returns all catalog entries, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, year, model, language, source_path, created_at
		 FROM summaries ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("listing summaries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Search runs an FTS5 full-text query over summary prose and returns
// matching entries ranked by relevance. maxResults zero uses the store
// default.
func (s *Store) Search(ctx context.Context, query string, maxResults int) ([]Entry, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT su.id, su.title, su.year, su.model, su.language, su.source_path, su.created_at
		 FROM summaries_fts
		 JOIN summaries su ON su.rowid = summaries_fts.rowid
		 WHERE summaries_fts MATCH ?
		 ORDER BY summaries_fts.rank
		 LIMIT ?`, query, maxResults)
	if err != nil {
		return nil, fmt.Errorf("searching summaries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Get loads one stored summary by ID.
func (s *Store) Get(ctx context.Context, id string) (*types.SummaryDocument, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM summaries WHERE id = ?`, id).Scan(&doc)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("summary %s not found", id)
		}
		return nil, fmt.Errorf("loading summary %s: %w", id, err)
	}

	var sum types.SummaryDocument
	if err := json.Unmarshal([]byte(doc), &sum); err != nil {
		return nil, fmt.Errorf("parsing stored summary %s: %w", id, err)
	}
	return &sum, nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Title, &e.Year, &e.Model,
			&e.Language, &e.SourcePath, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// searchText flattens a summary's prose into one FTS document.
func searchText(sum *types.SummaryDocument) string {
	var parts []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	add(sum.Header.Title)
	for _, p := range sum.KeyPoints {
		add(p)
	}
	add(sum.Introduction)
	for _, r := range sum.Results {
		add(r.SectionTitle)
		add(r.Text)
	}
	add(sum.Discussion)
	add(sum.Figures.Narrative)
	for _, item := range sum.Figures.Items {
		add(item.Summary)
	}
	return strings.Join(parts, "\n")
}

var nonSlugRe = regexp.MustCompile(`[^a-z0-9]+`)

// summaryID derives a stable catalog ID from title and year, e.g.
// "2024-mitochondrial-dynamics-in-hypoxia".
func summaryID(title, year string) string {
	slug := nonSlugRe.ReplaceAllString(strings.ToLower(title), "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "untitled"
	}
	const maxSlug = 80
	if len(slug) > maxSlug {
		slug = strings.Trim(slug[:maxSlug], "-")
	}
	if year = strings.TrimSpace(year); year != "" {
		return year + "-" + slug
	}
	return slug
}
