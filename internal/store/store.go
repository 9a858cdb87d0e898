// Package store persists fetched papers and tracks which have already
// been announced, so the collector never reads the same paper twice.
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

	"github.com/zhuww/arxiv-news-app/internal/arxiv"
)

const dbFile = "history.db"

// Record is a stored paper with its announcement state.
type Record struct {
	Paper       arxiv.Paper
	Summary     string
	FetchedAt   time.Time
	AnnouncedAt time.Time // zero until announced
}

// Store manages the paper history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at dir/history.db,
// creating the schema if it does not exist.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS papers (
			id TEXT PRIMARY KEY,
			title TEXT,
			authors TEXT,
			abstract TEXT,
			categories TEXT,
			published TEXT,
			pdf_url TEXT,
			summary TEXT,
			fetched_at TEXT NOT NULL,
			announced_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_papers_fetched_at ON papers(fetched_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a paper with its translated summary. Re-recording an
// existing paper refreshes the summary but keeps its announcement state.
func (s *Store) Record(ctx context.Context, paper arxiv.Paper, summary string) error {
	authorsJSON, _ := json.Marshal(paper.Authors)
	categoriesJSON, _ := json.Marshal(paper.Categories)
	publishedStr := ""
	if !paper.Published.IsZero() {
		publishedStr = paper.Published.Format(time.RFC3339)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO papers (id, title, authors, abstract, categories, published, pdf_url, summary, fetched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, authors=excluded.authors, abstract=excluded.abstract,
			categories=excluded.categories, published=excluded.published,
			pdf_url=excluded.pdf_url, summary=excluded.summary`,
		paper.ID, paper.Title, string(authorsJSON), paper.Abstract,
		string(categoriesJSON), publishedStr, paper.PDFURL, summary,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording paper %s: %w", paper.ID, err)
	}
	return nil
}

// MarkAnnounced stamps a paper as read aloud.
func (s *Store) MarkAnnounced(ctx context.Context, paperID string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE papers SET announced_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), paperID,
	)
	if err != nil {
		return fmt.Errorf("marking paper %s announced: %w", paperID, err)
	}
	return nil
}

// IsAnnounced reports whether the paper has been read aloud before.
func (s *Store) IsAnnounced(ctx context.Context, paperID string) (bool, error) {
	var announced sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT announced_at FROM papers WHERE id = ?`, paperID,
	).Scan(&announced)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("querying paper %s: %w", paperID, err)
	}
	return announced.Valid && announced.String != "", nil
}

// FilterUnannounced returns the subset of papers not yet read aloud,
// preserving input order.
func (s *Store) FilterUnannounced(ctx context.Context, papers []arxiv.Paper) ([]arxiv.Paper, error) {
	var out []arxiv.Paper
	for _, p := range papers {
		announced, err := s.IsAnnounced(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if !announced {
			out = append(out, p)
		}
	}
	return out, nil
}

// Recent returns the most recently fetched records, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, authors, abstract, categories, published, pdf_url, summary, fetched_at, announced_at
		 FROM papers ORDER BY fetched_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying recent papers: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var (
			rec            Record
			authorsJSON    string
			categoriesJSON string
			published      string
			fetchedAt      string
			announcedAt    sql.NullString
		)
		if err := rows.Scan(&rec.Paper.ID, &rec.Paper.Title, &authorsJSON,
			&rec.Paper.Abstract, &categoriesJSON, &published, &rec.Paper.PDFURL,
			&rec.Summary, &fetchedAt, &announcedAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		json.Unmarshal([]byte(authorsJSON), &rec.Paper.Authors)
		json.Unmarshal([]byte(categoriesJSON), &rec.Paper.Categories)
		if published != "" {
			rec.Paper.Published, _ = time.Parse(time.RFC3339, published)
		}
		rec.FetchedAt, _ = time.Parse(time.RFC3339, fetchedAt)
		if announcedAt.Valid && announcedAt.String != "" {
			rec.AnnouncedAt, _ = time.Parse(time.RFC3339, announcedAt.String)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
