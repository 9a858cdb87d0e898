// Package favorites persists papers the user has starred, as a JSON file
// alongside the downloaded PDFs.
package favorites

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/zhuww/arxiv-news-app/internal/arxiv"
)

const favoritesFile = "favorites.json"

// Entry is a starred paper plus local bookkeeping.
type Entry struct {
	Paper   arxiv.Paper `json:"paper"`
	Summary string      `json:"summary,omitempty"`
	PDFPath string      `json:"pdf_path,omitempty"`
	AddedAt time.Time   `json:"added_at"`
}

// Store keeps favorite entries in a JSON file under dir.
type Store struct {
	mu      sync.Mutex
	dir     string
	entries []Entry
	client  *http.Client
}

// NewStore loads (or initializes) the favorites store in dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create favorites directory: %w", err)
	}

	s := &Store{
		dir:    dir,
		client: &http.Client{Timeout: 60 * time.Second},
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) path() string {
	return filepath.Join(s.dir, favoritesFile)
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path())
	if os.IsNotExist(err) {
		s.entries = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read favorites: %w", err)
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		return fmt.Errorf("failed to parse favorites: %w", err)
	}
	return nil
}

// save writes the entries atomically via a temp file rename.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode favorites: %w", err)
	}

	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write favorites: %w", err)
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		return fmt.Errorf("failed to write favorites: %w", err)
	}
	return nil
}

// Add stars a paper. Adding the same paper twice is a no-op.
func (s *Store) Add(paper arxiv.Paper, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.Paper.ID == paper.ID {
			return nil
		}
	}
	s.entries = append(s.entries, Entry{
		Paper:   paper,
		Summary: summary,
		AddedAt: time.Now(),
	})
	return s.save()
}

// Remove unstars a paper by arXiv ID and deletes its downloaded PDF, if any.
func (s *Store) Remove(paperID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.entries {
		if e.Paper.ID == paperID {
			if e.PDFPath != "" {
				os.Remove(e.PDFPath)
			}
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return s.save()
		}
	}
	return nil
}

// Contains reports whether the paper is starred.
func (s *Store) Contains(paperID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if e.Paper.ID == paperID {
			return true
		}
	}
	return false
}

// List returns the starred entries, newest first.
func (s *Store) List() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// DownloadPDF fetches the paper's PDF into the store directory and records
// the local path on its entry. Returns the local path.
func (s *Store) DownloadPDF(paperID string) (string, error) {
	s.mu.Lock()
	var entry *Entry
	for i := range s.entries {
		if s.entries[i].Paper.ID == paperID {
			entry = &s.entries[i]
			break
		}
	}
	if entry == nil {
		s.mu.Unlock()
		return "", fmt.Errorf("paper %s is not a favorite", paperID)
	}
	if entry.PDFPath != "" {
		if _, err := os.Stat(entry.PDFPath); err == nil {
			path := entry.PDFPath
			s.mu.Unlock()
			return path, nil
		}
	}
	pdfURL := entry.Paper.PDFURL
	s.mu.Unlock()

	if pdfURL == "" {
		return "", fmt.Errorf("paper %s has no PDF link", paperID)
	}

	path := filepath.Join(s.dir, sanitizeFilename(paperID)+".pdf")
	if err := s.download(pdfURL, path); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].Paper.ID == paperID {
			s.entries[i].PDFPath = path
			return path, s.save()
		}
	}
	return path, nil
}

func (s *Store) download(url, path string) error {
	resp, err := s.client.Get(url)
	if err != nil {
		return fmt.Errorf("failed to download PDF: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download PDF: status %d", resp.StatusCode)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create PDF file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to save PDF: %w", err)
	}
	return nil
}

// sanitizeFilename makes an arXiv ID safe as a filename.
func sanitizeFilename(id string) string {
	return strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(id)
}
