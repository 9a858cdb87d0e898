package favorites

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/zhuww/arxiv-news-app/internal/arxiv"
)

func testPaper(id string) arxiv.Paper {
	return arxiv.Paper{
		ID:       id,
		Title:    "Test Paper " + id,
		Authors:  []string{"A. Author"},
		Abstract: "An abstract.",
	}
}

func TestAddRemoveList(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}

	if err := store.Add(testPaper("2401.00001"), "summary one"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if err := store.Add(testPaper("2401.00002"), "summary two"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	// Duplicate add is a no-op.
	if err := store.Add(testPaper("2401.00001"), "summary one"); err != nil {
		t.Fatalf("Add() duplicate error: %v", err)
	}

	entries := store.List()
	if len(entries) != 2 {
		t.Fatalf("List() returned %d entries, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Paper.ID != "2401.00002" {
		t.Errorf("List()[0].ID = %s, want 2401.00002", entries[0].Paper.ID)
	}

	if !store.Contains("2401.00001") {
		t.Error("Contains(2401.00001) = false, want true")
	}

	if err := store.Remove("2401.00001"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if store.Contains("2401.00001") {
		t.Error("Contains() = true after Remove()")
	}
	if len(store.List()) != 1 {
		t.Errorf("List() returned %d entries after Remove(), want 1", len(store.List()))
	}
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()

	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	if err := store.Add(testPaper("2401.00003"), "summary"); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	// A fresh store over the same directory sees the entry.
	reopened, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() reopen error: %v", err)
	}
	if !reopened.Contains("2401.00003") {
		t.Error("reopened store lost the favorite")
	}
}

func TestDownloadPDF(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake content"))
	}))
	defer server.Close()

	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}

	paper := testPaper("2401.00004")
	paper.PDFURL = server.URL + "/pdf/2401.00004"
	if err := store.Add(paper, ""); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	path, err := store.DownloadPDF("2401.00004")
	if err != nil {
		t.Fatalf("DownloadPDF() error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read downloaded PDF: %v", err)
	}
	if len(data) == 0 {
		t.Error("downloaded PDF is empty")
	}

	// Second call reuses the cached file.
	path2, err := store.DownloadPDF("2401.00004")
	if err != nil {
		t.Fatalf("DownloadPDF() second call error: %v", err)
	}
	if path2 != path {
		t.Errorf("DownloadPDF() path changed: %s vs %s", path2, path)
	}

	// Remove deletes the PDF too.
	if err := store.Remove("2401.00004"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("PDF file still exists after Remove()")
	}
}

func TestDownloadPDFNotFavorite(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	if _, err := store.DownloadPDF("nope"); err == nil {
		t.Error("expected error for non-favorite paper")
	}
}

func TestSanitizeFilename(t *testing.T) {
	got := sanitizeFilename("astro-ph/0601001")
	want := "astro-ph_0601001"
	if got != want {
		t.Errorf("sanitizeFilename() = %s, want %s", got, want)
	}
	if filepath.Base(got) != got {
		t.Errorf("sanitized name %s still contains a path separator", got)
	}
}
