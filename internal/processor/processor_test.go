package processor

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/zhuww/arxiv-news-app/internal/arxiv"
	"github.com/zhuww/arxiv-news-app/internal/config"
	"github.com/zhuww/arxiv-news-app/internal/store"
	"github.com/zhuww/arxiv-news-app/internal/translation"
)

type fakeSearcher struct {
	papers []arxiv.Paper
	err    error
}

func (f *fakeSearcher) Search(ctx context.Context, cfg arxiv.SearchConfig) ([]arxiv.Paper, error) {
	return f.papers, f.err
}

type fakeSpeaker struct {
	generated []string
}

func (f *fakeSpeaker) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	f.generated = append(f.generated, text)
	return os.WriteFile(outputFile, []byte(text), 0o644)
}

func (f *fakeSpeaker) Name() string       { return "fake" }
func (f *fakeSpeaker) IsAvailable() error { return nil }

func newTestProcessor(t *testing.T, papers []arxiv.Paper) (*Processor, *fakeSpeaker) {
	t.Helper()

	cfg := config.Default()
	cfg.DataDir = t.TempDir()

	history, err := store.NewStore(cfg.DataDir)
	if err != nil {
		t.Fatalf("failed to open history store: %v", err)
	}
	t.Cleanup(func() { history.Close() })

	speaker := &fakeSpeaker{}
	// No backend credentials configured, so translation passes text through.
	return &Processor{
		cfg:        cfg,
		client:     &fakeSearcher{papers: papers},
		translator: translation.NewTranslator(translation.Config{}),
		speaker:    speaker,
		history:    history,
	}, speaker
}

func samplePapers() []arxiv.Paper {
	return []arxiv.Paper{
		{ID: "2401.00001", Title: "First Paper", Abstract: "About pulsars."},
		{ID: "2401.00002", Title: "Second Paper", Abstract: "About magnetars."},
	}
}

func TestFetchBuildsSummaries(t *testing.T) {
	p, _ := newTestProcessor(t, samplePapers())

	items, err := p.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("Fetch() returned %d items, want 2", len(items))
	}

	want := "First Paper：About pulsars."
	if items[0].Summary != want {
		t.Errorf("items[0].Summary = %q, want %q", items[0].Summary, want)
	}
}

func TestFetchRecordsHistory(t *testing.T) {
	p, _ := newTestProcessor(t, samplePapers())
	ctx := context.Background()

	if _, err := p.Fetch(ctx); err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	records, err := p.History().Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("history has %d records, want 2", len(records))
	}
}

func TestFetchNewSkipsAnnounced(t *testing.T) {
	p, _ := newTestProcessor(t, samplePapers())
	ctx := context.Background()

	items, err := p.FetchNew(ctx)
	if err != nil {
		t.Fatalf("FetchNew() error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("FetchNew() returned %d items, want 2", len(items))
	}

	if err := p.MarkAnnounced(ctx, "2401.00001"); err != nil {
		t.Fatalf("MarkAnnounced() error: %v", err)
	}

	items, err = p.FetchNew(ctx)
	if err != nil {
		t.Fatalf("FetchNew() error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("FetchNew() returned %d items after announcing one, want 1", len(items))
	}
	if items[0].Paper.ID != "2401.00002" {
		t.Errorf("remaining paper = %s, want 2401.00002", items[0].Paper.ID)
	}
}

func TestCountNew(t *testing.T) {
	p, _ := newTestProcessor(t, samplePapers())
	ctx := context.Background()

	count, err := p.CountNew(ctx)
	if err != nil {
		t.Fatalf("CountNew() error: %v", err)
	}
	if count != 2 {
		t.Errorf("CountNew() = %d, want 2", count)
	}

	if err := p.MarkAnnounced(ctx, "2401.00001"); err != nil {
		t.Fatalf("MarkAnnounced() error: %v", err)
	}
	count, err = p.CountNew(ctx)
	if err != nil {
		t.Fatalf("CountNew() error: %v", err)
	}
	if count != 1 {
		t.Errorf("CountNew() = %d after announcing one, want 1", count)
	}
}

func TestFetchSearchError(t *testing.T) {
	p, _ := newTestProcessor(t, nil)
	p.client = &fakeSearcher{err: errors.New("arXiv unreachable")}

	if _, err := p.Fetch(context.Background()); err == nil {
		t.Error("Fetch() expected error when search fails")
	}
}

func TestReloadSpeechRebuildsProvider(t *testing.T) {
	p, _ := newTestProcessor(t, nil)

	p.cfg.Speech.EdgeVoice = "zh-CN-YunxiNeural"
	if err := p.ReloadSpeech(); err != nil {
		t.Fatalf("ReloadSpeech() error: %v", err)
	}
	if p.Speaker().Name() == "fake" {
		t.Error("ReloadSpeech() did not replace the speech provider")
	}
}

func TestNewSessionSpeaksSummaries(t *testing.T) {
	p, speaker := newTestProcessor(t, samplePapers())
	ctx := context.Background()

	items, err := p.Fetch(ctx)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}

	session := p.NewSession(items)
	if session.Len() != 2 {
		t.Fatalf("session has %d positions, want 2", session.Len())
	}

	if _, err := session.WaitReady(ctx, 0); err != nil {
		t.Fatalf("WaitReady() error: %v", err)
	}
	if len(speaker.generated) != 1 {
		t.Fatalf("speaker generated %d files, want 1", len(speaker.generated))
	}
	if speaker.generated[0] != items[0].Summary {
		t.Errorf("spoken text = %q, want %q", speaker.generated[0], items[0].Summary)
	}
}
