package processor

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/zhuww/arxiv-news-app/internal/arxiv"
	"github.com/zhuww/arxiv-news-app/internal/config"
	"github.com/zhuww/arxiv-news-app/internal/playback"
	"github.com/zhuww/arxiv-news-app/internal/speech"
	"github.com/zhuww/arxiv-news-app/internal/store"
	"github.com/zhuww/arxiv-news-app/internal/summary"
	"github.com/zhuww/arxiv-news-app/internal/translation"
)

// Item is one paper ready to be announced: the fetched metadata plus the
// translated summary text that will be spoken.
type Item struct {
	Paper   arxiv.Paper
	Summary string
}

// searcher is the part of the arXiv client the pipeline uses.
type searcher interface {
	Search(ctx context.Context, cfg arxiv.SearchConfig) ([]arxiv.Paper, error)
}

// Processor runs the fetch-translate-speak pipeline.
type Processor struct {
	cfg        *config.Config
	client     searcher
	translator *translation.Translator
	speaker    speech.Provider
	history    *store.Store
}

// New creates a Processor from the application configuration. The history
// database lives under the configured data directory.
func New(cfg *config.Config) (*Processor, error) {
	speaker, err := speech.NewProvider(&cfg.Speech)
	if err != nil {
		return nil, fmt.Errorf("failed to create speech provider: %w", err)
	}

	history, err := store.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}

	return &Processor{
		cfg:        cfg,
		client:     arxiv.NewClient(nil),
		translator: translation.NewTranslator(cfg.Translation),
		speaker:    speaker,
		history:    history,
	}, nil
}

// Close releases the history database.
func (p *Processor) Close() error {
	return p.history.Close()
}

// Fetch searches arXiv and returns every matching paper with a translated
// summary, recording each in the history store. Translation failures fall
// back to the original English text rather than dropping the paper.
func (p *Processor) Fetch(ctx context.Context) ([]Item, error) {
	papers, err := p.client.Search(ctx, arxiv.SearchConfig{
		Keywords:   p.cfg.Search.Keywords,
		Fields:     p.cfg.Search.Fields,
		MaxResults: p.cfg.Search.MaxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("arXiv search failed: %w", err)
	}

	items := make([]Item, 0, len(papers))
	for _, paper := range papers {
		// Title and abstract are translated separately so a failure in
		// one still leaves the other readable.
		title := p.translator.Translate(ctx, summary.Clean(paper.Title), "en", p.cfg.Language)
		abstract := p.translator.Translate(ctx, summary.Clean(paper.Abstract), "en", p.cfg.Language)
		translated := summary.Build(title, abstract)

		if err := p.history.Record(ctx, paper, translated); err != nil {
			log.Printf("Failed to record paper %s: %v", paper.ID, err)
		}
		items = append(items, Item{Paper: paper, Summary: translated})
	}
	return items, nil
}

// FetchNew returns only the papers that have not been announced yet.
func (p *Processor) FetchNew(ctx context.Context) ([]Item, error) {
	items, err := p.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	papers := make([]arxiv.Paper, len(items))
	for i, item := range items {
		papers[i] = item.Paper
	}
	fresh, err := p.history.FilterUnannounced(ctx, papers)
	if err != nil {
		return nil, err
	}

	freshIDs := make(map[string]bool, len(fresh))
	for _, paper := range fresh {
		freshIDs[paper.ID] = true
	}

	var out []Item
	for _, item := range items {
		if freshIDs[item.Paper.ID] {
			out = append(out, item)
		}
	}
	return out, nil
}

// CountNew reports how many unannounced papers the current search finds.
// Used by the reminder loop.
func (p *Processor) CountNew(ctx context.Context) (int, error) {
	items, err := p.FetchNew(ctx)
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

// MarkAnnounced stamps a paper as read aloud in the history store.
func (p *Processor) MarkAnnounced(ctx context.Context, paperID string) error {
	return p.history.MarkAnnounced(ctx, paperID)
}

// History exposes the underlying store, for the favorites and recent views.
func (p *Processor) History() *store.Store {
	return p.history
}

// Speaker returns the configured speech provider.
func (p *Processor) Speaker() speech.Provider {
	return p.speaker
}

// ReloadSpeech rebuilds the speech provider from the current
// configuration, so voice changes apply to subsequent sessions.
func (p *Processor) ReloadSpeech() error {
	speaker, err := speech.NewProvider(&p.cfg.Speech)
	if err != nil {
		return fmt.Errorf("failed to rebuild speech provider: %w", err)
	}
	p.speaker = speaker
	return nil
}

// NewSession builds a pregeneration session over the items' summaries,
// writing audio under the data directory.
func (p *Processor) NewSession(items []Item) *playback.Session {
	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.Summary
	}
	audioDir := filepath.Join(p.cfg.DataDir, "audio")
	return playback.NewSession(audioDir, texts, p.speaker.GenerateAudio)
}
