package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// apiBase is the arXiv search endpoint. Declared as a var so tests can
// substitute an httptest server.
var apiBase = "https://export.arxiv.org/api/query"

// retryBaseDelay controls the backoff base for HTTP 429 responses. Tests
// override this to avoid real sleeps.
var retryBaseDelay = 5 * time.Second

const maxRetries = 3

// Paper is a single preprint record retrieved from the search index.
// Immutable once fetched.
type Paper struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Authors    []string  `json:"authors"`
	Abstract   string    `json:"abstract"`
	Categories []string  `json:"categories"`
	Published  time.Time `json:"published"`
	PDFURL     string    `json:"pdf_url"`
}

// SearchConfig selects what to search for. The sort order is fixed:
// submission date, newest first.
type SearchConfig struct {
	Keywords   []string
	Fields     []string
	MaxResults int
	UserAgent  string
}

// Client talks to the arXiv Atom API.
type Client struct {
	httpClient *http.Client
}

// NewClient returns a client using the given HTTP client, or a default
// one with a 30s timeout when nil.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{httpClient: httpClient}
}

// Search queries arXiv for the newest submissions matching the configured
// keywords, keeps results whose categories intersect the expanded field
// list and returns at most cfg.MaxResults papers in result order.
// Transport and decode errors propagate to the caller, which owns the
// retry policy.
func (c *Client) Search(ctx context.Context, cfg SearchConfig) ([]Paper, error) {
	query := BuildQuery(cfg.Keywords)
	if query == "" {
		return nil, fmt.Errorf("empty search query")
	}
	categories := ExpandCategories(cfg.Fields)

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 10
	}

	params := url.Values{}
	params.Set("search_query", query)
	params.Set("start", "0")
	// Request more than the cap so category filtering still fills it.
	params.Set("max_results", strconv.Itoa(maxResults*3))
	params.Set("sortBy", "submittedDate")
	params.Set("sortOrder", "descending")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := c.doWithRetry(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed atomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var papers []Paper
	for _, entry := range feed.Entries {
		p := entry.toPaper()
		if p.ID == "" {
			continue
		}
		if !intersects(p.Categories, categories) {
			continue
		}
		papers = append(papers, p)
		if len(papers) >= maxResults {
			break
		}
	}
	return papers, nil
}

// doWithRetry retries on HTTP 429 with exponential backoff. On each 429
// the body is drained and closed before sleeping; context cancellation
// aborts the wait.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := c.httpClient.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := time.Duration(math.Pow(2, float64(attempt))) * retryBaseDelay
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

func intersects(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

// Atom feed XML structures.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID         string         `xml:"id"`
	Title      string         `xml:"title"`
	Summary    string         `xml:"summary"`
	Published  string         `xml:"published"`
	Authors    []atomAuthor   `xml:"author"`
	Categories []atomCategory `xml:"category"`
	Links      []atomLink     `xml:"link"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

func (e atomEntry) toPaper() Paper {
	p := Paper{
		ID:       shortID(e.ID),
		Title:    strings.TrimSpace(e.Title),
		Abstract: strings.TrimSpace(e.Summary),
	}
	for _, a := range e.Authors {
		p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
	}
	for _, c := range e.Categories {
		if c.Term != "" {
			p.Categories = append(p.Categories, c.Term)
		}
	}
	for _, l := range e.Links {
		if l.Title == "pdf" || l.Type == "application/pdf" {
			p.PDFURL = l.Href
		}
	}
	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		p.Published = t
	}
	return p
}

// shortID pulls the arXiv ID from the entry's <id> URL, e.g.
// "http://arxiv.org/abs/2301.07041v1" -> "2301.07041".
func shortID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
