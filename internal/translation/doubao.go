package translation

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// doubaoAPIBase is the Doubao (Ark) chat completion endpoint. Declared
// as a var so tests can substitute an httptest server.
var doubaoAPIBase = "https://ark.cn-beijing.volces.com/api/v3/chat/completions"

const defaultDoubaoModel = "doubao-pro-32k"

// doubaoNow returns the timestamp used for request signing. Tests
// override it for deterministic signatures.
var doubaoNow = time.Now

// DoubaoBackend translates via the Doubao chat API. Requests carry an
// HMAC-SHA256 signature over the X-Date timestamp and body digest,
// computed with the secret key.
type DoubaoBackend struct {
	config     DoubaoConfig
	httpClient *http.Client
}

// NewDoubaoBackend creates a Doubao translation backend.
func NewDoubaoBackend(config DoubaoConfig) (*DoubaoBackend, error) {
	if config.APIKey == "" || config.SecretKey == "" {
		return nil, fmt.Errorf("Doubao API key and secret key are required")
	}
	if config.Model == "" {
		config.Model = defaultDoubaoModel
	}
	return &DoubaoBackend{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Name returns the backend name.
func (d *DoubaoBackend) Name() string { return "doubao" }

type doubaoRequest struct {
	Model    string          `json:"model"`
	Messages []doubaoMessage `json:"messages"`
}

type doubaoMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type doubaoResponse struct {
	Choices []struct {
		Message doubaoMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Translate sends a signed chat completion request asking for a
// translation.
func (d *DoubaoBackend) Translate(ctx context.Context, text, src, dst string) (string, error) {
	body, err := json.Marshal(doubaoRequest{
		Model: d.config.Model,
		Messages: []doubaoMessage{
			{
				Role: "system",
				Content: fmt.Sprintf(
					"You are a professional translator. Translate %s to %s accurately and fluently. Respond with only the translation.",
					languageName(src), languageName(dst)),
			},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, doubaoAPIBase, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	date := doubaoNow().UTC().Format("20060102T150405Z")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Date", date)
	req.Header.Set("Authorization", d.signature(date, body))

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Doubao API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Doubao API returned HTTP %d", resp.StatusCode)
	}

	var result doubaoResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("parsing Doubao response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("Doubao API error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no translation returned from Doubao")
	}

	out := strings.TrimSpace(result.Choices[0].Message.Content)
	if out == "" {
		return "", fmt.Errorf("empty translation from Doubao")
	}
	return out, nil
}

// signature computes the HMAC-SHA256 signature over the request
// timestamp and body digest.
func (d *DoubaoBackend) signature(date string, body []byte) string {
	digest := sha256.Sum256(body)

	mac := hmac.New(sha256.New, []byte(d.config.SecretKey))
	mac.Write([]byte(date))
	mac.Write([]byte("\n"))
	mac.Write([]byte(hex.EncodeToString(digest[:])))

	return fmt.Sprintf("HMAC-SHA256 AccessKey=%s, Signature=%s",
		d.config.APIKey, hex.EncodeToString(mac.Sum(nil)))
}
