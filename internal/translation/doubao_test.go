package translation

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestDoubaoTranslate(t *testing.T) {
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	oldNow := doubaoNow
	doubaoNow = func() time.Time { return fixed }
	defer func() { doubaoNow = oldNow }()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		if got := r.Header.Get("X-Date"); got != "20240301T120000Z" {
			t.Errorf("X-Date = %q", got)
		}

		// Recompute the HMAC over the timestamp and body digest.
		digest := sha256.Sum256(body)
		mac := hmac.New(sha256.New, []byte("secret"))
		mac.Write([]byte("20240301T120000Z\n" + hex.EncodeToString(digest[:])))
		want := "HMAC-SHA256 AccessKey=access, Signature=" + hex.EncodeToString(mac.Sum(nil))
		if got := r.Header.Get("Authorization"); got != want {
			t.Errorf("Authorization = %q, want %q", got, want)
		}

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"你好，世界"}}]}`))
	}))
	defer srv.Close()

	oldBase := doubaoAPIBase
	doubaoAPIBase = srv.URL
	defer func() { doubaoAPIBase = oldBase }()

	d, err := NewDoubaoBackend(DoubaoConfig{APIKey: "access", SecretKey: "secret"})
	if err != nil {
		t.Fatalf("NewDoubaoBackend() error: %v", err)
	}

	got, err := d.Translate(context.Background(), "hello world", "en", "zh-cn")
	if err != nil {
		t.Fatalf("Translate() error: %v", err)
	}
	if got != "你好，世界" {
		t.Errorf("Translate() = %q", got)
	}
}

func TestDoubaoTranslateEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	oldBase := doubaoAPIBase
	doubaoAPIBase = srv.URL
	defer func() { doubaoAPIBase = oldBase }()

	d, _ := NewDoubaoBackend(DoubaoConfig{APIKey: "a", SecretKey: "s"})
	if _, err := d.Translate(context.Background(), "hello", "en", "zh"); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestNewDoubaoBackendMissingCredentials(t *testing.T) {
	if _, err := NewDoubaoBackend(DoubaoConfig{APIKey: "only-key"}); err == nil {
		t.Error("expected error when secret key is missing")
	}
}
