package translation

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

// backendPriority is the default fallback order when no explicit backend
// is configured.
var backendPriority = []string{"doubao", "baidu", "google"}

type breakerBackend struct {
	backend Backend
	breaker *gobreaker.CircuitBreaker
}

// Translator tries the configured backends in priority order. Each
// backend sits behind a circuit breaker so a dead service is skipped
// quickly instead of timing out on every paper.
type Translator struct {
	chain []breakerBackend
}

// NewTranslator builds the backend chain from the configuration. Backends
// with missing credentials are left out of the chain. A translator with
// no usable backend is still valid: Translate degrades to the identity.
func NewTranslator(config Config) *Translator {
	backends := make(map[string]Backend)

	if b, err := NewDoubaoBackend(config.Doubao); err == nil {
		backends["doubao"] = b
	}
	if b, err := NewBaiduBackend(config.Baidu); err == nil {
		backends["baidu"] = b
	}
	if b, err := NewGoogleBackend(config.Google); err == nil {
		backends["google"] = b
	}

	order := backendPriority
	if config.Backend != "" {
		order = append([]string{config.Backend}, backendPriority...)
	}

	t := &Translator{}
	seen := make(map[string]bool)
	for _, name := range order {
		if seen[name] {
			continue
		}
		seen[name] = true
		b, ok := backends[name]
		if !ok {
			continue
		}
		t.chain = append(t.chain, breakerBackend{
			backend: b,
			breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
				Name:        "translation-" + name,
				MaxRequests: 1,
				Timeout:     2 * time.Minute,
			}),
		})
	}
	return t
}

// newTranslatorWithBackends is a test seam for injecting fake backends.
func newTranslatorWithBackends(backends ...Backend) *Translator {
	t := &Translator{}
	for _, b := range backends {
		t.chain = append(t.chain, breakerBackend{
			backend: b,
			breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
				Name:        "translation-" + b.Name(),
				MaxRequests: 1,
				Timeout:     2 * time.Minute,
			}),
		})
	}
	return t
}

// Backends returns the names of the usable backends in chain order.
func (t *Translator) Backends() []string {
	names := make([]string, 0, len(t.chain))
	for _, bb := range t.chain {
		names = append(names, bb.backend.Name())
	}
	return names
}

// Translate translates text from src to dst. It is total: every failure
// is logged and swallowed, and when every backend fails the original
// text is returned unchanged. Callers cannot distinguish "no translation
// available" from "text required no translation" and must tolerate both.
func (t *Translator) Translate(ctx context.Context, text, src, dst string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	for _, bb := range t.chain {
		out, err := bb.breaker.Execute(func() (interface{}, error) {
			return bb.backend.Translate(ctx, text, src, dst)
		})
		if err != nil {
			log.Printf("translation: backend %s failed: %v", bb.backend.Name(), err)
			continue
		}
		translated := out.(string)
		if strings.TrimSpace(translated) == "" {
			continue
		}
		return translated
	}

	log.Printf("translation: no backend available, returning original text")
	return text
}
