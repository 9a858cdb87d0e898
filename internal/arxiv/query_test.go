package arxiv

import (
	"strings"
	"testing"
)

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		want     string
	}{
		{
			name:     "empty",
			keywords: nil,
			want:     "",
		},
		{
			name:     "single keyword",
			keywords: []string{"pulsar"},
			want:     `"pulsar"`,
		},
		{
			name:     "multiple keywords joined with OR",
			keywords: []string{"pulsar", "fast radio burst", "neutron star"},
			want:     `"pulsar" OR "fast radio burst" OR "neutron star"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildQuery(tt.keywords)
			if got != tt.want {
				t.Errorf("BuildQuery() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildQueryFragmentCount(t *testing.T) {
	keywords := []string{"a", "b", "c", "d"}
	got := BuildQuery(keywords)

	fragments := strings.Split(got, " OR ")
	if len(fragments) != len(keywords) {
		t.Fatalf("expected %d fragments, got %d", len(keywords), len(fragments))
	}
	for i, f := range fragments {
		want := `"` + keywords[i] + `"`
		if f != want {
			t.Errorf("fragment %d = %q, want %q", i, f, want)
		}
	}
}

func TestExpandCategories(t *testing.T) {
	got := ExpandCategories([]string{"astro-ph"})

	want := []string{"astro-ph.CO", "astro-ph.EP", "astro-ph.GA", "astro-ph.HE",
		"astro-ph.IM", "astro-ph.SR"}
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d: %v", len(want), len(got), got)
	}
	for i, c := range want {
		if got[i] != c {
			t.Errorf("category %d = %q, want %q", i, got[i], c)
		}
	}
}

func TestExpandCategoriesUmbrellaSuperset(t *testing.T) {
	got := ExpandCategories([]string{"physics"})

	for _, sub := range categoryMap["physics"] {
		found := false
		for _, c := range got {
			if c == sub {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected expanded categories to contain %q", sub)
		}
	}
}

func TestExpandCategoriesUnknownPassthrough(t *testing.T) {
	got := ExpandCategories([]string{"cs.LG", "astro-ph"})

	count := 0
	for _, c := range got {
		if c == "cs.LG" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected unknown token to appear verbatim exactly once, got %d", count)
	}
}

func TestExpandCategoriesEmpty(t *testing.T) {
	if got := ExpandCategories(nil); len(got) != 0 {
		t.Errorf("expected empty category list, got %v", got)
	}
}
