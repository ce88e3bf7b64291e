package attribution

import (
	"context"
	"testing"

	"adiabatic_site_backend/internal/leads/repository"
)

type fakeSourceStore struct {
	byTriple map[[3]string]repository.Source
	nextID   int64
	calls    int
}

func newFakeSourceStore() *fakeSourceStore {
	return &fakeSourceStore{byTriple: map[[3]string]repository.Source{}}
}

func (f *fakeSourceStore) GetOrCreateSource(_ context.Context, name, utmSource, utmMedium, utmCampaign string) (repository.Source, error) {
	f.calls++
	key := [3]string{utmSource, utmMedium, utmCampaign}
	if s, ok := f.byTriple[key]; ok {
		return s, nil
	}
	f.nextID++
	s := repository.Source{
		ID:          f.nextID,
		Name:        name,
		UTMSource:   utmSource,
		UTMMedium:   utmMedium,
		UTMCampaign: utmCampaign,
		IsActive:    true,
	}
	f.byTriple[key] = s
	return s, nil
}

func TestResolveUTMTriple(t *testing.T) {
	store := newFakeSourceStore()
	r := NewResolver(store)

	s, err := r.Resolve(context.Background(), PageContext{
		UTMSource:   "google",
		UTMMedium:   "cpc",
		UTMCampaign: "spring",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.Name != "google_cpc_spring" {
		t.Errorf("name = %q, want google_cpc_spring", s.Name)
	}
}

func TestResolveUTMSkipsEmptyParts(t *testing.T) {
	store := newFakeSourceStore()
	r := NewResolver(store)

	s, err := r.Resolve(context.Background(), PageContext{UTMSource: "newsletter"})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.Name != "newsletter" {
		t.Errorf("name = %q, want newsletter", s.Name)
	}
}

func TestResolveSameTripleReusesSource(t *testing.T) {
	store := newFakeSourceStore()
	r := NewResolver(store)
	pc := PageContext{UTMSource: "google", UTMMedium: "cpc", UTMCampaign: "spring"}

	first, _ := r.Resolve(context.Background(), pc)
	second, _ := r.Resolve(context.Background(), pc)
	if first.ID != second.ID {
		t.Errorf("expected the same source row, got %d and %d", first.ID, second.ID)
	}
}

func TestResolveReferrerHeuristics(t *testing.T) {
	tests := []struct {
		referrer string
		name     string
		source   string
		medium   string
	}{
		{"https://www.GOOGLE.com/search?q=chillers", "Google Organic", "google", "organic"},
		{"https://m.facebook.com/adiabatic", "Facebook", "facebook", "social"},
		{"https://duckduckgo.com/", "Direct", "direct", "none"},
		{"", "Direct", "direct", "none"},
	}

	for _, tt := range tests {
		r := NewResolver(newFakeSourceStore())
		s, err := r.Resolve(context.Background(), PageContext{Referrer: tt.referrer})
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tt.referrer, err)
		}
		if s.Name != tt.name || s.UTMSource != tt.source || s.UTMMedium != tt.medium {
			t.Errorf("Resolve(%q) = %q (%s/%s), want %q (%s/%s)",
				tt.referrer, s.Name, s.UTMSource, s.UTMMedium, tt.name, tt.source, tt.medium)
		}
	}
}

func TestResolveUTMWinsOverReferrer(t *testing.T) {
	store := newFakeSourceStore()
	r := NewResolver(store)

	s, err := r.Resolve(context.Background(), PageContext{
		UTMSource: "partner",
		Referrer:  "https://www.google.com/",
	})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.Name != "partner" {
		t.Errorf("name = %q, want partner", s.Name)
	}
}
