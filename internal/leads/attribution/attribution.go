// Package attribution resolves marketing sources from UTM parameters and
// referrer heuristics. Sources are memoized per distinct UTM triple through
// the store's get-or-create.
package attribution

import (
	"context"
	"strings"

	"adiabatic_site_backend/internal/leads/repository"
)

// SourceStore is the persistence surface the resolver needs.
type SourceStore interface {
	GetOrCreateSource(ctx context.Context, name, utmSource, utmMedium, utmCampaign string) (repository.Source, error)
}

// PageContext carries the request-side attribution signals.
type PageContext struct {
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
	Referrer    string
}

type Resolver struct {
	sources SourceStore
}

func NewResolver(sources SourceStore) *Resolver {
	return &Resolver{sources: sources}
}

// Resolve maps the page context to a source row. Any present UTM parameter
// wins over the referrer; the referrer check is a substring heuristic and
// ambiguous referrers always fall back to Direct.
func (r *Resolver) Resolve(ctx context.Context, pc PageContext) (repository.Source, error) {
	utmSource := strings.TrimSpace(pc.UTMSource)
	utmMedium := strings.TrimSpace(pc.UTMMedium)
	utmCampaign := strings.TrimSpace(pc.UTMCampaign)

	if utmSource != "" || utmMedium != "" || utmCampaign != "" {
		name := utmName(utmSource, utmMedium, utmCampaign)
		return r.sources.GetOrCreateSource(ctx, name, utmSource, utmMedium, utmCampaign)
	}

	referrer := strings.ToLower(pc.Referrer)
	switch {
	case strings.Contains(referrer, "google"):
		return r.sources.GetOrCreateSource(ctx, "Google Organic", "google", "organic", "")
	case strings.Contains(referrer, "facebook"):
		return r.sources.GetOrCreateSource(ctx, "Facebook", "facebook", "social", "")
	default:
		return r.sources.GetOrCreateSource(ctx, "Direct", "direct", "none", "")
	}
}

func utmName(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	if len(nonEmpty) == 0 {
		return "Direct"
	}
	return strings.Join(nonEmpty, "_")
}
