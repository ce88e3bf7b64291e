package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// Source is a reusable marketing-attribution bucket. Rows are shared across
// leads and never mutated after creation except for the is_active flag.
type Source struct {
	ID          int64
	Name        string
	UTMSource   string
	UTMMedium   string
	UTMCampaign string
	IsActive    bool
	CreatedAt   time.Time
}

// GetOrCreateSource returns the source matching the UTM triple, creating it
// on first observation. Concurrent creators race benignly: the uniqueness
// constraint on (utm_source, utm_medium, utm_campaign) lets one INSERT win
// and the loser reads the winner's row back.
func (r *Repository) GetOrCreateSource(ctx context.Context, name, utmSource, utmMedium, utmCampaign string) (Source, error) {
	var s Source
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_sources (name, utm_source, utm_medium, utm_campaign)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (utm_source, utm_medium, utm_campaign) DO NOTHING
		RETURNING id, name, utm_source, utm_medium, utm_campaign, is_active, created_at
	`, name, utmSource, utmMedium, utmCampaign).Scan(
		&s.ID, &s.Name, &s.UTMSource, &s.UTMMedium, &s.UTMCampaign, &s.IsActive, &s.CreatedAt,
	)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Source{}, err
	}

	// Conflict path: the row already exists, read it back.
	err = r.pool.QueryRow(ctx, `
		SELECT id, name, utm_source, utm_medium, utm_campaign, is_active, created_at
		FROM lead_sources
		WHERE utm_source = $1 AND utm_medium = $2 AND utm_campaign = $3
	`, utmSource, utmMedium, utmCampaign).Scan(
		&s.ID, &s.Name, &s.UTMSource, &s.UTMMedium, &s.UTMCampaign, &s.IsActive, &s.CreatedAt,
	)
	if err != nil {
		return Source{}, err
	}
	return s, nil
}

// GetSourceByID looks up a source row; used when rendering lead details.
func (r *Repository) GetSourceByID(ctx context.Context, id int64) (Source, error) {
	var s Source
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, utm_source, utm_medium, utm_campaign, is_active, created_at
		FROM lead_sources
		WHERE id = $1
	`, id).Scan(&s.ID, &s.Name, &s.UTMSource, &s.UTMMedium, &s.UTMCampaign, &s.IsActive, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Source{}, ErrNotFound
		}
		return Source{}, err
	}
	return s, nil
}
