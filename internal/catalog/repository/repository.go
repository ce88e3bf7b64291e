// Package repository provides read access to the product catalog.
// The catalog itself is managed elsewhere; the lead pipeline only needs to
// resolve an optional product reference on intake.
package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("product not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Product is the slim catalog view used by lead intake.
type Product struct {
	ID          int64
	Slug        string
	Name        string
	IsPublished bool
}

// GetPublishedBySlug returns the published product with the given slug.
// Returns ErrNotFound when the slug is unknown or the product is not
// published; callers decide whether an absent product is an error.
func (r *Repository) GetPublishedBySlug(ctx context.Context, slug string) (Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, `
		SELECT id, slug, name, is_published
		FROM products
		WHERE slug = $1 AND is_published = true
	`, slug).Scan(&p.ID, &p.Slug, &p.Name, &p.IsPublished)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

// GetByID returns a product regardless of publication state. Used by staff
// views when rendering lead details.
func (r *Repository) GetByID(ctx context.Context, id int64) (Product, error) {
	var p Product
	err := r.pool.QueryRow(ctx, `
		SELECT id, slug, name, is_published
		FROM products
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Slug, &p.Name, &p.IsPublished)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}
