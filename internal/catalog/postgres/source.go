// Package postgres reads a restaurant catalog from a PostGIS-enabled
// Postgres table. It is a catalog source only: graph state and review-score
// changes are never written back.
package postgres

import (
	"context"
	"fmt"

	"github.com/chrisdamba/fooder/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const Schema = `
CREATE EXTENSION IF NOT EXISTS postgis;
CREATE TABLE IF NOT EXISTS restaurants (
    name         TEXT PRIMARY KEY,
    category     TEXT NOT NULL,
    address      TEXT NOT NULL DEFAULT '',
    price_tier   SMALLINT NOT NULL,
    review_score DOUBLE PRECISION NOT NULL,
    location     GEOGRAPHY(POINT, 4326) NOT NULL
)`

type Source struct {
	pool *pgxpool.Pool
}

func NewSource(pool *pgxpool.Pool) *Source {
	return &Source{pool: pool}
}

// Connect opens a pool for dsn and checks that the server answers.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to reach catalog database: %w", err)
	}
	return pool, nil
}

func (s *Source) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	return err
}

// Load returns every restaurant ordered by name, validated like a CSV row.
func (s *Source) Load(ctx context.Context) ([]models.Restaurant, error) {
	query := `
        SELECT name, category, address, price_tier, review_score, ST_AsText(location::geometry)
        FROM restaurants
        ORDER BY name
    `
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var restaurants []models.Restaurant
	for rows.Next() {
		var (
			r        models.Restaurant
			category string
			tier     int16
		)
		if err := rows.Scan(&r.Name, &category, &r.Address, &tier, &r.ReviewScore, &r.Location); err != nil {
			return nil, err
		}
		if r.Category, err = models.ParseCategory(category); err != nil {
			return nil, &models.InvalidRecordError{Name: r.Name, Field: "category", Reason: err.Error()}
		}
		r.PriceTier = models.PriceTier(tier)
		if err := r.Validate(); err != nil {
			return nil, err
		}
		restaurants = append(restaurants, r)
	}
	return restaurants, rows.Err()
}

// BulkCreate seeds the table, replacing rows with the same name.
func (s *Source) BulkCreate(ctx context.Context, restaurants []models.Restaurant) error {
	query := `
        INSERT INTO restaurants (name, category, address, price_tier, review_score, location)
        VALUES ($1, $2, $3, $4, $5, ST_SetSRID(ST_MakePoint($6, $7), 4326)::geography)
        ON CONFLICT (name) DO UPDATE SET
            category = EXCLUDED.category,
            address = EXCLUDED.address,
            price_tier = EXCLUDED.price_tier,
            review_score = EXCLUDED.review_score,
            location = EXCLUDED.location
    `
	batch := &pgx.Batch{}
	for _, r := range restaurants {
		batch.Queue(query,
			r.Name,
			r.Category.String(),
			r.Address,
			int16(r.PriceTier),
			r.ReviewScore,
			r.Location.Lon,
			r.Location.Lat,
		)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("error inserting restaurants: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *Source) Count(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, "SELECT COUNT(*) FROM restaurants").Scan(&count)
	return count, err
}
