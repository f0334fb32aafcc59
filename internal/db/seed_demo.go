package db

import (
	"context"
	"errors"

	"github.com/inventrackpro/inventrack/internal/config"
	"github.com/inventrackpro/inventrack/internal/security"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureDemoUser creates a demo account with a few sample products so a
// fresh install has something to show. No-op unless SEED_DEMO is set.
func EnsureDemoUser(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if !cfg.SeedDemo || cfg.DemoUsername == "" || cfg.DemoPassword == "" {
		return nil
	}

	// check if the user exists

	var dummy int64

	err := pool.QueryRow(ctx, `SELECT id FROM users WHERE username = $1`, cfg.DemoUsername).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	digest, err := security.HashPassword(cfg.DemoPassword)

	if err != nil {
		return err
	}

	var userID int64

	err = pool.QueryRow(
		ctx,
		`INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id`,
		cfg.DemoUsername, digest,
	).Scan(&userID)

	if err != nil {
		return err
	}

	samples := []struct {
		name        string
		description string
		category    string
		price       float64
		rating      float64
	}{
		{"Wireless Mouse", "Compact 2.4GHz wireless mouse", "Electronics", 24.99, 4.2},
		{"Desk Lamp", "Adjustable LED desk lamp", "Home", 39.50, 3.8},
		{"Notebook Set", "Pack of three ruled notebooks", "Stationery", 12.00, 4.6},
	}

	for _, s := range samples {
		_, err = pool.Exec(
			ctx,
			`INSERT INTO products (name, description, category, price, rating, user_id)
             VALUES ($1, $2, $3, $4, $5, $6)`,
			s.name, s.description, s.category, s.price, s.rating, userID,
		)

		if err != nil {
			return err
		}
	}

	return nil
}
