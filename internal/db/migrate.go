package db

import (
	"context"
	"database/sql"

	"github.com/inventrackpro/inventrack/internal/db/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// RunMigrations applies the embedded schema migrations. goose works over
// database/sql, so this opens its own short-lived connection instead of
// reusing the pgx pool.
func RunMigrations(ctx context.Context, dbURL string) error {
	conn, err := sql.Open("pgx", dbURL)

	if err != nil {
		return err
	}

	defer conn.Close()

	goose.SetBaseFS(migrations.Migrations)

	err = goose.SetDialect("pgx")

	if err != nil {
		return err
	}

	return goose.UpContext(ctx, conn, ".")
}
