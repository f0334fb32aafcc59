package postgres

import (
	"context"
	"errors"

	"github.com/inventrackpro/inventrack/internal/domain/user"
	"github.com/inventrackpro/inventrack/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UsersRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewUsersRepo(pool *pgxpool.Pool, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *UsersRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	var u user.User

	err := r.observe("users.get", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, username, password, first_name, last_name, email
             FROM users
             WHERE id = $1`,
			id,
		).Scan(
			&u.ID,
			&u.Username,
			&u.PasswordDigest,
			&u.FirstName,
			&u.LastName,
			&u.Email,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	var u user.User

	err := r.observe("users.get_by_username", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, username, password, first_name, last_name, email
             FROM users
             WHERE username = $1`,
			username,
		).Scan(
			&u.ID,
			&u.Username,
			&u.PasswordDigest,
			&u.FirstName,
			&u.LastName,
			&u.Email,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}
	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, username, passwordDigest string) (user.User, error) {
	var u user.User

	err := r.observe("users.create", func() error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO users (username, password)
             VALUES ($1, $2)
             RETURNING id, username, password, first_name, last_name, email`,
			username,
			passwordDigest,
		).Scan(
			&u.ID,
			&u.Username,
			&u.PasswordDigest,
			&u.FirstName,
			&u.LastName,
			&u.Email,
		)
	})

	if err != nil {
		var pgErr *pgconn.PgError

		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return user.User{}, user.ErrUsernameTaken
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) UpdateProfile(ctx context.Context, id int64, req user.ProfileUpdateRequest) (user.User, error) {
	var u user.User

	err := r.observe("users.update_profile", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE users
            SET first_name = COALESCE($2, first_name),
                last_name  = COALESCE($3, last_name),
                email      = COALESCE($4, email)
         WHERE id = $1
         RETURNING id, username, password, first_name, last_name, email`,
			id,
			req.FirstName,
			req.LastName,
			req.Email,
		).Scan(
			&u.ID,
			&u.Username,
			&u.PasswordDigest,
			&u.FirstName,
			&u.LastName,
			&u.Email,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}

		return user.User{}, err
	}

	return u, nil
}

func (r *UsersRepo) UpdatePassword(ctx context.Context, id int64, passwordDigest string) error {
	var tag pgconn.CommandTag

	err := r.observe("users.update_password", func() error {
		var err error

		tag, err = r.pool.Exec(
			ctx,
			`UPDATE users SET password = $2 WHERE id = $1`,
			id,
			passwordDigest,
		)

		return err
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}

// Delete removes the user; products cascade via the schema's foreign key.
func (r *UsersRepo) Delete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := r.observe("users.delete", func() error {
		var err error

		tag, err = r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)

		return err
	})

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}

	return nil
}
