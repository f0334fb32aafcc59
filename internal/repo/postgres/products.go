package postgres

import (
	"context"
	"errors"

	"github.com/inventrackpro/inventrack/internal/domain/product"
	"github.com/inventrackpro/inventrack/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProductsRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

// constructor function

func NewProductsRepo(pool *pgxpool.Pool, prom *observability.Prom) *ProductsRepo {
	return &ProductsRepo{
		pool: pool,
		prom: prom,
	}
}

func (r *ProductsRepo) observe(op string, fn func() error) error {
	if r.prom != nil {
		return r.prom.ObserveDB(op, fn)
	}
	return fn()
}

func (r *ProductsRepo) Create(ctx context.Context, userID int64, req product.CreateProductRequest) (product.Product, error) {
	rating := 0.0

	if req.Rating != nil {
		rating = *req.Rating
	}

	var p product.Product

	err := r.observe("products.create", func() error {
		return r.pool.QueryRow(
			ctx,
			`INSERT INTO products (name, description, category, price, rating, image_url, user_id)
             VALUES ($1, $2, $3, $4, $5, $6, $7)
             RETURNING id, name, description, category, price, rating, image_url, user_id`,
			req.Name,
			req.Description,
			req.Category,
			*req.Price,
			rating,
			req.ImageURL,
			userID,
		).Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Category,
			&p.Price,
			&p.Rating,
			&p.ImageURL,
			&p.UserID,
		)
	})

	if err != nil {
		return product.Product{}, err
	}

	return p, nil
}

func (r *ProductsRepo) GetByID(ctx context.Context, id int64) (product.Product, error) {
	var p product.Product

	err := r.observe("products.get", func() error {
		return r.pool.QueryRow(
			ctx,
			`SELECT id, name, description, category, price, rating, image_url, user_id
             FROM products
             WHERE id = $1`,
			id,
		).Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Category,
			&p.Price,
			&p.Rating,
			&p.ImageURL,
			&p.UserID,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, product.ErrNotFound
		}

		return product.Product{}, err
	}

	return p, nil
}

// ListByUser returns the owner's full product set in insertion order;
// filtering and sorting happen in memory on top of this.
func (r *ProductsRepo) ListByUser(ctx context.Context, userID int64) ([]product.Product, error) {
	output := make([]product.Product, 0)

	err := r.observe("products.list_by_user", func() error {
		rows, err := r.pool.Query(
			ctx,
			`SELECT id, name, description, category, price, rating, image_url, user_id
             FROM products
             WHERE user_id = $1
             ORDER BY id ASC`,
			userID,
		)

		if err != nil {
			return err
		}

		defer rows.Close()

		for rows.Next() {
			var p product.Product

			err = rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Rating, &p.ImageURL, &p.UserID)

			if err != nil {
				return err
			}

			output = append(output, p)
		}

		return rows.Err()
	})

	if err != nil {
		return nil, err
	}

	return output, nil
}

func (r *ProductsRepo) Update(ctx context.Context, id int64, req product.UpdateProductRequest) (product.Product, error) {
	var p product.Product

	err := r.observe("products.update", func() error {
		return r.pool.QueryRow(
			ctx,
			`UPDATE products
                SET name        = COALESCE($2, name),
                    description = COALESCE($3, description),
                    category    = COALESCE($4, category),
                    price       = COALESCE($5, price),
                    rating      = COALESCE($6, rating),
                    image_url   = COALESCE($7, image_url)
             WHERE id = $1
             RETURNING id, name, description, category, price, rating, image_url, user_id`,
			id,
			req.Name,
			req.Description,
			req.Category,
			req.Price,
			req.Rating,
			req.ImageURL,
		).Scan(
			&p.ID,
			&p.Name,
			&p.Description,
			&p.Category,
			&p.Price,
			&p.Rating,
			&p.ImageURL,
			&p.UserID,
		)
	})

	if err != nil {
		// if there are no rows matching the id
		if errors.Is(err, pgx.ErrNoRows) {
			return product.Product{}, product.ErrNotFound
		}

		return product.Product{}, err
	}

	return p, nil
}

func (r *ProductsRepo) Delete(ctx context.Context, id int64) error {
	var tag pgconn.CommandTag

	err := r.observe("products.delete", func() error {
		t, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)

		tag = t

		return err
	})

	if err != nil {
		return err
	}

	// if no rows were deleted as a result return a not found error
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}

	return nil
}
