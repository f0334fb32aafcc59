package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/inventrackpro/inventrack/internal/domain/product"
)

// ProductsRepo is the in-memory swap-in for the postgres repo, used by tests.
type ProductsRepo struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]product.Product
}

func NewProductsRepo() *ProductsRepo {
	return &ProductsRepo{
		items: make(map[int64]product.Product),
	}
}

func (r *ProductsRepo) Create(_ context.Context, userID int64, req product.CreateProductRequest) (product.Product, error) {
	rating := 0.0

	if req.Rating != nil {
		rating = *req.Rating
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++

	p := product.Product{
		ID:          r.nextID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       *req.Price,
		Rating:      rating,
		ImageURL:    req.ImageURL,
		UserID:      userID,
	}

	r.items[p.ID] = p

	return p, nil
}

func (r *ProductsRepo) GetByID(_ context.Context, id int64) (product.Product, error) {
	r.mu.RLock()
	p, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return product.Product{}, product.ErrNotFound
	}

	return p, nil
}

func (r *ProductsRepo) ListByUser(_ context.Context, userID int64) ([]product.Product, error) {
	r.mu.RLock()

	output := make([]product.Product, 0)

	for _, p := range r.items {
		if p.UserID == userID {
			output = append(output, p)
		}
	}

	r.mu.RUnlock()

	// match the postgres repo's insertion order
	sort.Slice(output, func(i, j int) bool { return output[i].ID < output[j].ID })

	return output, nil
}

func (r *ProductsRepo) Update(_ context.Context, id int64, req product.UpdateProductRequest) (product.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]

	if !ok {
		return product.Product{}, product.ErrNotFound
	}

	if req.Name != nil {
		p.Name = *req.Name
	}

	if req.Description != nil {
		p.Description = *req.Description
	}

	if req.Category != nil {
		p.Category = *req.Category
	}

	if req.Price != nil {
		p.Price = *req.Price
	}

	if req.Rating != nil {
		p.Rating = *req.Rating
	}

	if req.ImageURL != nil {
		p.ImageURL = req.ImageURL
	}

	r.items[id] = p

	return p, nil
}

func (r *ProductsRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.items[id]

	if !ok {
		return product.ErrNotFound
	}

	delete(r.items, id)

	return nil
}

// deleteByUser backs the users repo's cascade delete.
func (r *ProductsRepo) deleteByUser(userID int64) {
	r.mu.Lock()

	for id, p := range r.items {
		if p.UserID == userID {
			delete(r.items, id)
		}
	}

	r.mu.Unlock()
}
