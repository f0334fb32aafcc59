package product

import "errors"

type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Rating      float64 `json:"rating"`
	ImageURL    *string `json:"imageUrl"`
	UserID      int64   `json:"userId"`
}

var ErrNotFound = errors.New("product not found")

type CreateProductRequest struct {
	Name        string   `json:"name" binding:"required,max=120"`
	Description string   `json:"description" binding:"required,max=1000"`
	Category    string   `json:"category" binding:"required,max=80"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Rating      *float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
	ImageURL    *string  `json:"imageUrl" binding:"omitempty,max=500"`
}

// partial update payload, nil fields are left untouched
type UpdateProductRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=120"`
	Description *string  `json:"description" binding:"omitempty,max=1000"`
	Category    *string  `json:"category" binding:"omitempty,max=80"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Rating      *float64 `json:"rating" binding:"omitempty,gte=0,lte=5"`
	ImageURL    *string  `json:"imageUrl" binding:"omitempty,max=500"`
}
