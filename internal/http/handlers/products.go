package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inventrackpro/inventrack/internal/config"
	"github.com/inventrackpro/inventrack/internal/domain/product"
	"github.com/inventrackpro/inventrack/internal/http/middlewares"
)

type ProductsStore interface {
	Create(ctx context.Context, userID int64, req product.CreateProductRequest) (product.Product, error)
	GetByID(ctx context.Context, id int64) (product.Product, error)
	ListByUser(ctx context.Context, userID int64) ([]product.Product, error)
	Update(ctx context.Context, id int64, req product.UpdateProductRequest) (product.Product, error)
	Delete(ctx context.Context, id int64) error
}

type ProductsHandler struct {
	repo ProductsStore
}

func NewProductsHandler(repo ProductsStore) *ProductsHandler {
	return &ProductsHandler{repo: repo}
}

func (h *ProductsHandler) CreateProduct(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	var req product.CreateProductRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	p, err := h.repo.Create(cctx, userID, req)

	if err != nil {
		RespondInternal(ctx, "Could not create product")
		return
	}

	ctx.JSON(http.StatusCreated, p)
}

// ListProducts returns the caller's products narrowed by the filter query
// parameters; filtering and ordering happen in memory on the full set.
func (h *ProductsHandler) ListProducts(ctx *gin.Context) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return
	}

	var filter product.Filter

	err := ctx.ShouldBindQuery(&filter)

	if err != nil {
		RespondBadRequest(ctx, "Invalid filter parameters", nil)
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	products, err := h.repo.ListByUser(cctx, userID)

	if err != nil {
		RespondInternal(ctx, "Could not list products")
		return
	}

	ctx.JSON(http.StatusOK, filter.Apply(products))
}

func (h *ProductsHandler) GetProductById(ctx *gin.Context) {
	p, ok := h.ownedProduct(ctx)

	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, p)
}

func (h *ProductsHandler) UpdateProduct(ctx *gin.Context) {
	p, ok := h.ownedProduct(ctx)

	if !ok {
		return
	}

	var req product.UpdateProductRequest

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	updated, err := h.repo.Update(cctx, p.ID, req)

	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			RespondNotFound(ctx, "Product not found")
			return
		}

		RespondInternal(ctx, "Could not update product")
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

func (h *ProductsHandler) DeleteProduct(ctx *gin.Context) {
	p, ok := h.ownedProduct(ctx)

	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	err := h.repo.Delete(cctx, p.ID)

	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			RespondNotFound(ctx, "Product not found")
			return
		}

		RespondInternal(ctx, "Could not delete product")
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ownedProduct loads the product named by the :id param and enforces
// ownership. Absence is reported before ownership: absent id is 404, a
// product owned by someone else is 403.
func (h *ProductsHandler) ownedProduct(ctx *gin.Context) (product.Product, bool) {
	userID, ok := middlewares.UserIDFromContext(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Authentication required")
		return product.Product{}, false
	}

	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)

	if err != nil {
		RespondNotFound(ctx, "Product not found")
		return product.Product{}, false
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	p, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, product.ErrNotFound) {
			RespondNotFound(ctx, "Product not found")
			return product.Product{}, false
		}

		RespondInternal(ctx, "Could not fetch product")
		return product.Product{}, false
	}

	if p.UserID != userID {
		RespondForbidden(ctx, "Forbidden")
		return product.Product{}, false
	}

	return p, true
}
