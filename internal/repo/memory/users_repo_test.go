package memory

import (
	"context"
	"testing"

	"github.com/inventrackpro/inventrack/internal/domain/product"
	"github.com/inventrackpro/inventrack/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestUsersRepoCreateDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo(NewProductsRepo())

	_, err := repo.Create(ctx, "alice", "digest")
	require.NoError(t, err)

	_, err = repo.Create(ctx, "alice", "other-digest")
	assert.ErrorIs(t, err, user.ErrUsernameTaken)
}

func TestUsersRepoGetByUsername(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo(NewProductsRepo())

	created, err := repo.Create(ctx, "bob", "digest")
	require.NoError(t, err)

	found, err := repo.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	// exact, case-sensitive match
	_, err = repo.GetByUsername(ctx, "Bob")
	assert.ErrorIs(t, err, user.ErrNotFound)
}

func TestUsersRepoUpdateProfilePartial(t *testing.T) {
	ctx := context.Background()
	repo := NewUsersRepo(NewProductsRepo())

	u, err := repo.Create(ctx, "carol", "digest")
	require.NoError(t, err)

	first := "Carol"
	updated, err := repo.UpdateProfile(ctx, u.ID, user.ProfileUpdateRequest{FirstName: &first})
	require.NoError(t, err)
	require.NotNil(t, updated.FirstName)
	assert.Equal(t, "Carol", *updated.FirstName)
	assert.Nil(t, updated.LastName)

	// a second partial update leaves the first name alone
	email := "carol@example.com"
	updated, err = repo.UpdateProfile(ctx, u.ID, user.ProfileUpdateRequest{Email: &email})
	require.NoError(t, err)
	require.NotNil(t, updated.FirstName)
	assert.Equal(t, "Carol", *updated.FirstName)
	require.NotNil(t, updated.Email)
	assert.Equal(t, "carol@example.com", *updated.Email)
}

func TestUsersRepoDeleteCascadesProducts(t *testing.T) {
	ctx := context.Background()
	products := NewProductsRepo()
	repo := NewUsersRepo(products)

	owner, err := repo.Create(ctx, "dave", "digest")
	require.NoError(t, err)

	other, err := repo.Create(ctx, "erin", "digest")
	require.NoError(t, err)

	p1, err := products.Create(ctx, owner.ID, product.CreateProductRequest{
		Name: "Widget", Description: "d", Category: "Tools", Price: floatPtr(10),
	})
	require.NoError(t, err)

	kept, err := products.Create(ctx, other.ID, product.CreateProductRequest{
		Name: "Gadget", Description: "d", Category: "Tools", Price: floatPtr(20),
	})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, owner.ID))

	_, err = products.GetByID(ctx, p1.ID)
	assert.ErrorIs(t, err, product.ErrNotFound)

	// the other user's products survive
	_, err = products.GetByID(ctx, kept.ID)
	assert.NoError(t, err)

	_, err = repo.GetByID(ctx, owner.ID)
	assert.ErrorIs(t, err, user.ErrNotFound)
}
