package memory

import (
	"context"
	"sync"

	"github.com/inventrackpro/inventrack/internal/domain/user"
)

// UsersRepo is the in-memory swap-in for the postgres repo. It holds a
// reference to the products repo so user deletion cascades the same way
// the schema's foreign key does.
type UsersRepo struct {
	mu       sync.RWMutex
	nextID   int64
	items    map[int64]user.User
	products *ProductsRepo
}

func NewUsersRepo(products *ProductsRepo) *UsersRepo {
	return &UsersRepo{
		items:    make(map[int64]user.User),
		products: products,
	}
}

func (r *UsersRepo) GetByID(_ context.Context, id int64) (user.User, error) {
	r.mu.RLock()
	u, ok := r.items[id]
	r.mu.RUnlock()

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	return u, nil
}

func (r *UsersRepo) GetByUsername(_ context.Context, username string) (user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.items {
		if u.Username == username {
			return u, nil
		}
	}

	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) Create(_ context.Context, username, passwordDigest string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.items {
		if u.Username == username {
			return user.User{}, user.ErrUsernameTaken
		}
	}

	r.nextID++

	u := user.User{
		ID:             r.nextID,
		Username:       username,
		PasswordDigest: passwordDigest,
	}

	r.items[u.ID] = u

	return u, nil
}

func (r *UsersRepo) UpdateProfile(_ context.Context, id int64, req user.ProfileUpdateRequest) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]

	if !ok {
		return user.User{}, user.ErrNotFound
	}

	if req.FirstName != nil {
		u.FirstName = req.FirstName
	}

	if req.LastName != nil {
		u.LastName = req.LastName
	}

	if req.Email != nil {
		u.Email = req.Email
	}

	r.items[id] = u

	return u, nil
}

func (r *UsersRepo) UpdatePassword(_ context.Context, id int64, passwordDigest string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.items[id]

	if !ok {
		return user.ErrNotFound
	}

	u.PasswordDigest = passwordDigest
	r.items[id] = u

	return nil
}

func (r *UsersRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()

	_, ok := r.items[id]

	if !ok {
		r.mu.Unlock()
		return user.ErrNotFound
	}

	delete(r.items, id)
	r.mu.Unlock()

	if r.products != nil {
		r.products.deleteByUser(id)
	}

	return nil
}
