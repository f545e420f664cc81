package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-catalog-sync/internal/customer"
	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	users map[string]*model.User
}

func (r *memRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if u, ok := r.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memRepo) Create(ctx context.Context, u *model.User) error {
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

func TestResolveCreatesThenReuses(t *testing.T) {
	repo := &memRepo{users: map[string]*model.User{}}
	uc := NewCustomerUseCase(repo, logger.NewNop())

	contact := customer.Contact{
		Email:     " Aoife@Example.ie ",
		FirstName: "Aoife",
		LastName:  "Byrne",
		Phone:     "+353 1 555 0100",
		Address:   "1 Main St, Galway",
	}

	u, created, err := uc.Resolve(context.Background(), contact)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "aoife@example.ie", u.Email)
	assert.Equal(t, "Aoife Byrne", u.Name)
	assert.Equal(t, model.RoleCustomer, u.Role)
	require.NotNil(t, u.Address)
	assert.Equal(t, "1 Main St, Galway", *u.Address)

	again, created, err := uc.Resolve(context.Background(), customer.Contact{Email: "AOIFE@example.ie"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)
	assert.Len(t, repo.users, 1)
}

func TestResolveRequiresEmail(t *testing.T) {
	uc := NewCustomerUseCase(&memRepo{users: map[string]*model.User{}}, logger.NewNop())
	_, _, err := uc.Resolve(context.Background(), customer.Contact{FirstName: "Anon", Email: "  "})
	assert.ErrorIs(t, err, customer.ErrMissingEmail)
}
