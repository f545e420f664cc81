package customer

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

var ErrMissingEmail = errors.New("customer email is required")

// Contact is the buyer information carried by a remote order.
type Contact struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Address   string
}

type UseCase interface {
	// Resolve returns the customer owning contact.Email, creating it on first
	// sight. created reports whether a new user was written.
	Resolve(ctx context.Context, contact Contact) (user *model.User, created bool, err error)
}
