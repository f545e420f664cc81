package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/customer"
	"github.com/fekuna/omnipos-catalog-sync/internal/logger"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type customerUseCase struct {
	repo   customer.Repository
	logger logger.ZapLogger
}

func NewCustomerUseCase(repo customer.Repository, log logger.ZapLogger) customer.UseCase {
	return &customerUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *customerUseCase) Resolve(ctx context.Context, c customer.Contact) (*model.User, bool, error) {
	email := strings.ToLower(strings.TrimSpace(c.Email))
	if email == "" {
		return nil, false, customer.ErrMissingEmail
	}

	existing, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("find customer: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	first := strings.TrimSpace(c.FirstName)
	last := strings.TrimSpace(c.LastName)
	now := time.Now()

	user := &model.User{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:     email,
		Name:      strings.TrimSpace(first + " " + last),
		FirstName: first,
		LastName:  last,
		Phone:     optional(c.Phone),
		Address:   optional(c.Address),
		Role:      model.RoleCustomer,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create customer: %w", err)
	}

	uc.logger.Info("customer created from remote order", zap.String("user_id", user.ID))
	return user, true, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
