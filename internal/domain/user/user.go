package user

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

// DefaultPortfolioCategory selects the standard theme for new accounts.
const DefaultPortfolioCategory = "1"

type User struct {
	ID                uuid.UUID `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	HasPaid           bool      `json:"has_paid"`
	HasPortfolio      bool      `json:"has_portfolio"`
	PortfolioCategory string    `json:"portfolio_category"`
	CreatedAt         time.Time `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByIdentifier matches either the email or the username.
	FindByIdentifier(ctx context.Context, identifier string) (*User, error)
	SetHasPortfolio(ctx context.Context, id uuid.UUID, has bool) error
}
