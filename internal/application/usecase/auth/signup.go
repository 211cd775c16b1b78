package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minhle/folioforge/internal/domain/user"
	"github.com/minhle/folioforge/internal/validation"
	"github.com/minhle/folioforge/pkg/apperror"
	"github.com/minhle/folioforge/pkg/auth"
	"github.com/minhle/folioforge/pkg/logger"
)

const (
	minUsernameLength = 4
	minPasswordLength = 8
)

type SignupUseCase struct {
	userRepo user.Repository
	logger   logger.Logger
}

func NewSignupUseCase(repo user.Repository, log logger.Logger) *SignupUseCase {
	return &SignupUseCase{
		userRepo: repo,
		logger:   log,
	}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type SignupOutput struct {
	UserID uuid.UUID
}

func (uc *SignupUseCase) Execute(ctx context.Context, input SignupInput) (*SignupOutput, error) {

	ctx, span := tracer.Start(ctx, "Signup")
	defer span.End()

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if len(input.Username) < minUsernameLength {
		return nil, apperror.NewInvalidInput("username must be at least 4 characters", nil)
	}
	if !validation.ValidEmail(input.Email) {
		return nil, apperror.NewInvalidInput("invalid email format", nil)
	}
	if len(input.Password) < minPasswordLength {
		return nil, apperror.NewInvalidInput("password must be at least 8 characters", nil)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		err = apperror.NewInternal("failed to hash password", err)
		span.RecordError(err)
		return nil, err
	}

	newUser := &user.User{
		ID:                uuid.New(),
		Username:          input.Username,
		Email:             input.Email,
		PasswordHash:      hash,
		PortfolioCategory: user.DefaultPortfolioCategory,
		CreatedAt:         time.Now().UTC(),
	}

	// duplicate email or username surfaces as a conflict from the store
	if err := uc.userRepo.Create(ctx, newUser); err != nil {
		span.RecordError(err)
		return nil, err
	}

	uc.logger.Info("user signed up", zap.String("user_id", newUser.ID.String()))
	return &SignupOutput{UserID: newUser.ID}, nil
}
