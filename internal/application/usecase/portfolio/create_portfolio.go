package portfolio

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/minhle/folioforge/adapters/event"
	"github.com/minhle/folioforge/internal/domain/portfolio"
	"github.com/minhle/folioforge/internal/domain/user"
	"github.com/minhle/folioforge/internal/validation"
	"github.com/minhle/folioforge/pkg/apperror"
	"github.com/minhle/folioforge/pkg/logger"
)

var tracer = otel.Tracer("portfolio_usecase")

type CreatePortfolioUseCase struct {
	portfolioRepo portfolio.Repository
	userRepo      user.Repository
	producer      event.PortfolioEventPublisher
	logger        logger.Logger
}

func NewCreatePortfolioUseCase(pRepo portfolio.Repository, uRepo user.Repository, producer event.PortfolioEventPublisher, log logger.Logger) *CreatePortfolioUseCase {
	return &CreatePortfolioUseCase{
		portfolioRepo: pRepo,
		userRepo:      uRepo,
		producer:      producer,
		logger:        log,
	}
}

type CreatePortfolioInput struct {
	// OwnerID always comes from the authenticated session, never from the
	// request body.
	OwnerID uuid.UUID
	Draft   portfolio.Draft
}

type CreatePortfolioOutput struct {
	Portfolio *portfolio.Portfolio
}

// FieldErrors unwraps the structured validation failures carried by a
// rejected create, for the 400 response body.
func FieldErrors(err error) []validation.FieldError {
	var ve *validationError
	if errors.As(err, &ve) {
		return ve.fields
	}
	return nil
}

type validationError struct {
	*apperror.AppError
	fields []validation.FieldError
}

func (e *validationError) Unwrap() error { return e.AppError }

func (uc *CreatePortfolioUseCase) Execute(ctx context.Context, input CreatePortfolioInput) (*CreatePortfolioOutput, error) {

	ctx, span := tracer.Start(ctx, "CreatePortfolio")
	defer span.End()

	// re-run the step rules server-side: client checks can be stale or
	// bypassed entirely
	if fieldErrs := validation.ValidateDraft(&input.Draft); len(fieldErrs) > 0 {
		msgs := make([]string, len(fieldErrs))
		for i, fe := range fieldErrs {
			msgs[i] = fe.Message
		}
		err := &validationError{
			AppError: apperror.NewInvalidInput(strings.Join(msgs, "; "), nil),
			fields:   fieldErrs,
		}
		span.RecordError(err)
		return nil, err
	}

	existing, err := uc.portfolioRepo.FindByOwner(ctx, input.OwnerID)
	if err != nil && !errors.Is(err, portfolio.ErrPortfolioNotFound) {
		span.RecordError(err)
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflict("portfolio", "owner", input.OwnerID.String())
	}

	now := time.Now().UTC()
	newPortfolio := &portfolio.Portfolio{
		ID:        uuid.New(),
		OwnerID:   input.OwnerID,
		Draft:     input.Draft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.portfolioRepo.Save(ctx, newPortfolio); err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := uc.userRepo.SetHasPortfolio(ctx, input.OwnerID, true); err != nil {
		uc.logger.Warn("portfolio saved but has_portfolio flag not set", zap.String("owner_id", input.OwnerID.String()), zap.Error(err))
	}

	go func() {
		err := uc.producer.PublishPortfolioEvent(context.Background(), event.PortfolioEventPayload{
			EventType:   event.PortfolioEventTypeCreated,
			PortfolioID: newPortfolio.ID,
			OwnerID:     newPortfolio.OwnerID,
			Slug:        newPortfolio.Slug,
		})
		if err != nil {
			uc.logger.Error("Failed to publish Kafka 'created' event", err, zap.String("portfolio_id", newPortfolio.ID.String()))
		}
	}()

	span.SetAttributes(attribute.String("portfolio_id", newPortfolio.ID.String()))
	return &CreatePortfolioOutput{Portfolio: newPortfolio}, nil
}
