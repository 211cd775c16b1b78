package portfolio

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/minhle/folioforge/internal/domain/portfolio"
	"github.com/minhle/folioforge/pkg/apperror"
	"github.com/minhle/folioforge/pkg/logger"
)

type GetPortfolioUseCase struct {
	portfolioRepo portfolio.Repository
	cache         portfolio.Cache
	logger        logger.Logger
}

func NewGetPortfolioUseCase(pRepo portfolio.Repository, cache portfolio.Cache, log logger.Logger) *GetPortfolioUseCase {
	return &GetPortfolioUseCase{
		portfolioRepo: pRepo,
		cache:         cache,
		logger:        log,
	}
}

type GetPortfolioInput struct {
	Slug string
}

type GetPortfolioOutput struct {
	View *portfolio.PublicView
}

func (uc *GetPortfolioUseCase) Execute(ctx context.Context, input GetPortfolioInput) (*GetPortfolioOutput, error) {

	ctx, span := tracer.Start(ctx, "GetPortfolio")
	defer span.End()

	if !portfolio.ValidSlug(input.Slug) {
		return nil, apperror.NewInvalidInput("invalid slug format", portfolio.ErrInvalidSlug)
	}

	if uc.cache != nil {
		view, err := uc.cache.GetBySlug(ctx, input.Slug)
		if err != nil {
			uc.logger.Warn("portfolio cache read failed", zap.String("slug", input.Slug), zap.Error(err))
		}
		if view != nil {
			return &GetPortfolioOutput{View: view}, nil
		}
	}

	view, err := uc.portfolioRepo.FindBySlug(ctx, input.Slug)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("get portfolio failed: %w", err)
	}

	if uc.cache != nil {
		if err := uc.cache.SetBySlug(ctx, input.Slug, view); err != nil {
			uc.logger.Warn("portfolio cache write failed", zap.String("slug", input.Slug), zap.Error(err))
		}
	}

	return &GetPortfolioOutput{View: view}, nil
}
