package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/minhle/folioforge/adapters/event"
	"github.com/minhle/folioforge/internal/application/service"
	"github.com/minhle/folioforge/internal/domain/portfolio"
	"github.com/minhle/folioforge/pkg/logger"
)

// ProcessPortfolioEventUseCase runs in the worker: after a portfolio is
// created it mirrors project images into the CDN and warms the public
// cache for the new slug.
type ProcessPortfolioEventUseCase struct {
	portfolioRepo portfolio.Repository
	cache         portfolio.Cache
	uploader      service.Uploader
	logger        logger.Logger
}

func NewProcessPortfolioEventUseCase(pRepo portfolio.Repository, cache portfolio.Cache, up service.Uploader, log logger.Logger) *ProcessPortfolioEventUseCase {
	return &ProcessPortfolioEventUseCase{
		portfolioRepo: pRepo,
		cache:         cache,
		uploader:      up,
		logger:        log,
	}
}

func (uc *ProcessPortfolioEventUseCase) Execute(ctx context.Context, payload event.PortfolioEventPayload) error {
	if payload.EventType != event.PortfolioEventTypeCreated {
		uc.logger.Info("skip portfolio event", zap.String("event_type", string(payload.EventType)))
		return nil
	}

	p, err := uc.portfolioRepo.FindByOwner(ctx, payload.OwnerID)
	if err != nil {
		if errors.Is(err, portfolio.ErrPortfolioNotFound) {
			uc.logger.Warn("portfolio gone before processing, skip", zap.String("owner_id", payload.OwnerID.String()))
			return nil
		}
		return fmt.Errorf("load portfolio failed: %w", err)
	}

	if uc.mirrorProjectImages(ctx, p) {
		if err := uc.portfolioRepo.UpdateProjects(ctx, p.ID, p.Projects); err != nil {
			return fmt.Errorf("update mirrored project images failed: %w", err)
		}
	}

	view, err := uc.portfolioRepo.FindBySlug(ctx, p.Slug)
	if err != nil {
		return fmt.Errorf("reload portfolio for cache warm failed: %w", err)
	}
	if err := uc.cache.SetBySlug(ctx, p.Slug, view); err != nil {
		uc.logger.Warn("cache warm failed", zap.String("slug", p.Slug), zap.Error(err))
	}

	return nil
}

// mirrorProjectImages rewrites remote project image URLs to CDN delivery
// URLs. Returns true when at least one image changed. A failed mirror
// keeps the original URL; the portfolio stays servable either way.
func (uc *ProcessPortfolioEventUseCase) mirrorProjectImages(ctx context.Context, p *portfolio.Portfolio) bool {
	changed := false
	folder := fmt.Sprintf("portfolios/%s/projects", p.OwnerID.String())

	for i := range p.Projects {
		src := p.Projects[i].Image
		if src == "" || !strings.HasPrefix(src, "http") {
			continue
		}
		if strings.Contains(src, "res.cloudinary.com") {
			continue
		}
		publicID := fmt.Sprintf("%s-project-%d", p.ID.String(), i)
		url, err := uc.uploader.UploadFromURL(ctx, src, folder, publicID)
		if err != nil {
			uc.logger.Warn("project image mirror failed", zap.String("source", src), zap.Error(err))
			continue
		}
		p.Projects[i].Image = url
		changed = true
	}
	return changed
}
