package wizard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/minhle/folioforge/internal/domain/portfolio"
	"github.com/minhle/folioforge/internal/validation"
)

var ErrSessionNotFound = errors.New("wizard session not found")

// Session is the durable form of a wizard in progress, one per owner.
// Storing it lets a draft survive reloads and be kept for retry after a
// failed submission.
type Session struct {
	OwnerID           uuid.UUID         `json:"owner_id"`
	Draft             portfolio.Draft   `json:"draft"`
	CurrentStep       validation.StepID `json:"current_step"`
	ShowingSubmission bool              `json:"showing_submission"`
	Snapshot          *portfolio.Draft  `json:"snapshot,omitempty"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

type SessionRepository interface {
	Load(ctx context.Context, ownerID uuid.UUID) (*Session, error)
	Save(ctx context.Context, session *Session) error
	Delete(ctx context.Context, ownerID uuid.UUID) error
}

// Restore rebuilds a controller from a stored session.
func Restore(session *Session) *Controller {
	c := &Controller{
		state:             NewFormStateFrom(session.Draft),
		current:           session.CurrentStep,
		showingSubmission: session.ShowingSubmission,
	}
	if c.current < validation.StepBasicInfo || c.current > validation.StepPreview {
		c.current = validation.StepBasicInfo
	}
	if session.Snapshot != nil {
		c.snapshot = *session.Snapshot
	}
	return c
}

// Session dehydrates the controller for storage.
func (c *Controller) Session(ownerID uuid.UUID) *Session {
	s := &Session{
		OwnerID:           ownerID,
		Draft:             c.state.Draft(),
		CurrentStep:       c.current,
		ShowingSubmission: c.showingSubmission,
		UpdatedAt:         time.Now().UTC(),
	}
	if c.showingSubmission {
		snap := c.snapshot
		s.Snapshot = &snap
	}
	return s
}
