package wizard

import (
	"errors"

	"github.com/minhle/folioforge/internal/domain/portfolio"
	"github.com/minhle/folioforge/internal/validation"
)

var (
	// ErrStepBlocked means the current step has validation failures and is
	// required, so Next must not advance.
	ErrStepBlocked = errors.New("current step has validation errors")
	// ErrUnknownStep means a navigation target outside [1..StepCount].
	ErrUnknownStep = errors.New("unknown step")
)

// Controller drives the step wizard: it sequences the ten steps, guards
// forward navigation behind validation, and freezes the draft into an
// immutable snapshot when the submission view opens. It is driven by one
// request at a time; callers serialize access per session.
type Controller struct {
	state             *FormState
	current           validation.StepID
	showingSubmission bool
	snapshot          portfolio.Draft
}

func NewController() *Controller {
	return &Controller{
		state:   NewFormState(),
		current: validation.StepBasicInfo,
	}
}

func (c *Controller) Current() validation.StepID { return c.current }

func (c *Controller) ShowingSubmission() bool { return c.showingSubmission }

func (c *Controller) State() *FormState { return c.state }

// Update merges a partial draft update. Editing while the submission view
// is open changes the live draft only; the frozen snapshot keeps the data
// that was actually sent.
func (c *Controller) Update(update DraftUpdate) {
	c.state.Apply(update)
}

// Next advances to the following step when the current one is passable.
// On the preview step it opens the submission view instead, freezing the
// draft into the snapshot handed to the submission client.
func (c *Controller) Next() error {
	if !c.state.Passable(c.current) {
		return ErrStepBlocked
	}
	if c.current == validation.StepPreview {
		c.snapshot = c.state.Draft()
		c.showingSubmission = true
		return nil
	}
	c.current++
	return nil
}

// Prev leaves the submission view first; otherwise it steps back, stopping
// at the first step.
func (c *Controller) Prev() {
	if c.showingSubmission {
		c.showingSubmission = false
		return
	}
	if c.current > validation.StepBasicInfo {
		c.current--
	}
}

// GoTo jumps to any step. Jumps ahead of completed steps are allowed; the
// validation gate on Next still stops an incomplete required step from
// being passed. Always exits the submission view.
func (c *Controller) GoTo(id validation.StepID) error {
	if _, ok := validation.ConfigFor(id); !ok {
		return ErrUnknownStep
	}
	c.showingSubmission = false
	c.current = id
	return nil
}

// EditStep is the preview's "edit this section" action. Same policy as
// GoTo so the two paths cannot drift apart.
func (c *Controller) EditStep(id validation.StepID) error {
	return c.GoTo(id)
}

// Snapshot returns the frozen draft handed to submission. ok is false
// until the submission view has been opened.
func (c *Controller) Snapshot() (portfolio.Draft, bool) {
	if !c.showingSubmission {
		return portfolio.Draft{}, false
	}
	return c.snapshot, true
}
