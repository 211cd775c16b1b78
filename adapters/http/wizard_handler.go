package http

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/minhle/folioforge/internal/domain/portfolio"
	"github.com/minhle/folioforge/internal/submission"
	"github.com/minhle/folioforge/internal/validation"
	"github.com/minhle/folioforge/internal/wizard"
	"github.com/minhle/folioforge/pkg/apperror"
	"github.com/minhle/folioforge/pkg/logger"
)

// DraftSubmitter is what the wizard hands a frozen snapshot to. One
// submitter serves one draft and owns the at-most-one-in-flight gate.
type DraftSubmitter interface {
	Submit(ctx context.Context, snapshot portfolio.Draft, token string) (submission.Outcome, error)
	Status() submission.Status
}

// WizardHandler is the server-driven step wizard: one session per owner,
// stored between requests, driven by discrete navigation calls.
type WizardHandler struct {
	sessions     wizard.SessionRepository
	newSubmitter func() DraftSubmitter
	logger       logger.Logger

	mu         sync.Mutex
	submitters map[uuid.UUID]DraftSubmitter
}

func NewWizardHandler(sessions wizard.SessionRepository, newSubmitter func() DraftSubmitter, log logger.Logger) *WizardHandler {
	return &WizardHandler{
		sessions:     sessions,
		newSubmitter: newSubmitter,
		logger:       log,
		submitters:   make(map[uuid.UUID]DraftSubmitter),
	}
}

type stepStatusDTO struct {
	ID          int                     `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Required    bool                    `json:"required"`
	Valid       bool                    `json:"valid"`
	Passable    bool                    `json:"passable"`
	Errors      []validation.FieldError `json:"errors,omitempty"`
}

type wizardStateDTO struct {
	Step              int             `json:"step"`
	ShowingSubmission bool            `json:"showing_submission"`
	Draft             portfolio.Draft `json:"draft"`
	Steps             []stepStatusDTO `json:"steps"`
}

func toWizardStateDTO(c *wizard.Controller) wizardStateDTO {
	state := c.State()
	dto := wizardStateDTO{
		Step:              int(c.Current()),
		ShowingSubmission: c.ShowingSubmission(),
		Draft:             state.Draft(),
	}
	for _, cfg := range validation.Steps() {
		result := state.Result(cfg.ID)
		dto.Steps = append(dto.Steps, stepStatusDTO{
			ID:          int(cfg.ID),
			Name:        cfg.Name,
			Description: cfg.Description,
			Required:    cfg.Required,
			Valid:       result.Valid,
			Passable:    state.Passable(cfg.ID),
			Errors:      result.Errors,
		})
	}
	return dto
}

// load restores the owner's controller, creating a fresh session on first
// touch. Requests for one owner are serialized by the session
// read-modify-write; the wizard itself never sees concurrent transitions.
func (h *WizardHandler) load(c *gin.Context) (*wizard.Controller, uuid.UUID, bool) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return nil, uuid.Nil, false
	}

	session, err := h.sessions.Load(c.Request.Context(), ownerID)
	if err != nil {
		if errors.Is(err, wizard.ErrSessionNotFound) {
			return wizard.NewController(), ownerID, true
		}
		c.Error(apperror.NewInternal("failed to load wizard session", err))
		return nil, uuid.Nil, false
	}
	return wizard.Restore(session), ownerID, true
}

func (h *WizardHandler) save(c *gin.Context, ctrl *wizard.Controller, ownerID uuid.UUID) bool {
	if err := h.sessions.Save(c.Request.Context(), ctrl.Session(ownerID)); err != nil {
		c.Error(apperror.NewInternal("failed to save wizard session", err))
		return false
	}
	return true
}

func (h *WizardHandler) GetSession(c *gin.Context) {
	ctrl, ownerID, ok := h.load(c)
	if !ok {
		return
	}
	if !h.save(c, ctrl, ownerID) {
		return
	}
	c.JSON(http.StatusOK, OK("wizard session", toWizardStateDTO(ctrl)))
}

func (h *WizardHandler) UpdateData(c *gin.Context) {
	ctrl, ownerID, ok := h.load(c)
	if !ok {
		return
	}

	var update wizard.DraftUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for wizard update", err))
		return
	}

	ctrl.Update(update)
	if !h.save(c, ctrl, ownerID) {
		return
	}
	c.JSON(http.StatusOK, OK("draft updated", toWizardStateDTO(ctrl)))
}

func (h *WizardHandler) Next(c *gin.Context) {
	ctrl, ownerID, ok := h.load(c)
	if !ok {
		return
	}

	if err := ctrl.Next(); err != nil {
		result := ctrl.State().Result(ctrl.Current())
		c.JSON(http.StatusBadRequest, Fail("Please fix the following errors", result.Errors))
		return
	}
	if !h.save(c, ctrl, ownerID) {
		return
	}
	c.JSON(http.StatusOK, OK("advanced", toWizardStateDTO(ctrl)))
}

func (h *WizardHandler) Prev(c *gin.Context) {
	ctrl, ownerID, ok := h.load(c)
	if !ok {
		return
	}

	ctrl.Prev()
	if !h.save(c, ctrl, ownerID) {
		return
	}
	c.JSON(http.StatusOK, OK("moved back", toWizardStateDTO(ctrl)))
}

type goToRequest struct {
	Step int `json:"step" binding:"required,min=1"`
}

func (h *WizardHandler) GoTo(c *gin.Context) {
	ctrl, ownerID, ok := h.load(c)
	if !ok {
		return
	}

	var req goToRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for goto", err))
		return
	}

	if err := ctrl.GoTo(validation.StepID(req.Step)); err != nil {
		c.Error(apperror.NewInvalidInput("unknown step", err))
		return
	}
	if !h.save(c, ctrl, ownerID) {
		return
	}
	c.JSON(http.StatusOK, OK("moved", toWizardStateDTO(ctrl)))
}

// Submit sends the frozen snapshot through the draft's submitter. A
// success discards the session; an error keeps it so the user can edit
// and retry.
func (h *WizardHandler) Submit(c *gin.Context) {
	ctrl, ownerID, ok := h.load(c)
	if !ok {
		return
	}

	snapshot, frozen := ctrl.Snapshot()
	if !frozen {
		c.JSON(http.StatusBadRequest, Fail("Nothing to submit: finish the preview step first", nil))
		return
	}

	submitter := h.submitterFor(ownerID)
	outcome, err := submitter.Submit(c.Request.Context(), snapshot, GetTokenFromGinContext(c))
	if err != nil {
		if errors.Is(err, submission.ErrSubmissionInFlight) || errors.Is(err, submission.ErrAlreadySubmitted) {
			c.JSON(http.StatusConflict, Fail(err.Error(), nil))
			return
		}
		c.Error(apperror.NewInternal("submission failed", err))
		return
	}

	if outcome.Success() {
		h.dropSubmitter(ownerID)
		if err := h.sessions.Delete(c.Request.Context(), ownerID); err != nil {
			h.logger.Warn("submitted but wizard session not deleted", zap.String("owner_id", ownerID.String()), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, Response{Success: outcome.Success(), Message: outcome.Message, Data: outcome})
}

func (h *WizardHandler) submitterFor(ownerID uuid.UUID) DraftSubmitter {
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.submitters[ownerID]; ok {
		return s
	}
	s := h.newSubmitter()
	h.submitters[ownerID] = s
	return s
}

func (h *WizardHandler) dropSubmitter(ownerID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.submitters, ownerID)
}
