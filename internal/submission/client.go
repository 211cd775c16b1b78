package submission

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/minhle/folioforge/internal/domain/portfolio"
	"github.com/minhle/folioforge/pkg/logger"
)

var (
	// ErrSubmissionInFlight rejects a second submit while one is still
	// outstanding for this draft.
	ErrSubmissionInFlight = errors.New("a submission is already in flight")
	// ErrAlreadySubmitted means the draft was accepted; a new submission
	// needs a new draft.
	ErrAlreadySubmitted = errors.New("draft already submitted successfully")
)

// Client sends a frozen draft snapshot to the persistence boundary and
// maps the HTTP outcome onto the taxonomy. One Client serves one draft.
type Client struct {
	baseURL string
	origin  string
	http    *http.Client
	logger  logger.Logger

	mu     sync.Mutex
	status Status
}

func NewClient(baseURL, origin string, log logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		origin:  origin,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  log,
		status:  StatusIdle,
	}
}

func (c *Client) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors,omitempty"`
}

// Submit posts the snapshot to POST /api/data with the caller's bearer
// token. The snapshot is never mutated: after a conflict the caller edits
// the draft and freezes a new snapshot before retrying.
func (c *Client) Submit(ctx context.Context, snapshot portfolio.Draft, token string) (Outcome, error) {
	c.mu.Lock()
	switch c.status {
	case StatusSubmitting:
		c.mu.Unlock()
		return Outcome{}, ErrSubmissionInFlight
	case StatusSuccess:
		c.mu.Unlock()
		return Outcome{}, ErrAlreadySubmitted
	}
	c.status = StatusSubmitting
	c.mu.Unlock()

	outcome := c.send(ctx, snapshot, token)

	c.mu.Lock()
	if outcome.Success() {
		c.status = StatusSuccess
	} else {
		c.status = StatusError
	}
	c.mu.Unlock()

	return outcome, nil
}

func (c *Client) send(ctx context.Context, snapshot portfolio.Draft, token string) Outcome {
	body, err := json.Marshal(snapshot)
	if err != nil {
		return Outcome{Kind: KindRequestRejected, Message: "Invalid data provided. Please check your entries and try again.", Retryable: true}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/data", bytes.NewReader(body))
	if err != nil {
		return Outcome{Kind: KindNetworkFailure, Message: "Could not reach the server. Please check your connection and try again.", Retryable: true}
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("submission transport failure", zap.Error(err))
		return Outcome{Kind: KindNetworkFailure, Message: "Could not reach the server. Please check your connection and try again.", Retryable: true}
	}
	defer resp.Body.Close()

	var env envelope
	if decodeErr := json.NewDecoder(resp.Body).Decode(&env); decodeErr != nil && resp.StatusCode == http.StatusCreated {
		// accepted but unreadable body; still a success for the caller
		c.logger.Warn("submission response body unreadable", zap.Error(decodeErr))
	}

	switch resp.StatusCode {
	case http.StatusCreated:
		return Outcome{
			Kind:         KindSuccess,
			Message:      "Portfolio created successfully!",
			PortfolioURL: c.origin + "/" + snapshot.Slug,
		}
	case http.StatusBadRequest:
		return Outcome{Kind: KindRequestRejected, Message: "Invalid data provided. Please check your entries and try again.", Retryable: true}
	case http.StatusUnauthorized:
		return Outcome{Kind: KindUnauthorized, Message: "Authentication required. Please sign in and try again.", Retryable: false}
	case http.StatusConflict:
		return Outcome{
			Kind:      KindConflict,
			Message:   fmt.Sprintf("A portfolio with the URL '%s' already exists, or you already have one. Please choose a different slug.", snapshot.Slug),
			Retryable: true,
		}
	default:
		c.logger.Warn("submission rejected by server", zap.Int("status", resp.StatusCode), zap.String("message", env.Message))
		return Outcome{Kind: KindServerFault, Message: "Something went wrong on our end. Please try again in a moment.", Retryable: true}
	}
}
