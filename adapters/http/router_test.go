package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/minhle/folioforge/adapters/event"
	authUC "github.com/minhle/folioforge/internal/application/usecase/auth"
	portfolioUC "github.com/minhle/folioforge/internal/application/usecase/portfolio"
	"github.com/minhle/folioforge/internal/domain/portfolio"
	"github.com/minhle/folioforge/internal/domain/user"
	"github.com/minhle/folioforge/internal/submission"
	"github.com/minhle/folioforge/internal/wizard"
	"github.com/minhle/folioforge/pkg/apperror"
	"github.com/minhle/folioforge/pkg/auth"
	"github.com/minhle/folioforge/pkg/logger"
)

// in-memory stand-ins for the persistence adapters

type memUserRepo struct {
	users map[uuid.UUID]*user.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*user.User)}
}

func (r *memUserRepo) Create(ctx context.Context, u *user.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return apperror.NewConflict("user", "email or username", u.Email)
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (r *memUserRepo) FindByIdentifier(ctx context.Context, identifier string) (*user.User, error) {
	for _, u := range r.users {
		if u.Email == identifier || u.Username == identifier {
			return u, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *memUserRepo) SetHasPortfolio(ctx context.Context, id uuid.UUID, has bool) error {
	u, ok := r.users[id]
	if !ok {
		return apperror.NewNotFound("user", id.String())
	}
	u.HasPortfolio = has
	return nil
}

type memPortfolioRepo struct {
	users   *memUserRepo
	byOwner map[uuid.UUID]*portfolio.Portfolio
}

func newMemPortfolioRepo(users *memUserRepo) *memPortfolioRepo {
	return &memPortfolioRepo{users: users, byOwner: make(map[uuid.UUID]*portfolio.Portfolio)}
}

func (r *memPortfolioRepo) Save(ctx context.Context, p *portfolio.Portfolio) error {
	if _, ok := r.byOwner[p.OwnerID]; ok {
		return apperror.NewConflict("portfolio", "owner", p.OwnerID.String())
	}
	for _, existing := range r.byOwner {
		if existing.Slug == p.Slug {
			return apperror.NewConflict("portfolio", "slug", p.Slug)
		}
	}
	r.byOwner[p.OwnerID] = p
	return nil
}

func (r *memPortfolioRepo) FindByOwner(ctx context.Context, ownerID uuid.UUID) (*portfolio.Portfolio, error) {
	p, ok := r.byOwner[ownerID]
	if !ok {
		return nil, portfolio.ErrPortfolioNotFound
	}
	return p, nil
}

func (r *memPortfolioRepo) FindBySlug(ctx context.Context, slug string) (*portfolio.PublicView, error) {
	for ownerID, p := range r.byOwner {
		if p.Slug == slug {
			owner := r.users.users[ownerID]
			return &portfolio.PublicView{
				Portfolio: *p,
				Owner: portfolio.OwnerSummary{
					ID:                owner.ID,
					Username:          owner.Username,
					PortfolioCategory: owner.PortfolioCategory,
				},
			}, nil
		}
	}
	return nil, apperror.NewNotFound("portfolio", slug)
}

func (r *memPortfolioRepo) UpdateProjects(ctx context.Context, id uuid.UUID, projects []portfolio.Project) error {
	for _, p := range r.byOwner {
		if p.ID == id {
			p.Projects = projects
			return nil
		}
	}
	return apperror.NewNotFound("portfolio", id.String())
}

type memSessionRepo struct {
	sessions map[uuid.UUID]*wizard.Session
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[uuid.UUID]*wizard.Session)}
}

func (r *memSessionRepo) Load(ctx context.Context, ownerID uuid.UUID) (*wizard.Session, error) {
	s, ok := r.sessions[ownerID]
	if !ok {
		return nil, wizard.ErrSessionNotFound
	}
	return s, nil
}

func (r *memSessionRepo) Save(ctx context.Context, session *wizard.Session) error {
	r.sessions[session.OwnerID] = session
	return nil
}

func (r *memSessionRepo) Delete(ctx context.Context, ownerID uuid.UUID) error {
	delete(r.sessions, ownerID)
	return nil
}

type noopPublisher struct{}

func (noopPublisher) PublishPortfolioEvent(ctx context.Context, payload event.PortfolioEventPayload) error {
	return nil
}

type RouterTestSuite struct {
	suite.Suite
	router       *gin.Engine
	server       *httptest.Server
	sessionRepo  *memSessionRepo
	wizardFacing *WizardHandler
}

func (s *RouterTestSuite) SetupTest() {
	appLogger := logger.NewNop()
	userRepo := newMemUserRepo()
	portfolioRepo := newMemPortfolioRepo(userRepo)
	s.sessionRepo = newMemSessionRepo()

	jwtSvc := auth.NewJWTService("test-secret", time.Hour)

	signupUseCase := authUC.NewSignupUseCase(userRepo, appLogger)
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	createUseCase := portfolioUC.NewCreatePortfolioUseCase(portfolioRepo, userRepo, noopPublisher{}, appLogger)
	getUseCase := portfolioUC.NewGetPortfolioUseCase(portfolioRepo, nil, appLogger)

	authHandler := NewAuthHandler(signupUseCase, loginUseCase)
	portfolioHandler := NewPortfolioHandler(createUseCase, getUseCase)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorMiddleware(appLogger))

	// the wizard's submitter posts back through this same router
	s.server = httptest.NewServer(router)
	s.T().Cleanup(s.server.Close)

	s.wizardFacing = NewWizardHandler(s.sessionRepo, func() DraftSubmitter {
		return submission.NewClient(s.server.URL, "https://folioforge.dev", appLogger)
	}, appLogger)

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		authRoutes.POST("/signup", authHandler.Signup)
		authRoutes.POST("/login", authHandler.Login)

		private := api.Group("/")
		private.Use(AuthMiddleware(jwtSvc))
		{
			private.POST("/data", portfolioHandler.CreateData)

			wizardRoutes := private.Group("/wizard")
			wizardRoutes.GET("", s.wizardFacing.GetSession)
			wizardRoutes.PUT("/data", s.wizardFacing.UpdateData)
			wizardRoutes.POST("/next", s.wizardFacing.Next)
			wizardRoutes.POST("/prev", s.wizardFacing.Prev)
			wizardRoutes.POST("/goto", s.wizardFacing.GoTo)
			wizardRoutes.POST("/submit", s.wizardFacing.Submit)
		}

		api.GET("/data/:slug", portfolioHandler.GetData)
	}

	s.router = router
}

func TestRouter(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.T(), err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func (s *RouterTestSuite) signupAndLogin(username, email string) string {
	rr := s.do(http.MethodPost, "/api/auth/signup", "", gin.H{
		"username": username,
		"email":    email,
		"password": "secret-password",
	})
	require.Equal(s.T(), http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"identifier": email,
		"password":   "secret-password",
	})
	require.Equal(s.T(), http.StatusOK, rr.Code, rr.Body.String())

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotEmpty(s.T(), resp.Data.AccessToken)
	return resp.Data.AccessToken
}

func validCreateBody(slug string) gin.H {
	return gin.H{
		"name":     "John Doe",
		"slug":     slug,
		"location": "Hanoi",
		"about":    strings.Repeat("a", 60),
		"contact":  gin.H{"email": "john@example.com", "location": "Hanoi"},
	}
}

func (s *RouterTestSuite) Test_Signup_DuplicateUsername() {
	s.signupAndLogin("johndoe", "john@example.com")

	rr := s.do(http.MethodPost, "/api/auth/signup", "", gin.H{
		"username": "johndoe",
		"email":    "other@example.com",
		"password": "secret-password",
	})
	assert.Equal(s.T(), http.StatusConflict, rr.Code)
}

func (s *RouterTestSuite) Test_Login_WrongPassword() {
	s.signupAndLogin("johndoe", "john@example.com")

	rr := s.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"identifier": "john@example.com",
		"password":   "wrong-password",
	})
	assert.Equal(s.T(), http.StatusUnauthorized, rr.Code)

	var resp Response
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(s.T(), resp.Success)
}

func (s *RouterTestSuite) Test_CreateData_RequiresToken() {
	rr := s.do(http.MethodPost, "/api/data", "", validCreateBody("john-doe"))
	assert.Equal(s.T(), http.StatusUnauthorized, rr.Code)
}

func (s *RouterTestSuite) Test_CreateData_And_GetData() {
	token := s.signupAndLogin("johndoe", "john@example.com")

	// an owner field in the body is ignored; ownership comes from the token
	body := validCreateBody("john-doe")
	body["owner"] = uuid.New().String()
	rr := s.do(http.MethodPost, "/api/data", token, body)
	require.Equal(s.T(), http.StatusCreated, rr.Code, rr.Body.String())

	var createResp Response
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &createResp))
	assert.True(s.T(), createResp.Success)
	assert.Equal(s.T(), "Your data added successfully", createResp.Message)

	rr = s.do(http.MethodGet, "/api/data/john-doe", "", nil)
	require.Equal(s.T(), http.StatusOK, rr.Code, rr.Body.String())

	var getResp struct {
		Data struct {
			Slug  string `json:"slug"`
			Owner struct {
				Username string `json:"username"`
				Theme    string `json:"theme"`
			} `json:"owner"`
		} `json:"data"`
	}
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &getResp))
	assert.Equal(s.T(), "john-doe", getResp.Data.Slug)
	assert.Equal(s.T(), "johndoe", getResp.Data.Owner.Username)
	assert.Equal(s.T(), "standard", getResp.Data.Owner.Theme)
}

func (s *RouterTestSuite) Test_CreateData_ValidationErrors() {
	token := s.signupAndLogin("johndoe", "john@example.com")

	body := validCreateBody("john-doe")
	body["about"] = "too short"
	rr := s.do(http.MethodPost, "/api/data", token, body)
	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)

	var resp struct {
		Success bool `json:"success"`
		Errors  []struct {
			Path    string `json:"path"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.False(s.T(), resp.Success)
	require.Len(s.T(), resp.Errors, 1)
	assert.Equal(s.T(), "about", resp.Errors[0].Path)
}

func (s *RouterTestSuite) Test_CreateData_SecondPortfolioConflicts() {
	token := s.signupAndLogin("johndoe", "john@example.com")

	rr := s.do(http.MethodPost, "/api/data", token, validCreateBody("john-doe"))
	require.Equal(s.T(), http.StatusCreated, rr.Code)

	rr = s.do(http.MethodPost, "/api/data", token, validCreateBody("john-doe-2"))
	assert.Equal(s.T(), http.StatusConflict, rr.Code)
}

func (s *RouterTestSuite) Test_CreateData_SlugTakenByAnotherOwner() {
	first := s.signupAndLogin("johndoe", "john@example.com")
	rr := s.do(http.MethodPost, "/api/data", first, validCreateBody("john-doe"))
	require.Equal(s.T(), http.StatusCreated, rr.Code)

	second := s.signupAndLogin("janedoe", "jane@example.com")
	rr = s.do(http.MethodPost, "/api/data", second, validCreateBody("john-doe"))
	assert.Equal(s.T(), http.StatusConflict, rr.Code)
}

func (s *RouterTestSuite) Test_GetData_UnknownSlug() {
	rr := s.do(http.MethodGet, "/api/data/missing-slug", "", nil)
	assert.Equal(s.T(), http.StatusNotFound, rr.Code)
}

func (s *RouterTestSuite) Test_Wizard_FullFlow() {
	token := s.signupAndLogin("johndoe", "john@example.com")

	// first touch creates a session at step 1
	rr := s.do(http.MethodGet, "/api/wizard", token, nil)
	require.Equal(s.T(), http.StatusOK, rr.Code, rr.Body.String())

	var state struct {
		Data struct {
			Step              int  `json:"step"`
			ShowingSubmission bool `json:"showing_submission"`
		} `json:"data"`
	}
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(s.T(), 1, state.Data.Step)

	// advancing an empty required step is blocked
	rr = s.do(http.MethodPost, "/api/wizard/next", token, nil)
	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)

	// fill the draft across the required steps
	rr = s.do(http.MethodPut, "/api/wizard/data", token, gin.H{
		"name":     "John Doe",
		"slug":     "john-doe",
		"location": "Hanoi",
		"about":    strings.Repeat("a", 60),
		"contact":  gin.H{"email": "john@example.com", "location": "Hanoi"},
	})
	require.Equal(s.T(), http.StatusOK, rr.Code, rr.Body.String())

	// walk to the preview and open the submission view
	for i := 0; i < 10; i++ {
		rr = s.do(http.MethodPost, "/api/wizard/next", token, nil)
		require.Equal(s.T(), http.StatusOK, rr.Code, rr.Body.String())
	}
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &state))
	assert.True(s.T(), state.Data.ShowingSubmission)

	// submit posts back through POST /api/data and succeeds
	rr = s.do(http.MethodPost, "/api/wizard/submit", token, nil)
	require.Equal(s.T(), http.StatusOK, rr.Code, rr.Body.String())

	var submitResp struct {
		Success bool `json:"success"`
		Data    struct {
			Kind         string `json:"kind"`
			PortfolioURL string `json:"portfolio_url"`
		} `json:"data"`
	}
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &submitResp))
	assert.True(s.T(), submitResp.Success)
	assert.Equal(s.T(), "success", submitResp.Data.Kind)
	assert.Equal(s.T(), "https://folioforge.dev/john-doe", submitResp.Data.PortfolioURL)

	// the session is discarded after a successful submission
	_, err := s.sessionRepo.Load(context.Background(), uuid.Nil)
	assert.ErrorIs(s.T(), err, wizard.ErrSessionNotFound)
	assert.Empty(s.T(), s.sessionRepo.sessions)

	// and the published portfolio is readable
	rr = s.do(http.MethodGet, "/api/data/john-doe", "", nil)
	assert.Equal(s.T(), http.StatusOK, rr.Code)
}

func (s *RouterTestSuite) Test_Wizard_GoToAndPrev() {
	token := s.signupAndLogin("johndoe", "john@example.com")

	rr := s.do(http.MethodPost, "/api/wizard/goto", token, gin.H{"step": 9})
	require.Equal(s.T(), http.StatusOK, rr.Code, rr.Body.String())

	var state struct {
		Data struct {
			Step int `json:"step"`
		} `json:"data"`
	}
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(s.T(), 9, state.Data.Step)

	rr = s.do(http.MethodPost, "/api/wizard/prev", token, nil)
	require.Equal(s.T(), http.StatusOK, rr.Code)
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &state))
	assert.Equal(s.T(), 8, state.Data.Step)

	rr = s.do(http.MethodPost, "/api/wizard/goto", token, gin.H{"step": 42})
	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)
}

func (s *RouterTestSuite) Test_Wizard_SubmitWithoutSnapshot() {
	token := s.signupAndLogin("johndoe", "john@example.com")

	rr := s.do(http.MethodPost, "/api/wizard/submit", token, nil)
	assert.Equal(s.T(), http.StatusBadRequest, rr.Code)
}

func (s *RouterTestSuite) Test_Wizard_ConflictKeepsSessionForRetry() {
	// another account already owns the slug
	other := s.signupAndLogin("janedoe", "jane@example.com")
	rr := s.do(http.MethodPost, "/api/data", other, validCreateBody("john-doe"))
	require.Equal(s.T(), http.StatusCreated, rr.Code)

	token := s.signupAndLogin("johndoe", "john@example.com")
	rr = s.do(http.MethodPut, "/api/wizard/data", token, validCreateBody("john-doe"))
	require.Equal(s.T(), http.StatusOK, rr.Code)
	for i := 0; i < 10; i++ {
		rr = s.do(http.MethodPost, "/api/wizard/next", token, nil)
		require.Equal(s.T(), http.StatusOK, rr.Code)
	}

	rr = s.do(http.MethodPost, "/api/wizard/submit", token, nil)
	require.Equal(s.T(), http.StatusOK, rr.Code, rr.Body.String())

	var submitResp struct {
		Success bool `json:"success"`
		Data    struct {
			Kind      string `json:"kind"`
			Retryable bool   `json:"retryable"`
		} `json:"data"`
	}
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &submitResp))
	assert.False(s.T(), submitResp.Success)
	assert.Equal(s.T(), "conflict", submitResp.Data.Kind)
	assert.True(s.T(), submitResp.Data.Retryable)

	// session survives so the slug can be edited and resubmitted
	assert.Len(s.T(), s.sessionRepo.sessions, 1)

	rr = s.do(http.MethodPut, "/api/wizard/data", token, gin.H{"slug": "john-doe-2"})
	require.Equal(s.T(), http.StatusOK, rr.Code)
	for i := 0; i < 2; i++ {
		// back onto the preview and reopen the submission view
		rr = s.do(http.MethodPost, "/api/wizard/next", token, nil)
		require.Equal(s.T(), http.StatusOK, rr.Code, rr.Body.String())
	}

	rr = s.do(http.MethodPost, "/api/wizard/submit", token, nil)
	require.Equal(s.T(), http.StatusOK, rr.Code, rr.Body.String())
	require.NoError(s.T(), json.Unmarshal(rr.Body.Bytes(), &submitResp))
	assert.True(s.T(), submitResp.Success, rr.Body.String())
}
