package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portfolioUC "github.com/minhle/folioforge/internal/application/usecase/portfolio"
	"github.com/minhle/folioforge/pkg/apperror"
)

type PortfolioHandler struct {
	createUseCase *portfolioUC.CreatePortfolioUseCase
	getUseCase    *portfolioUC.GetPortfolioUseCase
}

func NewPortfolioHandler(createUC *portfolioUC.CreatePortfolioUseCase, getUC *portfolioUC.GetPortfolioUseCase) *PortfolioHandler {
	return &PortfolioHandler{
		createUseCase: createUC,
		getUseCase:    getUC,
	}
}

// CreateData is POST /api/data. The owner is always the authenticated
// session's account; an owner field in the body is ignored.
func (h *PortfolioHandler) CreateData(c *gin.Context) {
	ownerID, ok := GetOwnerIDFromGinContext(c)
	if !ok {
		c.Error(apperror.NewPermissionDenied("ownerID not found in context"))
		return
	}

	var req CreateDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for portfolio create", err))
		return
	}

	input := portfolioUC.CreatePortfolioInput{
		OwnerID: ownerID,
		Draft:   req.ToDraft(),
	}

	output, err := h.createUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, OK("Your data added successfully", ToPortfolioDTO(output.Portfolio)))
}

// GetData is GET /api/data/:slug, the public read path.
func (h *PortfolioHandler) GetData(c *gin.Context) {
	slug := c.Param("slug")

	output, err := h.getUseCase.Execute(c.Request.Context(), portfolioUC.GetPortfolioInput{Slug: slug})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, OK("portfolio data fetched successfully", ToPublicViewDTO(output.View)))
}
