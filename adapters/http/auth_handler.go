package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minhle/folioforge/internal/application/usecase/auth"
	"github.com/minhle/folioforge/pkg/apperror"
)

type AuthHandler struct {
	signupUseCase *auth.SignupUseCase
	loginUseCase  *auth.LoginUseCase
}

func NewAuthHandler(signupUC *auth.SignupUseCase, loginUC *auth.LoginUseCase) *AuthHandler {
	return &AuthHandler{
		signupUseCase: signupUC,
		loginUseCase:  loginUC,
	}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Fail("Invalid format provided", err.Error()))
		return
	}

	input := auth.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}

	output, err := h.signupUseCase.Execute(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, OK("User signed up successfully", gin.H{"user_id": output.UserID}))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Fail("Invalid format provided", err.Error()))
		return
	}

	input := auth.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
	}

	output, err := h.loginUseCase.Execute(c.Request.Context(), input)
	if err != nil {

		if errors.Is(err, auth.ErrInvalidCredentials) || errors.Is(err, apperror.ErrUnauthorized) {
			c.JSON(http.StatusUnauthorized, Fail("Identifier or password is incorrect", nil))
			return
		}

		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, OK("Logged in successfully", gin.H{
		"access_token":  output.AccessToken,
		"has_portfolio": output.User.HasPortfolio,
	}))
}
