package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swadrive/swadrive-backend/internal/services"
)

// Register godoc
// @ID          register
// @Summary     Register a user
// @Description Creates a customer (default) or helper account and returns a session token.
// @Tags        Accounts
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.RegisterRequest  true  "Registration payload"
// @Success     200   {object}  handlers.RegisterResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Email already exists or invalid input"
// @Failure     500   {object}  handlers.ErrorResponse  "Registration failed"
// @Router      /register [post]
func (h *Handlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Email and password are required")
		return
	}

	u, token, err := h.accounts.Register(c.Request.Context(), services.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	})
	switch {
	case err == nil:
	case errors.Is(err, services.ErrDuplicateEmail):
		fail(c, http.StatusBadRequest, ErrCodeEmailTaken, "Email already exists")
		return
	case errors.Is(err, services.ErrInvalidRole), errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusBadRequest, ErrCodeValidationFailed, err.Error())
		return
	default:
		failInternal(c, err, "Registration failed")
		return
	}

	ok(c, http.StatusOK, RegisterResponse{Message: "User registered", UserID: u.ID, Token: token})
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Verifies email and password and returns a session token with the user profile.
// @Tags        Accounts
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.LoginRequest  true  "Credentials"
// @Success     200   {object}  handlers.LoginResponse
// @Failure     400   {object}  handlers.ErrorResponse  "User not found or wrong password"
// @Failure     500   {object}  handlers.ErrorResponse  "Login failed"
// @Router      /login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "Email and password are required")
		return
	}

	u, token, err := h.accounts.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusBadRequest, ErrCodeBadCredentials, "User not found")
		return
	case errors.Is(err, services.ErrWrongPassword):
		fail(c, http.StatusBadRequest, ErrCodeBadCredentials, "Wrong password")
		return
	default:
		failInternal(c, err, "Login failed")
		return
	}

	ok(c, http.StatusOK, LoginResponse{Message: "Login successful", Token: token, User: u})
}
