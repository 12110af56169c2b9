package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/diatrack/internal/database"
	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
)

// AuthHandler serves account registration and login.
type AuthHandler struct {
	deps Dependencies
}

func NewAuthHandler(deps Dependencies) *AuthHandler {
	return &AuthHandler{deps: deps}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	Token string         `json:"token"`
	User  *database.User `json:"user"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.deps, apperrors.NewValidationError("email and password are required"))
		return
	}

	user, err := h.deps.UserService.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(c, h.deps, err)
		return
	}
	h.respondWithToken(c, http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.deps, apperrors.NewValidationError("email and password are required"))
		return
	}

	user, err := h.deps.UserService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.deps, err)
		return
	}
	h.respondWithToken(c, http.StatusOK, user)
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.deps.UserService.GetUser(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		writeError(c, h.deps, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(c *gin.Context, status int, user *database.User) {
	token, err := h.deps.Tokens.Issue(user.ID, user.Email)
	if err != nil {
		writeError(c, h.deps, apperrors.NewInternalError(err))
		return
	}
	c.JSON(status, authResponse{Token: token, User: user})
}
