package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
	"github.com/vladimiradmaev/diatrack/internal/risk"
)

// RiskHandler serves the risk score routes.
type RiskHandler struct {
	deps Dependencies
}

func NewRiskHandler(deps Dependencies) *RiskHandler {
	return &RiskHandler{deps: deps}
}

// Score serves both the GET shape (stored data only) and the POST shape
// (optional overrides in the body). They share one code path.
func (h *RiskHandler) Score(c *gin.Context) {
	userID := CurrentUserID(c)
	if userID == 0 {
		h.fail(c, apperrors.ErrUnauthorized)
		return
	}

	var overrides risk.Overrides
	if err := c.ShouldBindJSON(&overrides); err != nil && !errors.Is(err, io.EOF) {
		overrides = risk.InvalidOverrides(err)
	}

	prediction, err := h.deps.RiskService.Score(c.Request.Context(), userID, overrides)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, prediction)
}

// Last returns the last successful prediction for the user.
func (h *RiskHandler) Last(c *gin.Context) {
	cached, err := h.deps.RiskService.Last(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	if cached == nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "No risk score has been computed yet."})
		return
	}
	c.JSON(http.StatusOK, cached)
}

func (h *RiskHandler) fail(c *gin.Context, err error) {
	if h.deps.Errors != nil {
		h.deps.Errors.Handle(c.Request.Context(), err)
	}
	resp := risk.Translate(err)
	c.JSON(resp.Status, resp.Body)
}
