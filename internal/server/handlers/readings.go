package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vladimiradmaev/diatrack/internal/database"
	"github.com/vladimiradmaev/diatrack/internal/domain"
	apperrors "github.com/vladimiradmaev/diatrack/internal/errors"
	"github.com/vladimiradmaev/diatrack/internal/services"
	"github.com/vladimiradmaev/diatrack/internal/utils"
)

// ReadingHandler serves the reading log and the dashboard trend.
type ReadingHandler struct {
	deps Dependencies
}

func NewReadingHandler(deps Dependencies) *ReadingHandler {
	return &ReadingHandler{deps: deps}
}

type createReadingRequest struct {
	BloodSugar  domain.OptionalNumber `json:"bloodSugar"`
	Unit        domain.Unit           `json:"unit"`
	ReadingDate string                `json:"readingDate"`
	CarbIntake  domain.OptionalNumber `json:"carbIntake"`
	Activity    domain.OptionalNumber `json:"activity"`
	MealType    domain.MealType       `json:"mealType"`
	DietLog     string                `json:"dietLog"`
	ActivityLog string                `json:"activityLog"`
}

type trendResponse struct {
	domain.Trend
	Readings []database.Reading `json:"readings"`
}

// Create logs a reading for the authenticated user.
func (h *ReadingHandler) Create(c *gin.Context) {
	var req createReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, h.deps, apperrors.NewValidationError(err.Error()))
		return
	}
	if !req.BloodSugar.Set {
		writeError(c, h.deps, apperrors.NewValidationError("bloodSugar is required"))
		return
	}

	in := domain.NewReading{
		BloodSugar:  req.BloodSugar.Value,
		Unit:        req.Unit,
		CarbIntake:  req.CarbIntake.Ptr(),
		Activity:    req.Activity.Ptr(),
		MealType:    req.MealType,
		DietLog:     req.DietLog,
		ActivityLog: req.ActivityLog,
	}
	if req.ReadingDate != "" {
		date, err := utils.ParseReadingDate(req.ReadingDate, time.UTC)
		if err != nil {
			writeError(c, h.deps, apperrors.NewValidationError("readingDate: "+err.Error()))
			return
		}
		in.ReadingDate = date
	}

	reading, err := h.deps.ReadingService.AddReading(c.Request.Context(), CurrentUserID(c), in)
	if err != nil {
		writeError(c, h.deps, err)
		return
	}
	c.JSON(http.StatusCreated, reading)
}

// List returns the user's readings, newest first.
func (h *ReadingHandler) List(c *gin.Context) {
	limit, err := queryLimit(c, services.DefaultReadingLimit)
	if err != nil {
		writeError(c, h.deps, err)
		return
	}

	readings, err := h.deps.ReadingService.ListReadings(c.Request.Context(), CurrentUserID(c), limit)
	if err != nil {
		writeError(c, h.deps, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"readings": readings, "count": len(readings)})
}

// Trend returns the dashboard summary of the most recent readings.
func (h *ReadingHandler) Trend(c *gin.Context) {
	limit, err := queryLimit(c, services.DefaultTrendLimit)
	if err != nil {
		writeError(c, h.deps, err)
		return
	}

	readings, trend, err := h.deps.ReadingService.Trend(c.Request.Context(), CurrentUserID(c), limit)
	if err != nil {
		writeError(c, h.deps, err)
		return
	}
	c.JSON(http.StatusOK, trendResponse{Trend: trend, Readings: readings})
}

func queryLimit(c *gin.Context, fallback int) (int, error) {
	raw := c.Query("limit")
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, apperrors.NewValidationError("limit must be a positive integer")
	}
	return limit, nil
}
