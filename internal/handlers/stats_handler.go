package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "studentwallet/internal/errors"
	"studentwallet/internal/ledger"
	"studentwallet/internal/services"
)

// StatsHandler serves aggregate statistics.
type StatsHandler struct {
	statsService services.StatsServicer
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService services.StatsServicer) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// DailyResponse wraps the per-day expense series.
type DailyResponse struct {
	Days []ledger.DayTotal `json:"days"`
}

// GetSummary returns totals for a period.
// @Summary     Period summary
// @Description Income, expense, balance and per-category expenses
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       period query string false "week, month or all (default all)"
// @Success     200 {object} services.Summary "Summary"
// @Failure     400 {object} ErrorResponse "Invalid period"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stats/summary [get]
func (h *StatsHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	period, ok := ledger.ParsePeriod(c.Query("period"))
	if !ok {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "period must be week, month or all"))
		return
	}

	summary, err := h.statsService.Summary(userID, period)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetDaily returns expense totals per day.
// @Summary     Daily expenses
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Param       days query int false "Number of days (default 7, max 90)"
// @Success     200 {object} DailyResponse "Daily totals, oldest first"
// @Failure     400 {object} ErrorResponse "Invalid days"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /stats/daily [get]
func (h *StatsHandler) GetDaily(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	days := 0
	if v := c.Query("days"); v != "" {
		days, err = strconv.Atoi(v)
		if err != nil || days < 1 {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "days must be a positive integer"))
			return
		}
	}

	totals, err := h.statsService.Daily(userID, days)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, DailyResponse{Days: nonNil(totals)})
}

// GetDashboard returns everything the home page shows.
// @Summary     Dashboard
// @Description Balance, month totals, recent transactions, budgets and goals
// @Tags        stats
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.Dashboard "Dashboard"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /dashboard [get]
func (h *StatsHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	dashboard, err := h.statsService.Dashboard(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
