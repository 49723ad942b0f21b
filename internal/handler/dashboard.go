package handler

import (
	"net/http"
	"strconv"
	"time"

	"club-hours/internal/logger"
	"club-hours/internal/middleware"
	"club-hours/internal/model"
	"club-hours/internal/workhours"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ assembler *workhours.Assembler }

func NewDashboardHandler(a *workhours.Assembler) *DashboardHandler {
	return &DashboardHandler{assembler: a}
}

func (h *DashboardHandler) Show(c *gin.Context) {
	raw := c.Param("year")
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 9999 {
		_ = c.Error(middleware.BadRequest("Ungültiges Jahr: %s", raw))
		return
	}

	memberID := middleware.MemberID(c)
	d, err := h.assembler.BuildDashboard(c.Request.Context(), memberID, year)
	if err != nil {
		_ = c.Error(err)
		return
	}
	logger.Info("dashboard.served", "member", memberID, "year", year)
	c.JSON(http.StatusOK, d)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{
		Status:    "healthy",
		Service:   "club-hours",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
