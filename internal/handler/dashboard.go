package handler

import (
	"net/http"
	"strconv"

	"shoptrack/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboards service.DashboardService
	inventory  service.InventoryService
}

func NewDashboardHandler(dashboards service.DashboardService, inventory service.InventoryService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, inventory: inventory}
}

// Dashboard godoc
// @Summary  Business overview with revenue, profit and inventory metrics
// @Tags     dashboard
// @Produce  json
// @Success  200 {object} dto.DashboardResponse
// @Security BearerAuth
// @Router   /v1/dashboard [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	resp, err := h.dashboards.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// InventorySummary godoc
// @Summary  Stock statistics, low-stock list and per-category inventory
// @Tags     dashboard
// @Produce  json
// @Success  200 {object} dto.InventorySummaryResponse
// @Security BearerAuth
// @Router   /v1/dashboard/inventory [get]
func (h *DashboardHandler) InventorySummary(c *gin.Context) {
	resp, err := h.inventory.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProfitAnalytics godoc
// @Summary  Profit breakdown over a trailing window of days
// @Tags     dashboard
// @Produce  json
// @Param    days query int false "window size in days" default(30)
// @Success  200 {object} dto.ProfitAnalyticsResponse
// @Security BearerAuth
// @Router   /v1/dashboard/profit-analytics [get]
func (h *DashboardHandler) ProfitAnalytics(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		respondError(c, &service.ValidationError{Msg: "days must be a positive integer"})
		return
	}
	resp, err := h.dashboards.ProfitAnalytics(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecentActivities godoc
// @Summary  Feed of recent sales and catalog additions
// @Tags     dashboard
// @Produce  json
// @Success  200 {array} dto.ActivityEntry
// @Security BearerAuth
// @Router   /v1/dashboard/activities [get]
func (h *DashboardHandler) RecentActivities(c *gin.Context) {
	entries, err := h.dashboards.RecentActivities(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
