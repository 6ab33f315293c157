package handler

import (
	"net/http"

	"shoptrack/internal/dto"
	"shoptrack/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	svc service.ReportService
}

func NewReportHandler(svc service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// SalesReport godoc
// @Summary  Period sales report with daily series and performance breakdowns
// @Tags     reports
// @Produce  json
// @Param    start_date query string false "Inclusive start (YYYY-MM-DD)"
// @Param    end_date query string false "Inclusive end (YYYY-MM-DD)"
// @Success  200 {object} dto.SalesReportResponse
// @Failure  422 {object} apierror.APIError
// @Security BearerAuth
// @Router   /v1/reports/sales [get]
func (h *ReportHandler) SalesReport(c *gin.Context) {
	var filter dto.ReportFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.SalesReport(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
