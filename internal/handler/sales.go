package handler

import (
	"net/http"

	"shoptrack/internal/apierror"
	"shoptrack/internal/dto"
	"shoptrack/internal/middleware"
	"shoptrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SaleHandler struct {
	svc service.SaleService
}

func NewSaleHandler(svc service.SaleService) *SaleHandler {
	return &SaleHandler{svc: svc}
}

// Create godoc
// @Summary      Record a sale
// @Description  Validates the items, checks stock across the whole order and commits the sale atomically.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        sale body dto.CreateSaleRequest true "Sale"
// @Success      201 {object} dto.SaleResponse
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.StockError
// @Failure      422 {object} apierror.ValidationError
// @Security     BearerAuth
// @Router       /v1/sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
		return
	}
	employeeID, err := uuid.Parse(claims.EmployeeID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("invalid token subject"))
		return
	}

	resp, err := h.svc.CreateSale(c.Request.Context(), employeeID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary  Fetch one sale with its items
// @Tags     sales
// @Produce  json
// @Param    id path string true "Sale ID"
// @Success  200 {object} dto.SaleResponse
// @Failure  404 {object} apierror.APIError
// @Security BearerAuth
// @Router   /v1/sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid sale id"))
		return
	}
	resp, err := h.svc.GetSale(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary  List sales
// @Tags     sales
// @Produce  json
// @Param    date query string false "Filter by calendar date (YYYY-MM-DD)"
// @Param    search query string false "Match invoice number or customer"
// @Param    page query int false "Page (default 1)"
// @Param    limit query int false "Page size (default 50)"
// @Success  200 {object} dto.SaleListResponse
// @Security BearerAuth
// @Router   /v1/sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListSales(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Recalculate godoc
// @Summary  Recompute the stored totals of a sale from its items
// @Tags     sales
// @Produce  json
// @Param    id path string true "Sale ID"
// @Success  200 {object} dto.SaleResponse
// @Failure  404 {object} apierror.APIError
// @Security BearerAuth
// @Router   /v1/sales/{id}/recalculate [post]
func (h *SaleHandler) Recalculate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid sale id"))
		return
	}
	resp, err := h.svc.RecalculateTotals(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
