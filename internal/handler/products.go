package handler

import (
	"net/http"

	"shoptrack/internal/apierror"
	"shoptrack/internal/dto"
	"shoptrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductHandler struct {
	svc service.CatalogService
}

func NewProductHandler(svc service.CatalogService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

// Create godoc
// @Summary  Create a product
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    product body dto.CreateProductRequest true "Product"
// @Success  201 {object} dto.ProductResponse
// @Failure  422 {object} apierror.ValidationError
// @Security BearerAuth
// @Router   /v1/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateProduct(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	resp, err := h.svc.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid product id"))
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateProduct(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary  List products
// @Tags     products
// @Produce  json
// @Param    status query string false "active (default) | inactive | all"
// @Param    name query string false "Name substring"
// @Success  200 {object} dto.ProductListResponse
// @Security BearerAuth
// @Router   /v1/products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter dto.ProductFilter
	if !bindQuery(c, &filter) {
		return
	}
	resp, err := h.svc.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
