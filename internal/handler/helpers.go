package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"shoptrack/internal/apierror"
	"shoptrack/internal/codegen"
	"shoptrack/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Numeric rules (gt, min, max) apply to decimals via their float value.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// bindAndValidate binds the JSON body and runs struct validation,
// writing the 422 response itself. Returns false when handling ended.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("malformed JSON body"))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := map[string]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[strings.ToLower(fe.Field())] = fe.Tag()
			}
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// bindQuery binds and validates query-string filters.
func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid query parameters"))
		return false
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, apierror.New("invalid query parameters"))
		return false
	}
	return true
}

// respondError maps service errors onto HTTP statuses and envelopes.
func respondError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *service.ValidationError:
		c.JSON(http.StatusUnprocessableEntity, apierror.New(e.Msg))
	case *service.ProductNotFoundError:
		c.JSON(http.StatusNotFound, apierror.New(e.Error()))
	case *service.NotFoundError:
		c.JSON(http.StatusNotFound, apierror.New(e.Error()))
	case *service.InsufficientStockError:
		c.JSON(http.StatusConflict, apierror.NewStock(
			e.Error(), e.ProductID, e.ProductName, e.Available, e.Requested,
		))
	default:
		if err == service.ErrInvalidCredentials {
			c.JSON(http.StatusUnauthorized, apierror.New("invalid credentials"))
			return
		}
		if err == codegen.ErrExhausted {
			log.Error().Err(err).Msg("identifier space exhausted")
			c.JSON(http.StatusServiceUnavailable, apierror.New("could not allocate identifier"))
			return
		}
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unhandled service error")
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
	}
}
