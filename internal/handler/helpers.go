package handler

import (
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pedroermarinho/ComandaLivre-sub001/internal/apierror"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/middleware"
	"github.com/pedroermarinho/ComandaLivre-sub001/internal/service"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid JSON: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps a service error to its HTTP status and envelope.
func respondError(c *gin.Context, err error) {
	status := middleware.StatusFor(err)
	if status >= http.StatusInternalServerError {
		// Route through the error middleware so the internal detail is logged
		// but never leaks to the client.
		_ = c.Error(err)
		return
	}
	c.JSON(status, apierror.New(err.Error()))
}

// currentActor resolves the JWT claims into the acting employee. Writes the
// 401 response itself when resolution fails.
func currentActor(c *gin.Context, auth service.AuthService) (service.Actor, bool) {
	claims := middleware.GetClaims(c)
	employeeID, err := uuid.Parse(claims.EmployeeID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("malformed token"))
		return service.Actor{}, false
	}
	actor, err := auth.Resolve(c.Request.Context(), employeeID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("employee not found or inactive"))
		return service.Actor{}, false
	}
	return *actor, true
}

// pathUUID parses a :param path segment as a UUID, writing the 400 itself on
// failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
