package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/Amen1235f/ecommerce-cms/internal/auth"
	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/Amen1235f/ecommerce-cms/internal/dto"
	"github.com/Amen1235f/ecommerce-cms/internal/storage"
	"github.com/Amen1235f/ecommerce-cms/pkg/logger"
	"github.com/Amen1235f/ecommerce-cms/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func init() {
	// report binding failures under the json names clients send
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// bindJSON decodes the body into obj and writes a 400 on failure
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		response.BadRequest(c, "invalid request body", bindingErrors(err))
		return false
	}
	return true
}

// bindQuery decodes query parameters into obj and writes a 400 on failure
func bindQuery(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		response.BadRequest(c, "invalid query parameters", bindingErrors(err))
		return false
	}
	return true
}

// validate writes a 400 with field errors when errs is non-empty
func validate(c *gin.Context, errs dto.FieldErrors) bool {
	if len(errs) == 0 {
		return true
	}
	response.BadRequest(c, "validation failed", errs)
	return false
}

func bindingErrors(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return map[string]string{"body": "malformed request"}
	}
	out := make(map[string]string, len(ve))
	for _, fe := range ve {
		field := fe.Field()
		if _, ok := out[field]; ok {
			continue
		}
		out[field] = fieldReason(fe)
	}
	return out
}

func fieldReason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

// identity returns the verified caller; gates guarantee it on protected routes
func identity(c *gin.Context) *auth.Identity {
	id, _ := auth.CurrentIdentity(c)
	return id
}

// handleError maps service errors onto the response envelope
func handleError(c *gin.Context, log *logger.Logger, err error) {
	if _, ok := auth.AsRejection(err); ok {
		auth.AbortWithError(c, err)
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, domain.ErrSelfDemotion),
		errors.Is(err, domain.ErrSelfSuspension):
		response.Forbidden(c, err.Error())
	case errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCategoryNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrImageNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrEmailTaken):
		response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrCategoryExists),
		errors.Is(err, domain.ErrCategoryInUse):
		response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrWrongPassword):
		response.BadRequest(c, err.Error(), map[string]string{"currentPassword": err.Error()})
	case errors.Is(err, domain.ErrInvalidRole):
		response.BadRequest(c, err.Error(), map[string]string{"role": err.Error()})
	case errors.Is(err, domain.ErrInvalidStatus):
		response.BadRequest(c, err.Error(), map[string]string{"status": err.Error()})
	case errors.Is(err, domain.ErrInvalidPrice):
		response.BadRequest(c, err.Error(), map[string]string{"price": err.Error()})
	case errors.Is(err, domain.ErrInvalidStock):
		response.BadRequest(c, err.Error(), map[string]string{"stock": err.Error()})
	case errors.Is(err, domain.ErrTooManyImages),
		errors.Is(err, storage.ErrUnsupportedImage):
		response.BadRequest(c, err.Error(), map[string]string{"images": err.Error()})
	case errors.Is(err, storage.ErrImageTooLarge):
		response.Error(c, http.StatusRequestEntityTooLarge, err.Error(), map[string]string{"images": err.Error()})
	case errors.Is(err, storage.ErrInvalidKey):
		response.BadRequest(c, err.Error(), map[string]string{"key": err.Error()})
	default:
		log.WithContext(c.Request.Context()).Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		_ = c.Error(err)
		response.InternalError(c)
	}
}
