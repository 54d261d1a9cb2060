package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with
type Response struct {
	Success bool              `json:"success"`
	Msg     string            `json:"msg,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Meta    interface{}       `json:"meta,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// PageMeta describes a paginated list
type PageMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPageMeta computes the page count for total items
func NewPageMeta(page, limit int, total int64) PageMeta {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return PageMeta{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

func Success(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Msg:     msg,
		Data:    data,
	})
}

func Created(c *gin.Context, msg string, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Msg:     msg,
		Data:    data,
	})
}

// Paginated writes a list with its page meta
func Paginated(c *gin.Context, msg string, data interface{}, meta PageMeta) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Msg:     msg,
		Data:    data,
		Meta:    meta,
	})
}

// Fail builds a failure envelope without writing it
func Fail(msg string, errs map[string]string) Response {
	return Response{Success: false, Msg: msg, Errors: errs}
}

func Error(c *gin.Context, status int, msg string, errs map[string]string) {
	c.JSON(status, Fail(msg, errs))
}

// Abort writes a failure envelope and stops the handler chain
func Abort(c *gin.Context, status int, msg string, errs map[string]string) {
	c.AbortWithStatusJSON(status, Fail(msg, errs))
}

func BadRequest(c *gin.Context, msg string, errs map[string]string) {
	Error(c, http.StatusBadRequest, msg, errs)
}

func Unauthorized(c *gin.Context, msg string) {
	Error(c, http.StatusUnauthorized, msg, nil)
}

func Forbidden(c *gin.Context, msg string) {
	Error(c, http.StatusForbidden, msg, nil)
}

func NotFound(c *gin.Context, msg string) {
	Error(c, http.StatusNotFound, msg, nil)
}

func Conflict(c *gin.Context, msg string) {
	Error(c, http.StatusConflict, msg, nil)
}

// InternalError never exposes err to the client; callers log it first
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "internal server error", nil)
}

func ServiceUnavailable(c *gin.Context) {
	Error(c, http.StatusServiceUnavailable, "service temporarily unavailable", nil)
}
