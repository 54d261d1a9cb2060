package handler

import (
	"github.com/Amen1235f/ecommerce-cms/internal/auth"
	"github.com/Amen1235f/ecommerce-cms/internal/dto"
	"github.com/Amen1235f/ecommerce-cms/internal/service"
	"github.com/Amen1235f/ecommerce-cms/pkg/logger"
	"github.com/Amen1235f/ecommerce-cms/pkg/response"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService service.AuthService
	log         *logger.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService service.AuthService, log *logger.Logger) *AuthHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHandler{authService: authService, log: log}
}

// Register handles user registration
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) || !validate(c, req.Validate()) {
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	response.Created(c, "registered", result)
}

// Login handles user login
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) || !validate(c, req.Validate()) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP())
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	response.Success(c, "logged in", result)
}

// Me returns the current user
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := auth.CurrentIdentity(c)
	if !ok {
		auth.Abort(c, auth.Reject(auth.Unauthenticated, auth.ReasonAuthRequired))
		return
	}

	user, err := h.authService.Me(c.Request.Context(), id.ID)
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	response.Success(c, "current user", user)
}
