package handler

import (
	"github.com/Amen1235f/ecommerce-cms/internal/dto"
	"github.com/Amen1235f/ecommerce-cms/internal/service"
	"github.com/Amen1235f/ecommerce-cms/pkg/logger"
	"github.com/Amen1235f/ecommerce-cms/pkg/response"
	"github.com/gin-gonic/gin"
)

// UserHandler handles profile and user administration requests
type UserHandler struct {
	userService service.UserService
	log         *logger.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, log *logger.Logger) *UserHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &UserHandler{userService: userService, log: log}
}

// Get returns one user
// GET /api/v1/users/:id
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Success(c, "user retrieved", user)
}

// Update changes a user's name or password
// PATCH /api/v1/users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) || !validate(c, req.Validate()) {
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), identity(c), c.Param("id"), &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Success(c, "user updated", user)
}

// List lists users for admins
// GET /api/v1/admin/users
func (h *UserHandler) List(c *gin.Context) {
	var filter dto.UserListFilter
	if !bindQuery(c, &filter) || !validate(c, filter.Validate()) {
		return
	}

	users, total, err := h.userService.ListUsers(c.Request.Context(), &filter)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Paginated(c, "users retrieved", users, response.NewPageMeta(filter.Page, filter.Limit, total))
}

// UpdateRole sets a user's role
// PATCH /api/v1/admin/users/:id/role
func (h *UserHandler) UpdateRole(c *gin.Context) {
	var req dto.UpdateRoleRequest
	if !bindJSON(c, &req) || !validate(c, req.Validate()) {
		return
	}

	user, err := h.userService.UpdateRole(c.Request.Context(), identity(c), c.Param("id"), &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Success(c, "role updated", user)
}

// UpdateStatus sets a user's status
// PATCH /api/v1/admin/users/:id/status
func (h *UserHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if !bindJSON(c, &req) || !validate(c, req.Validate()) {
		return
	}

	user, err := h.userService.UpdateStatus(c.Request.Context(), identity(c), c.Param("id"), &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Success(c, "status updated", user)
}
