package handler

import (
	"github.com/Amen1235f/ecommerce-cms/internal/dto"
	"github.com/Amen1235f/ecommerce-cms/internal/service"
	"github.com/Amen1235f/ecommerce-cms/pkg/logger"
	"github.com/Amen1235f/ecommerce-cms/pkg/response"
	"github.com/gin-gonic/gin"
)

// CategoryHandler handles category HTTP requests
type CategoryHandler struct {
	categoryService service.CategoryService
	log             *logger.Logger
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService service.CategoryService, log *logger.Logger) *CategoryHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CategoryHandler{categoryService: categoryService, log: log}
}

// Create handles POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if !bindJSON(c, &req) || !validate(c, req.Validate()) {
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Created(c, "category created", category)
}

// Get handles GET /api/v1/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	category, err := h.categoryService.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Success(c, "category retrieved", category)
}

// List handles GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	var filter dto.CategoryListFilter
	if !bindQuery(c, &filter) {
		return
	}

	categories, total, err := h.categoryService.ListCategories(c.Request.Context(), &filter)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Paginated(c, "categories retrieved", categories, response.NewPageMeta(filter.Page, filter.Limit, total))
}

// Update handles PUT /api/v1/categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	var req dto.UpdateCategoryRequest
	if !bindJSON(c, &req) || !validate(c, req.Validate()) {
		return
	}

	category, err := h.categoryService.UpdateCategory(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Success(c, "category updated", category)
}

// Delete handles DELETE /api/v1/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Success(c, "category deleted", nil)
}
