package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/Amen1235f/ecommerce-cms/internal/domain"
	"github.com/Amen1235f/ecommerce-cms/internal/dto"
	"github.com/Amen1235f/ecommerce-cms/internal/service"
	"github.com/Amen1235f/ecommerce-cms/internal/storage"
	"github.com/Amen1235f/ecommerce-cms/pkg/logger"
	"github.com/Amen1235f/ecommerce-cms/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const imagesField = "images"

// UploadLimits bounds multipart image uploads
type UploadLimits struct {
	MaxFiles int
	MaxBytes int64
}

// ProductHandler handles product HTTP requests
type ProductHandler struct {
	productService service.ProductService
	limits         UploadLimits
	log            *logger.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, limits UploadLimits, log *logger.Logger) *ProductHandler {
	if limits.MaxFiles <= 0 {
		limits.MaxFiles = service.DefaultMaxImages
	}
	if limits.MaxBytes <= 0 {
		limits.MaxBytes = storage.DefaultMaxBytes
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ProductHandler{productService: productService, limits: limits, log: log}
}

// Create handles POST /api/v1/products as JSON or multipart form
func (h *ProductHandler) Create(c *gin.Context) {
	var (
		req   dto.CreateProductRequest
		files [][]byte
	)

	if isMultipart(c) {
		form, ok := h.parseMultipart(c)
		if !ok {
			return
		}
		errs := dto.FieldErrors{}
		req = createRequestFromForm(form, errs)
		if !validate(c, errs.OrNil()) {
			return
		}
		var err error
		if files, err = h.readImages(form); err != nil {
			handleError(c, h.log, err)
			return
		}
	} else if !bindJSON(c, &req) {
		return
	}

	if !validate(c, req.Validate()) {
		return
	}

	product, err := h.productService.CreateProduct(c.Request.Context(), identity(c), &req, files)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Created(c, "product created", product)
}

// Get handles GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), identity(c), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Success(c, "product retrieved", product)
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	var filter dto.ProductListFilter
	if !bindQuery(c, &filter) || !validate(c, filter.Validate()) {
		return
	}

	products, total, err := h.productService.ListProducts(c.Request.Context(), identity(c), &filter)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Paginated(c, "products retrieved", products, response.NewPageMeta(filter.Page, filter.Limit, total))
}

// Update handles PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.UpdateProductRequest
	if !bindJSON(c, &req) || !validate(c, req.Validate()) {
		return
	}

	product, err := h.productService.UpdateProduct(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Success(c, "product updated", product)
}

// AddImages handles POST /api/v1/products/:id/images
func (h *ProductHandler) AddImages(c *gin.Context) {
	if !isMultipart(c) {
		response.BadRequest(c, "multipart form required", map[string]string{imagesField: "no files uploaded"})
		return
	}
	form, ok := h.parseMultipart(c)
	if !ok {
		return
	}
	files, err := h.readImages(form)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	if len(files) == 0 {
		response.BadRequest(c, "no images uploaded", map[string]string{imagesField: "at least one file is required"})
		return
	}

	product, err := h.productService.AddImages(c.Request.Context(), c.Param("id"), files)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Success(c, "images added", product)
}

// RemoveImage handles DELETE /api/v1/products/:id/images/*key
func (h *ProductHandler) RemoveImage(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		response.BadRequest(c, "image key required", map[string]string{"key": "key is required"})
		return
	}

	product, err := h.productService.RemoveImage(c.Request.Context(), c.Param("id"), key)
	if err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Success(c, "image removed", product)
}

// Delete handles DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		handleError(c, h.log, err)
		return
	}
	response.Success(c, "product deleted", nil)
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

func (h *ProductHandler) parseMultipart(c *gin.Context) (*multipart.Form, bool) {
	// room for every file plus the text fields
	limit := h.limits.MaxBytes*int64(h.limits.MaxFiles) + 1<<20
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, storage.ErrImageTooLarge.Error(), map[string]string{imagesField: "upload too large"})
			return nil, false
		}
		response.BadRequest(c, "invalid multipart form", map[string]string{"body": "malformed multipart form"})
		return nil, false
	}
	return form, true
}

// readImages loads the uploaded files, enforcing count and size before any decoding
func (h *ProductHandler) readImages(form *multipart.Form) ([][]byte, error) {
	headers := form.File[imagesField]
	if len(headers) > h.limits.MaxFiles {
		return nil, domain.ErrTooManyImages
	}

	files := make([][]byte, 0, len(headers))
	for i, fh := range headers {
		if fh.Size > h.limits.MaxBytes {
			return nil, fmt.Errorf("image %d: %w", i+1, storage.ErrImageTooLarge)
		}
		data, err := readFile(fh, h.limits.MaxBytes)
		if err != nil {
			return nil, fmt.Errorf("image %d: %w", i+1, err)
		}
		files = append(files, data)
	}
	return files, nil
}

func readFile(fh *multipart.FileHeader, maxBytes int64) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, storage.ErrImageTooLarge
	}
	return data, nil
}

// createRequestFromForm reads product fields from a multipart form
func createRequestFromForm(form *multipart.Form, errs dto.FieldErrors) dto.CreateProductRequest {
	value := func(key string) (string, bool) {
		v, ok := form.Value[key]
		if !ok || len(v) == 0 {
			return "", false
		}
		return v[0], true
	}

	var req dto.CreateProductRequest
	req.Name, _ = value("name")
	req.Description, _ = value("description")
	req.Status, _ = value("status")

	if raw, ok := value("price"); ok && strings.TrimSpace(raw) != "" {
		price, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			errs.Add("price", "price must be a number")
		} else {
			req.Price = &price
		}
	}
	if raw, ok := value("stock"); ok && strings.TrimSpace(raw) != "" {
		stock, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			errs.Add("stock", "stock must be an integer")
		} else {
			req.Stock = stock
		}
	}
	if raw, ok := value("categoryId"); ok {
		req.CategoryID = &raw
	}
	return req
}
