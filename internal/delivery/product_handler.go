package delivery

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type createProductRequest struct {
	Name        string           `json:"name"        binding:"required,max=255"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"       binding:"required,positive,scale=2,intdigits=17"`
	Category    *string          `json:"category"    binding:"omitempty,max=255"`
	Stock       *int             `json:"stock"       binding:"omitempty,gte=0"`
}

type updateProductRequest struct {
	Name        *string          `json:"name"        binding:"omitempty,min=1,max=255"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Price       *decimal.Decimal `json:"price"       binding:"omitempty,positive,scale=2,intdigits=17"`
	Category    *string          `json:"category"    binding:"omitempty,max=255"`
	Stock       *int             `json:"stock"       binding:"omitempty,gte=0"`
}

type ProductHandler struct {
	useCase usecase.ProductUseCase
	log     *logrus.Logger
}

func NewProductHandler(uc usecase.ProductUseCase, logger *logrus.Logger) *ProductHandler {
	RegisterValidators()
	return &ProductHandler{
		useCase: uc,
		log:     logger,
	}
}

// RegisterRoutes mounts the product API. requireUserOnDelete makes the
// X-User-Id header mandatory for DELETE, which is needed when deletes are
// rate limited.
func (h *ProductHandler) RegisterRoutes(router gin.IRouter, requireUserOnDelete bool) {
	products := router.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProductByID)
		products.GET("/category/:category", h.ListProductsByCategory)
		products.POST("", UserIDMiddleware(true), h.CreateProduct)
		products.PUT("/:id", UserIDMiddleware(true), h.UpdateProduct)
		products.DELETE("/:id", UserIDMiddleware(requireUserOnDelete), h.DeleteProduct)
	}
}

func (h *ProductHandler) logger(c *gin.Context) logrus.FieldLogger {
	entry := logrus.NewEntry(h.log)
	if reqID := c.Writer.Header().Get("X-Request-ID"); reqID != "" {
		entry = entry.WithField("request_id", reqID)
	}
	if userID := UserIDFromContext(c); userID != "" {
		entry = entry.WithField("user_id", userID)
	}
	return entry
}

func parseProductID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		validationResponse(c, domain.NewValidationError("id", fmt.Sprintf("invalid product id %q", idStr)))
		return 0, false
	}
	return id, true
}

func (h *ProductHandler) GetProductByID(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	product, err := h.useCase.GetProductByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger(c), err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "0")
	sizeStr := c.DefaultQuery("size", strconv.Itoa(usecase.DefaultPageSize))

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 0 {
		h.logger(c).Warnf("Invalid page parameter '%s', using default 0", pageStr)
		page = 0
	}
	size, err := strconv.Atoi(sizeStr)
	if err != nil || size <= 0 {
		h.logger(c).Warnf("Invalid size parameter '%s', using default %d", sizeStr, usecase.DefaultPageSize)
		size = usecase.DefaultPageSize
	}

	result, err := h.useCase.ListProducts(c.Request.Context(), page, size)
	if err != nil {
		respondError(c, h.logger(c), err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ProductHandler) ListProductsByCategory(c *gin.Context) {
	products, err := h.useCase.ListProductsByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, h.logger(c), err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationResponse(c, bindingError(err))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		validationResponse(c, domain.NewValidationError("name", "is required"))
		return
	}

	product, err := h.useCase.CreateProduct(c.Request.Context(), domain.NewProduct{
		Name:        req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
	}, UserIDFromContext(c))
	if err != nil {
		respondError(c, h.logger(c), err)
		return
	}

	c.Header("Location", fmt.Sprintf("/products/%d", product.ID))
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		validationResponse(c, bindingError(err))
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		validationResponse(c, domain.NewValidationError("name", "must not be empty"))
		return
	}

	product, err := h.useCase.UpdateProduct(c.Request.Context(), id, domain.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Stock:       req.Stock,
		Price:       req.Price,
	}, UserIDFromContext(c))
	if err != nil {
		respondError(c, h.logger(c), err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	if err := h.useCase.DeleteProduct(c.Request.Context(), id, UserIDFromContext(c)); err != nil {
		respondError(c, h.logger(c), err)
		return
	}
	c.Status(http.StatusNoContent)
}
