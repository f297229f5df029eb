package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"catalog-service/internal/events"
	"catalog-service/internal/models"
	"catalog-service/internal/repository"
	"catalog-service/internal/validation"
)

type ProductsHandler struct {
	repo      *repository.ProductsRepository
	publisher *events.Publisher
	logger    *logrus.Logger
}

func NewProductsHandler(repo *repository.ProductsRepository, publisher *events.Publisher, logger *logrus.Logger) *ProductsHandler {
	return &ProductsHandler{repo: repo, publisher: publisher, logger: logger}
}

// ListProducts returns a page of products
// GET /api/v1/products?category=&page=&limit=
func (h *ProductsHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	category := c.Query("category")

	products, total, err := h.repo.List(c.Request.Context(), category, page, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list products")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "LIST_FAILED", Message: "Failed to list products"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": products,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// GetProduct returns a single product by catalog product_id
// GET /api/v1/products/:id
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	product, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "NOT_FOUND", Message: "Product not found"},
		})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch product")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "FETCH_FAILED", Message: "Failed to fetch product"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// CreateProduct creates a single product from a JSON body, running it
// through the same validation the import pipeline uses
// POST /api/v1/products
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	var input models.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "INVALID_BODY", Message: err.Error()},
		})
		return
	}

	categories, err := h.repo.ListCategoryNames(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to load categories")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "CATEGORY_LOOKUP_FAILED", Message: "Failed to load catalog categories"},
		})
		return
	}

	if result := validation.New(categories).Validate(&input); !result.Valid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"success": false,
			"errors":  result.Errors,
		})
		return
	}

	product, err := h.repo.Create(c.Request.Context(), &input)
	if err != nil {
		c.JSON(http.StatusConflict, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "CREATE_FAILED", Message: err.Error()},
		})
		return
	}

	if h.publisher != nil {
		h.publisher.PublishProductCreated(c.Request.Context(), product)
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "product": product})
}

// DeleteProduct soft-deletes a product
// DELETE /api/v1/products/:id
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	err := h.repo.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "NOT_FOUND", Message: "Product not found"},
		})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to delete product")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Success: false,
			Error:   models.Error{Code: "DELETE_FAILED", Message: "Failed to delete product"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
