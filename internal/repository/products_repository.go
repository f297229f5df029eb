package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"catalog-service/internal/models"
)

// Cache TTL constants
const (
	ProductCacheTTL     = 5 * time.Minute
	ProductListCacheTTL = 2 * time.Minute
	CategoryCacheTTL    = 30 * time.Minute
)

var (
	ErrProductNotFound = errors.New("product not found")
)

type ProductsRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewProductsRepository(db *gorm.DB, redis *redis.Client) *ProductsRepository {
	return &ProductsRepository{db: db, redis: redis}
}

// Create persists a single product. Duplicate product_id or SKU is an
// error; the import pipeline surfaces the message verbatim on the row
// that caused it.
func (r *ProductsRepository) Create(ctx context.Context, input *models.ProductInput) (*models.Product, error) {
	var existing int64
	if err := r.db.WithContext(ctx).Unscoped().Model(&models.Product{}).
		Where("product_id = ? OR sku = ?", input.ProductID, input.SKU).
		Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("failed to check for duplicates: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("product with id '%s' or SKU '%s' already exists", input.ProductID, input.SKU)
	}

	product := &models.Product{
		ProductID:   input.ProductID,
		Name:        input.Name,
		SKU:         input.SKU,
		Category:    input.Category,
		Description: input.Description,
		Specs:       models.JSON(input.Specs),
		ImageURL:    input.ImageURL,
		Status:      models.ProductStatusActive,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if input.DescriptionHTML != "" {
		html := input.DescriptionHTML
		product.DescriptionHTML = &html
	}
	if len(input.Images) > 0 {
		images := make(models.JSONArray, 0, len(input.Images))
		for _, img := range input.Images {
			images = append(images, img)
		}
		product.Images = images
	}

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	r.invalidateListCaches(ctx)
	return product, nil
}

// GetByID fetches a product by its catalog product_id, reading through
// the cache when Redis is available.
func (r *ProductsRepository) GetByID(ctx context.Context, productID string) (*models.Product, error) {
	cacheKey := fmt.Sprintf("catalog:product:%s", productID)

	if r.redis != nil {
		if val, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
			var product models.Product
			if err := json.Unmarshal([]byte(val), &product); err == nil {
				return &product, nil
			}
		}
	}

	var product models.Product
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product: %w", err)
	}

	if r.redis != nil {
		if data, err := json.Marshal(&product); err == nil {
			r.redis.Set(ctx, cacheKey, data, ProductCacheTTL)
		}
	}

	return &product, nil
}

// List returns a page of products, optionally filtered by category.
func (r *ProductsRepository) List(ctx context.Context, category string, page, limit int) ([]models.Product, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("catalog:products:list:%s:%d:%d", category, page, limit)
	if r.redis != nil {
		if val, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
			var cached listPage
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				return cached.Products, cached.Total, nil
			}
		}
	}

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	if r.redis != nil {
		if data, err := json.Marshal(listPage{Products: products, Total: total}); err == nil {
			r.redis.Set(ctx, cacheKey, data, ProductListCacheTTL)
		}
	}

	return products, total, nil
}

type listPage struct {
	Products []models.Product `json:"products"`
	Total    int64            `json:"total"`
}

// Delete soft-deletes a product by catalog product_id.
func (r *ProductsRepository) Delete(ctx context.Context, productID string) error {
	result := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&models.Product{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}

	if r.redis != nil {
		r.redis.Del(ctx, fmt.Sprintf("catalog:product:%s", productID))
	}
	r.invalidateListCaches(ctx)
	return nil
}

// ListCategoryNames returns all category names, cached aggressively
// since categories rarely change. The import validator uses this as
// its enumerated membership set.
func (r *ProductsRepository) ListCategoryNames(ctx context.Context) ([]string, error) {
	const cacheKey = "catalog:categories:names"

	if r.redis != nil {
		if val, err := r.redis.Get(ctx, cacheKey).Result(); err == nil {
			var names []string
			if err := json.Unmarshal([]byte(val), &names); err == nil {
				return names, nil
			}
		}
	}

	var names []string
	if err := r.db.WithContext(ctx).Model(&models.Category{}).
		Order("position ASC").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	if r.redis != nil {
		if data, err := json.Marshal(names); err == nil {
			r.redis.Set(ctx, cacheKey, data, CategoryCacheTTL)
		}
	}

	return names, nil
}

// invalidateListCaches drops cached list pages after a write.
func (r *ProductsRepository) invalidateListCaches(ctx context.Context) {
	if r.redis == nil {
		return
	}
	iter := r.redis.Scan(ctx, 0, "catalog:products:list:*", 100).Iterator()
	for iter.Next(ctx) {
		r.redis.Del(ctx, iter.Val())
	}
}
