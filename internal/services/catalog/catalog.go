// Package catalog implements product, category, customer, supplier and
// service management. Stock quantity is never written directly here: every
// change goes through the ledger inside the same transaction.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tradedesk-system/internal/apperr"
	"tradedesk-system/internal/database/models"
	"tradedesk-system/internal/ledger"
)

const (
	productListCacheKey = "catalog:products"
	cacheTTL            = 5 * time.Minute
)

type Service struct {
	db  *gorm.DB
	rdb *redis.Client
}

// NewService constructs the catalog service. rdb may be nil; caching is then
// skipped.
func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{db: db, rdb: rdb}
}

func (s *Service) invalidateProductCache(ctx context.Context) {
	if s.rdb == nil {
		return
	}
	_ = s.rdb.Del(ctx, productListCacheKey)
}

// --- Products ---

type ProductInput struct {
	Name          string           `json:"name"`
	SKU           *string          `json:"sku"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	StockQuantity *int             `json:"stock_quantity"`
	MinStockLevel *int             `json:"min_stock_level"`
	CategoryID    *int64           `json:"category_id"`
	SupplierID    *int64           `json:"supplier_id"`
	IsActive      *bool            `json:"is_active"`
}

func (s *Service) ListProducts(ctx context.Context) ([]models.Product, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, productListCacheKey).Bytes(); err == nil {
			var products []models.Product
			if json.Unmarshal(cached, &products) == nil {
				return products, nil
			}
		}
	}

	var products []models.Product
	if err := s.db.Preload("Category").Preload("Supplier").Order("name").Find(&products).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(products); err == nil {
			_ = s.rdb.Set(ctx, productListCacheKey, payload, cacheTTL)
		}
	}
	return products, nil
}

func (s *Service) GetProduct(id int64) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").Preload("Supplier").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal(err)
	}
	return &product, nil
}

// CreateProduct inserts the product; a nonzero initial stock is booked through
// the ledger as a restock so the movement log stays complete from day one.
func (s *Service) CreateProduct(ctx context.Context, in ProductInput, actor *models.User) (*models.Product, error) {
	if in.Name == "" || in.CostPrice == nil || in.SellingPrice == nil {
		return nil, apperr.InvalidInput("name, cost_price and selling_price are required")
	}

	product := models.Product{
		Name:         in.Name,
		SKU:          in.SKU,
		CostPrice:    in.CostPrice.Round(2),
		SellingPrice: in.SellingPrice.Round(2),
		CategoryID:   in.CategoryID,
		SupplierID:   in.SupplierID,
		IsActive:     true,
	}
	if in.MinStockLevel != nil {
		product.MinStockLevel = *in.MinStockLevel
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.DuplicateKey("a product with this SKU already exists")
			}
			return apperr.Internal(err)
		}
		if in.StockQuantity != nil && *in.StockQuantity > 0 {
			if _, err := ledger.Apply(tx, ledger.Movement{
				ProductID: product.ID,
				Direction: models.MovementIn,
				Quantity:  *in.StockQuantity,
				Cause:     models.CauseRestock,
				ActorID:   actor.ID,
			}); err != nil {
				return err
			}
			product.StockQuantity = *in.StockQuantity
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProductCache(ctx)
	return &product, nil
}

// UpdateProduct applies field updates. A selling-price change appends a
// price-history row; a stock_quantity change is expressed as a
// manual-adjustment movement for the delta, never a direct write.
func (s *Service) UpdateProduct(ctx context.Context, id int64, in ProductInput, actor *models.User) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, apperr.Internal(err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if in.Name != "" {
			updates["name"] = in.Name
			product.Name = in.Name
		}
		if in.SKU != nil {
			updates["sku"] = in.SKU
			product.SKU = in.SKU
		}
		if in.CostPrice != nil {
			updates["cost_price"] = in.CostPrice.Round(2)
			product.CostPrice = in.CostPrice.Round(2)
		}
		if in.SellingPrice != nil && !in.SellingPrice.Equal(product.SellingPrice) {
			history := models.PriceHistory{
				ProductID: product.ID,
				OldPrice:  product.SellingPrice,
				NewPrice:  in.SellingPrice.Round(2),
				ChangedBy: actor.ID,
			}
			if err := tx.Create(&history).Error; err != nil {
				return apperr.Internal(err)
			}
			updates["selling_price"] = in.SellingPrice.Round(2)
			product.SellingPrice = in.SellingPrice.Round(2)
		}
		if in.MinStockLevel != nil {
			updates["min_stock_level"] = *in.MinStockLevel
			product.MinStockLevel = *in.MinStockLevel
		}
		if in.CategoryID != nil {
			updates["category_id"] = *in.CategoryID
			product.CategoryID = in.CategoryID
		}
		if in.SupplierID != nil {
			updates["supplier_id"] = *in.SupplierID
			product.SupplierID = in.SupplierID
		}
		if in.IsActive != nil {
			updates["is_active"] = *in.IsActive
			product.IsActive = *in.IsActive
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Product{}).Where("id = ?", product.ID).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperr.DuplicateKey("a product with this SKU already exists")
				}
				return apperr.Internal(err)
			}
		}

		if in.StockQuantity != nil && *in.StockQuantity != product.StockQuantity {
			delta := *in.StockQuantity - product.StockQuantity
			direction := models.MovementIn
			if delta < 0 {
				direction = models.MovementOut
				delta = -delta
			}
			if _, err := ledger.Apply(tx, ledger.Movement{
				ProductID: product.ID,
				Direction: direction,
				Quantity:  delta,
				Cause:     models.CauseManualAdjustment,
				ActorID:   actor.ID,
			}); err != nil {
				return err
			}
			product.StockQuantity = *in.StockQuantity
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateProductCache(ctx)
	return &product, nil
}

// DeleteProduct refuses to remove a product any sale line references.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product not found")
		}
		return apperr.Internal(err)
	}

	var refs int64
	if err := s.db.Model(&models.SaleItem{}).Where("product_id = ?", id).Count(&refs).Error; err != nil {
		return apperr.Internal(err)
	}
	if refs > 0 {
		return apperr.Referenced("product is referenced by existing sales and cannot be deleted")
	}

	if err := s.db.Delete(&models.Product{}, id).Error; err != nil {
		return apperr.Internal(err)
	}

	s.invalidateProductCache(ctx)
	return nil
}

// PriceHistory lists the recorded selling-price changes for a product.
func (s *Service) PriceHistory(productID int64) ([]models.PriceHistory, error) {
	var history []models.PriceHistory
	if err := s.db.Where("product_id = ?", productID).Order("created_at DESC").Find(&history).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return history, nil
}

// --- Categories ---

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Service) ListCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

func (s *Service) CreateCategory(in CategoryInput) (*models.Category, error) {
	if in.Name == "" {
		return nil, apperr.InvalidInput("name is required")
	}
	category := models.Category{Name: in.Name, Description: in.Description}
	if err := s.db.Create(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.DuplicateKey("a category with this name already exists")
		}
		return nil, apperr.Internal(err)
	}
	return &category, nil
}
