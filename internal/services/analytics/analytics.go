// Package analytics computes read-only dashboard rollups over sales, products
// and customers. It is a reporting view, not a source of truth: results are
// cached briefly and may trail the transactional writes.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tradedesk-system/internal/apperr"
	"tradedesk-system/internal/auth"
	"tradedesk-system/internal/database/models"
)

const (
	cacheKeyPrefix    = "analytics:"
	cacheTTL          = time.Minute
	defaultWindowDays = 30
)

type Service struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{db: db, rdb: rdb}
}

type LowStockProduct struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
	MinStockLevel int    `json:"min_stock_level"`
}

type ProductRollup struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	QuantitySold int64           `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

type RepRollup struct {
	UserID     int64           `json:"user_id"`
	Username   string          `json:"username"`
	SalesCount int64           `json:"sales_count"`
	Revenue    decimal.Decimal `json:"revenue"`
	Commission decimal.Decimal `json:"commission"`
}

type Report struct {
	WindowDays      int               `json:"window_days"`
	SalesCount      int64             `json:"sales_count"`
	Revenue         decimal.Decimal   `json:"revenue"`
	AverageSale     decimal.Decimal   `json:"average_sale"`
	CommissionTotal decimal.Decimal   `json:"commission_total"`
	LowStock        []LowStockProduct `json:"low_stock"`
	TopProducts     []ProductRollup   `json:"top_products"`
	RepPerformance  []RepRollup       `json:"rep_performance,omitempty"`
}

// Dashboard builds the report for the acting identity. Administrators see
// company-wide figures including per-rep performance; everyone else sees only
// their own sales.
func (s *Service) Dashboard(ctx context.Context, actor *models.User, windowDays int) (*Report, error) {
	if windowDays <= 0 {
		windowDays = defaultWindowDays
	}

	companyWide := auth.HasCapability(actor.Role, auth.CapViewCompanyWide)

	cacheKey := fmt.Sprintf("%suser:%d:%d", cacheKeyPrefix, actor.ID, windowDays)
	if companyWide {
		cacheKey = fmt.Sprintf("%scompany:%d", cacheKeyPrefix, windowDays)
	}
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var report Report
			if json.Unmarshal(cached, &report) == nil {
				return &report, nil
			}
		}
	}

	since := time.Now().AddDate(0, 0, -windowDays)

	salesQuery := s.db.Model(&models.Sale{}).Where("created_at >= ?", since)
	if !companyWide {
		salesQuery = salesQuery.Where("user_id = ?", actor.ID)
	}

	var totals struct {
		SalesCount      int64
		Revenue         decimal.Decimal
		CommissionTotal decimal.Decimal
	}
	err := salesQuery.
		Select("COUNT(*) AS sales_count, COALESCE(SUM(total_amount), 0) AS revenue, COALESCE(SUM(commission_amount), 0) AS commission_total").
		Scan(&totals).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}

	report := &Report{
		WindowDays:      windowDays,
		SalesCount:      totals.SalesCount,
		Revenue:         totals.Revenue,
		CommissionTotal: totals.CommissionTotal,
		AverageSale:     decimal.Zero,
	}
	if totals.SalesCount > 0 {
		report.AverageSale = totals.Revenue.Div(decimal.NewFromInt(totals.SalesCount)).Round(2)
	}

	if err := s.db.Model(&models.Product{}).
		Select("id, name, stock_quantity, min_stock_level").
		Where("is_active = ? AND stock_quantity <= min_stock_level", true).
		Order("stock_quantity").
		Scan(&report.LowStock).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	topQuery := s.db.Table("sale_items").
		Select("sale_items.product_id, products.name, SUM(sale_items.quantity) AS quantity_sold, COALESCE(SUM(sale_items.line_total), 0) AS revenue").
		Joins("JOIN sales ON sales.id = sale_items.sale_id").
		Joins("JOIN products ON products.id = sale_items.product_id").
		Where("sales.created_at >= ?", since)
	if !companyWide {
		topQuery = topQuery.Where("sales.user_id = ?", actor.ID)
	}
	if err := topQuery.
		Group("sale_items.product_id, products.name").
		Order("quantity_sold DESC").
		Limit(10).
		Scan(&report.TopProducts).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	if companyWide {
		if err := s.db.Table("sales").
			Select("sales.user_id, users.username, COUNT(*) AS sales_count, COALESCE(SUM(sales.total_amount), 0) AS revenue, COALESCE(SUM(sales.commission_amount), 0) AS commission").
			Joins("JOIN users ON users.id = sales.user_id").
			Where("sales.created_at >= ?", since).
			Group("sales.user_id, users.username").
			Order("revenue DESC").
			Scan(&report.RepPerformance).Error; err != nil {
			return nil, apperr.Internal(err)
		}
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(report); err == nil {
			_ = s.rdb.Set(ctx, cacheKey, payload, cacheTTL)
		}
	}
	return report, nil
}
