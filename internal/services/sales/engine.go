// Package sales implements the sale transaction engine: atomic sale creation
// with stock decrement and commission computation, and the compensating
// reversal on deletion.
package sales

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tradedesk-system/internal/apperr"
	"tradedesk-system/internal/auth"
	"tradedesk-system/internal/database/models"
	"tradedesk-system/internal/ledger"
)

// Commission rate per role, fixed at sale creation time. Only sales reps earn
// commission.
var commissionRates = map[string]decimal.Decimal{
	auth.RoleSalesRep: decimal.NewFromInt(5),
}

const saleNumberAttempts = 3

type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

type LineItemInput struct {
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type CreateSaleInput struct {
	CustomerID     *int64          `json:"customer_id"`
	Items          []LineItemInput `json:"items"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	PaymentMethod  string          `json:"payment_method"`
	Notes          string          `json:"notes"`
}

func validateItems(items []LineItemInput) error {
	if len(items) == 0 {
		return apperr.InvalidInput("sale must have at least one item")
	}
	for _, item := range items {
		if item.ProductID == 0 {
			return apperr.InvalidInput("every item requires a product_id")
		}
		if item.Quantity <= 0 {
			return apperr.InvalidInput("every item requires a quantity greater than 0")
		}
		if item.UnitPrice.IsNegative() {
			return apperr.InvalidInput("unit_price must not be negative")
		}
	}
	return nil
}

func generateSaleNumber() string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return "SL-" + time.Now().Format("20060102-150405") + "-" + suffix
}

// CreateSale records the sale, its line items, one out-movement per line and
// the customer lifetime total as a single transaction. Stock is not checked
// for availability and may go negative; any oversell policy belongs to the
// caller. Sale-number collisions are retried with a fresh number.
func (e *Engine) CreateSale(in CreateSaleInput, actor *models.User) (*models.Sale, error) {
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, item := range in.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	total := subtotal.Sub(in.DiscountAmount).Add(in.TaxAmount).Round(2)

	rate := commissionRates[actor.Role]
	commission := total.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)

	paymentMethod := in.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	for attempt := 0; attempt < saleNumberAttempts; attempt++ {
		sale := models.Sale{
			SaleNumber:       generateSaleNumber(),
			CustomerID:       in.CustomerID,
			UserID:           actor.ID,
			Subtotal:         subtotal.Round(2),
			DiscountAmount:   in.DiscountAmount.Round(2),
			TaxAmount:        in.TaxAmount.Round(2),
			TotalAmount:      total,
			CommissionRate:   rate,
			CommissionAmount: commission,
			PaymentMethod:    paymentMethod,
			PaymentStatus:    "paid",
			Notes:            in.Notes,
		}

		err := e.db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&sale).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return apperr.Wrap(apperr.KindConflict, "sale number already exists", err)
				}
				return apperr.Internal(err)
			}

			for _, item := range in.Items {
				ref := sale.SaleNumber
				if _, err := ledger.Apply(tx, ledger.Movement{
					ProductID:   item.ProductID,
					Direction:   models.MovementOut,
					Quantity:    item.Quantity,
					Cause:       models.CauseSale,
					ReferenceID: &ref,
					ActorID:     actor.ID,
				}); err != nil {
					return err
				}

				saleItem := models.SaleItem{
					SaleID:    sale.ID,
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
					UnitPrice: item.UnitPrice.Round(2),
					LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))).Round(2),
				}
				if err := tx.Create(&saleItem).Error; err != nil {
					return apperr.Internal(err)
				}
				sale.Items = append(sale.Items, saleItem)
			}

			if in.CustomerID != nil {
				result := tx.Model(&models.Customer{}).
					Where("id = ?", *in.CustomerID).
					Update("total_purchases", gorm.Expr("total_purchases + ?", total))
				if result.Error != nil {
					return apperr.Internal(result.Error)
				}
				if result.RowsAffected == 0 {
					return apperr.NotFound("customer not found")
				}
			}

			return nil
		})

		if err == nil {
			return &sale, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		return nil, err
	}

	return nil, apperr.DuplicateKey("could not allocate a unique sale number")
}

// DeleteSale reverses the sale's ledger effects and removes it. Only
// administrators may delete sales. The compensation mirrors CreateSale: stock
// restored through in-movements tagged sale_reversal, customer total
// decremented with no floor at zero.
func (e *Engine) DeleteSale(saleID int64, actor *models.User) error {
	if !auth.HasCapability(actor.Role, auth.CapDeleteSale) {
		return apperr.Forbidden("administrator role required to delete sales")
	}

	var sale models.Sale
	if err := e.db.Preload("Items").First(&sale, saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("sale not found")
		}
		return apperr.Internal(err)
	}

	return e.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range sale.Items {
			ref := sale.SaleNumber
			if _, err := ledger.Apply(tx, ledger.Movement{
				ProductID:   item.ProductID,
				Direction:   models.MovementIn,
				Quantity:    item.Quantity,
				Cause:       models.CauseSaleReversal,
				ReferenceID: &ref,
				ActorID:     actor.ID,
			}); err != nil {
				return err
			}
		}

		if sale.CustomerID != nil {
			result := tx.Model(&models.Customer{}).
				Where("id = ?", *sale.CustomerID).
				Update("total_purchases", gorm.Expr("total_purchases - ?", sale.TotalAmount))
			if result.Error != nil {
				return apperr.Internal(result.Error)
			}
		}

		if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
			return apperr.Internal(err)
		}
		if err := tx.Delete(&models.Sale{}, sale.ID).Error; err != nil {
			return apperr.Internal(err)
		}
		return nil
	})
}

type UpdateSaleInput struct {
	PaymentMethod *string `json:"payment_method"`
	PaymentStatus *string `json:"payment_status"`
	Notes         *string `json:"notes"`
}

// UpdateSale mutates payment fields and notes only. Financial fields and line
// items are immutable after creation.
func (e *Engine) UpdateSale(saleID int64, in UpdateSaleInput) (*models.Sale, error) {
	var sale models.Sale
	if err := e.db.Preload("Items").First(&sale, saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("sale not found")
		}
		return nil, apperr.Internal(err)
	}

	updates := map[string]interface{}{}
	if in.PaymentMethod != nil {
		updates["payment_method"] = *in.PaymentMethod
		sale.PaymentMethod = *in.PaymentMethod
	}
	if in.PaymentStatus != nil {
		updates["payment_status"] = *in.PaymentStatus
		sale.PaymentStatus = *in.PaymentStatus
	}
	if in.Notes != nil {
		updates["notes"] = *in.Notes
		sale.Notes = *in.Notes
	}
	if len(updates) == 0 {
		return &sale, nil
	}

	if err := e.db.Model(&models.Sale{}).Where("id = ?", sale.ID).Updates(updates).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &sale, nil
}

// SaleSummary is the listing projection: joined customer name and rep
// username plus the per-sale item count.
type SaleSummary struct {
	ID               int64           `json:"id"`
	SaleNumber       string          `json:"sale_number"`
	CustomerID       *int64          `json:"customer_id,omitempty"`
	CustomerName     *string         `json:"customer_name,omitempty"`
	SalesRep         string          `json:"sales_rep"`
	ItemCount        int             `json:"item_count"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	DiscountAmount   decimal.Decimal `json:"discount_amount"`
	TaxAmount        decimal.Decimal `json:"tax_amount"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	CommissionAmount decimal.Decimal `json:"commission_amount"`
	PaymentMethod    string          `json:"payment_method"`
	PaymentStatus    string          `json:"payment_status"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ListSales returns all sales most-recent-first.
func (e *Engine) ListSales() ([]SaleSummary, error) {
	var rows []SaleSummary
	err := e.db.Table("sales").
		Select(`sales.id, sales.sale_number, sales.customer_id, customers.name AS customer_name,
			users.username AS sales_rep,
			(SELECT COUNT(*) FROM sale_items WHERE sale_items.sale_id = sales.id) AS item_count,
			sales.subtotal, sales.discount_amount, sales.tax_amount, sales.total_amount,
			sales.commission_rate, sales.commission_amount,
			sales.payment_method, sales.payment_status, sales.created_at`).
		Joins("LEFT JOIN customers ON customers.id = sales.customer_id").
		Joins("JOIN users ON users.id = sales.user_id").
		Order("sales.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return rows, nil
}

// GetSale loads one sale with its line items.
func (e *Engine) GetSale(saleID int64) (*models.Sale, error) {
	var sale models.Sale
	if err := e.db.Preload("Items").First(&sale, saleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("sale not found")
		}
		return nil, apperr.Internal(err)
	}
	return &sale, nil
}
