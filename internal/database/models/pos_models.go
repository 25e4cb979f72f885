package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Customer struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string          `gorm:"size:255;not null" json:"name"`
	Email          *string         `gorm:"size:100" json:"email,omitempty"`
	Phone          *string         `gorm:"size:50" json:"phone,omitempty"`
	Address        *string         `gorm:"size:255" json:"address,omitempty"`
	TotalPurchases decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total_purchases"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type Sale struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleNumber       string          `gorm:"size:64;uniqueIndex;not null" json:"sale_number"`
	CustomerID       *int64          `gorm:"index" json:"customer_id,omitempty"`
	UserID           int64           `gorm:"index;not null" json:"user_id"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"discount_amount"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"tax_amount"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_amount"`
	CommissionRate   decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"commission_rate"`
	CommissionAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"commission_amount"`
	PaymentMethod    string          `gorm:"size:32;not null;default:'cash'" json:"payment_method"`
	PaymentStatus    string          `gorm:"size:32;not null;default:'paid'" json:"payment_status"`
	Notes            string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Items    []SaleItem `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Customer *Customer  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	User     *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

type SaleItem struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID    int64           `gorm:"index;not null" json:"sale_id"`
	ProductID int64           `gorm:"index;not null" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	LineTotal decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"line_total"`
	CreatedAt time.Time       `json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

type StringArray []string

func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = []string{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return fmt.Errorf("failed to scan StringArray: %v", value)
		}
	}

	return json.Unmarshal(bytes, a)
}

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	return json.Marshal(a)
}

// Service is a non-stocked offering (repair, delivery, consultation). Sold
// outside the stock ledger entirely.
type Service struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string          `gorm:"size:255;not null" json:"name"`
	Description     string          `gorm:"type:text" json:"description,omitempty"`
	Price           decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	DurationMinutes int             `gorm:"not null;default:0" json:"duration_minutes"`
	Tags            StringArray     `gorm:"type:text" json:"tags,omitempty"`
	IsActive        bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Migrate creates or updates the full schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&Category{},
		&Supplier{},
		&Product{},
		&PriceHistory{},
		&Customer{},
		&Sale{},
		&SaleItem{},
		&StockMovement{},
		&Service{},
	)
}
