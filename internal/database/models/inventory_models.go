package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock movement directions.
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// Stock movement causes. Every stock_quantity change writes exactly one
// movement row tagged with one of these.
const (
	CauseSale             = "sale"
	CauseSaleReversal     = "sale_reversal"
	CauseManualAdjustment = "manual_adjustment"
	CauseRestock          = "restock"
)

type Category struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Products []Product `gorm:"foreignKey:CategoryID" json:"-"`
}

type Supplier struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	ContactPerson *string   `gorm:"size:100" json:"contact_person,omitempty"`
	Phone         *string   `gorm:"size:50" json:"phone,omitempty"`
	Email         *string   `gorm:"size:100" json:"email,omitempty"`
	Address       *string   `gorm:"size:255" json:"address,omitempty"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Products []Product `gorm:"foreignKey:SupplierID" json:"-"`
}

type Product struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	SKU           *string         `gorm:"size:64;uniqueIndex" json:"sku,omitempty"`
	Name          string          `gorm:"size:255;not null" json:"name"`
	CostPrice     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"cost_price"`
	SellingPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"selling_price"`
	StockQuantity int             `gorm:"not null;default:0" json:"stock_quantity"`
	MinStockLevel int             `gorm:"not null;default:0" json:"min_stock_level"`
	CategoryID    *int64          `gorm:"index" json:"category_id,omitempty"`
	SupplierID    *int64          `gorm:"index" json:"supplier_id,omitempty"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

// PriceHistory records selling-price changes. Distinct from stock movements.
type PriceHistory struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID int64           `gorm:"index;not null" json:"product_id"`
	OldPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"old_price"`
	NewPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"new_price"`
	ChangedBy int64           `gorm:"not null" json:"changed_by"`
	CreatedAt time.Time       `json:"created_at"`
}

// StockMovement rows are append-only: never updated, never deleted. Current
// stock is reconstructible by replaying them.
type StockMovement struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   int64     `gorm:"index;not null" json:"product_id"`
	Direction   string    `gorm:"size:8;not null" json:"direction"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Cause       string    `gorm:"size:32;not null" json:"cause"`
	ReferenceID *string   `gorm:"size:64" json:"reference_id,omitempty"`
	Notes       *string   `gorm:"size:255" json:"notes,omitempty"`
	CreatedBy   int64     `gorm:"not null" json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}
