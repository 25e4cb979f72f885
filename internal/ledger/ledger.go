// Package ledger pairs every product stock mutation with exactly one
// append-only movement row. Callers pass the transaction the mutation belongs
// to; the pairing never spans transaction boundaries.
package ledger

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"tradedesk-system/internal/apperr"
	"tradedesk-system/internal/database/models"
)

type Movement struct {
	ProductID   int64
	Direction   string
	Quantity    int
	Cause       string
	ReferenceID *string
	Notes       *string
	ActorID     int64
}

var validCauses = map[string]bool{
	models.CauseSale:             true,
	models.CauseSaleReversal:     true,
	models.CauseManualAdjustment: true,
	models.CauseRestock:          true,
}

// Apply updates the product's running stock quantity and records the movement
// inside tx. Stock may go negative: availability policy belongs to callers,
// not the ledger.
func Apply(tx *gorm.DB, m Movement) (*models.StockMovement, error) {
	if m.Quantity <= 0 {
		return nil, apperr.InvalidInput("movement quantity must be greater than 0")
	}
	if m.Direction != models.MovementIn && m.Direction != models.MovementOut {
		return nil, apperr.InvalidInput(fmt.Sprintf("unknown movement direction %q", m.Direction))
	}
	if !validCauses[m.Cause] {
		return nil, apperr.InvalidInput(fmt.Sprintf("unknown movement cause %q", m.Cause))
	}

	delta := m.Quantity
	if m.Direction == models.MovementOut {
		delta = -m.Quantity
	}

	result := tx.Model(&models.Product{}).
		Where("id = ?", m.ProductID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", delta))
	if result.Error != nil {
		return nil, apperr.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("product not found")
	}

	movement := models.StockMovement{
		ProductID:   m.ProductID,
		Direction:   m.Direction,
		Quantity:    m.Quantity,
		Cause:       m.Cause,
		ReferenceID: m.ReferenceID,
		Notes:       m.Notes,
		CreatedBy:   m.ActorID,
		CreatedAt:   time.Now(),
	}
	if err := tx.Create(&movement).Error; err != nil {
		return nil, apperr.Internal(err)
	}

	return &movement, nil
}
