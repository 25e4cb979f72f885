// Package seed provisions demo data for freshly initialized databases.
package seed

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tradedesk-system/internal/auth"
	"tradedesk-system/internal/database/models"
	"tradedesk-system/internal/ledger"
)

// EnsureDemoData seeds demo accounts, categories, suppliers, products,
// customers and services. Each table is seeded only when empty, so repeated
// /init-db calls are harmless.
func EnsureDemoData(db *gorm.DB) error {
	admin, err := ensureUsers(db)
	if err != nil {
		return err
	}
	if err := ensureCategories(db); err != nil {
		return err
	}
	if err := ensureSuppliers(db); err != nil {
		return err
	}
	if err := ensureProducts(db, admin); err != nil {
		return err
	}
	if err := ensureCustomers(db); err != nil {
		return err
	}
	return ensureServices(db)
}

func ensureUsers(db *gorm.DB) (*models.User, error) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		var admin models.User
		if err := db.Where("role = ?", auth.RoleAdmin).First(&admin).Error; err != nil {
			return nil, fmt.Errorf("no administrator account present: %w", err)
		}
		return &admin, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := models.User{
		Username: "admin",
		Email:    "admin@tradedesk.local",
		Password: string(hash),
		FullName: "Demo Administrator",
		Role:     auth.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return nil, err
	}

	rep := models.User{
		Username: "salesrep",
		Email:    "rep@tradedesk.local",
		Password: string(hash),
		FullName: "Demo Sales Rep",
		Role:     auth.RoleSalesRep,
		IsActive: true,
	}
	if err := db.Create(&rep).Error; err != nil {
		return nil, err
	}

	return &admin, nil
}

func ensureCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	categories := []models.Category{
		{Name: "Electronics", Description: "Devices and accessories"},
		{Name: "Office Supplies", Description: "Stationery and consumables"},
		{Name: "Beverages", Description: "Drinks and refreshments"},
	}
	return db.Create(&categories).Error
}

func ensureSuppliers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Supplier{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	contact := "Sam Porter"
	phone := "+1-555-0110"
	suppliers := []models.Supplier{
		{Name: "Northline Distribution", ContactPerson: &contact, Phone: &phone, IsActive: true},
		{Name: "Harbor Wholesale", IsActive: true},
	}
	return db.Create(&suppliers).Error
}

func ensureProducts(db *gorm.DB, admin *models.User) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var electronics models.Category
	if err := db.Where("name = ?", "Electronics").First(&electronics).Error; err != nil {
		return err
	}
	var office models.Category
	if err := db.Where("name = ?", "Office Supplies").First(&office).Error; err != nil {
		return err
	}

	type productSeed struct {
		sku        string
		name       string
		cost       string
		price      string
		stock      int
		minStock   int
		categoryID int64
	}
	seeds := []productSeed{
		{"ELEC-001", "Wireless Keyboard", "18.50", "34.99", 40, 10, electronics.ID},
		{"ELEC-002", "USB-C Charger 65W", "11.00", "24.99", 60, 15, electronics.ID},
		{"OFFC-001", "A4 Paper Ream", "2.80", "5.49", 200, 50, office.ID},
		{"OFFC-002", "Gel Pen 12-Pack", "3.10", "7.99", 80, 20, office.ID},
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, s := range seeds {
			sku := s.sku
			categoryID := s.categoryID
			cost, _ := decimal.NewFromString(s.cost)
			price, _ := decimal.NewFromString(s.price)
			product := models.Product{
				SKU:           &sku,
				Name:          s.name,
				CostPrice:     cost,
				SellingPrice:  price,
				MinStockLevel: s.minStock,
				CategoryID:    &categoryID,
				IsActive:      true,
			}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			if _, err := ledger.Apply(tx, ledger.Movement{
				ProductID: product.ID,
				Direction: models.MovementIn,
				Quantity:  s.stock,
				Cause:     models.CauseRestock,
				ActorID:   admin.ID,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureCustomers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Customer{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := "anna@example.com"
	phone := "+1-555-0199"
	customers := []models.Customer{
		{Name: "Anna Kowalski", Email: &email, Phone: &phone},
		{Name: "Beacon Hill Cafe"},
	}
	return db.Create(&customers).Error
}

func ensureServices(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Service{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	services := []models.Service{
		{Name: "On-site Setup", Description: "Device installation at the customer's premises", Price: decimal.RequireFromString("49.00"), DurationMinutes: 60, Tags: models.StringArray{"installation"}, IsActive: true},
		{Name: "Express Delivery", Price: decimal.RequireFromString("12.50"), DurationMinutes: 0, Tags: models.StringArray{"logistics"}, IsActive: true},
	}
	return db.Create(&services).Error
}
