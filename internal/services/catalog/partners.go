package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"tradedesk-system/internal/apperr"
	"tradedesk-system/internal/database/models"
)

// --- Customers ---

type CustomerInput struct {
	Name    string  `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (s *Service) ListCustomers() ([]models.Customer, error) {
	var customers []models.Customer
	if err := s.db.Order("name").Find(&customers).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return customers, nil
}

func (s *Service) CreateCustomer(in CustomerInput) (*models.Customer, error) {
	if in.Name == "" {
		return nil, apperr.InvalidInput("name is required")
	}
	customer := models.Customer{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Address: in.Address,
	}
	if err := s.db.Create(&customer).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &customer, nil
}

func (s *Service) UpdateCustomer(id int64, in CustomerInput) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("customer not found")
		}
		return nil, apperr.Internal(err)
	}

	if in.Name != "" {
		customer.Name = in.Name
	}
	if in.Email != nil {
		customer.Email = in.Email
	}
	if in.Phone != nil {
		customer.Phone = in.Phone
	}
	if in.Address != nil {
		customer.Address = in.Address
	}

	if err := s.db.Save(&customer).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &customer, nil
}

// DeleteCustomer refuses to remove a customer with recorded sales. The
// lifetime-purchases accumulator only makes sense while those sales exist.
func (s *Service) DeleteCustomer(id int64) error {
	var customer models.Customer
	if err := s.db.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("customer not found")
		}
		return apperr.Internal(err)
	}

	var refs int64
	if err := s.db.Model(&models.Sale{}).Where("customer_id = ?", id).Count(&refs).Error; err != nil {
		return apperr.Internal(err)
	}
	if refs > 0 {
		return apperr.Referenced("customer has recorded sales and cannot be deleted")
	}

	if err := s.db.Delete(&models.Customer{}, id).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// --- Suppliers ---

type SupplierInput struct {
	Name          string  `json:"name"`
	ContactPerson *string `json:"contact_person"`
	Phone         *string `json:"phone"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	IsActive      *bool   `json:"is_active"`
}

func (s *Service) ListSuppliers() ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := s.db.Order("name").Find(&suppliers).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return suppliers, nil
}

func (s *Service) CreateSupplier(in SupplierInput) (*models.Supplier, error) {
	if in.Name == "" {
		return nil, apperr.InvalidInput("name is required")
	}
	supplier := models.Supplier{
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Phone:         in.Phone,
		Email:         in.Email,
		Address:       in.Address,
		IsActive:      true,
	}
	if err := s.db.Create(&supplier).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &supplier, nil
}

func (s *Service) UpdateSupplier(id int64, in SupplierInput) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := s.db.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("supplier not found")
		}
		return nil, apperr.Internal(err)
	}

	if in.Name != "" {
		supplier.Name = in.Name
	}
	if in.ContactPerson != nil {
		supplier.ContactPerson = in.ContactPerson
	}
	if in.Phone != nil {
		supplier.Phone = in.Phone
	}
	if in.Email != nil {
		supplier.Email = in.Email
	}
	if in.Address != nil {
		supplier.Address = in.Address
	}
	if in.IsActive != nil {
		supplier.IsActive = *in.IsActive
	}

	if err := s.db.Save(&supplier).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &supplier, nil
}

func (s *Service) DeleteSupplier(id int64) error {
	var supplier models.Supplier
	if err := s.db.First(&supplier, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("supplier not found")
		}
		return apperr.Internal(err)
	}

	var refs int64
	if err := s.db.Model(&models.Product{}).Where("supplier_id = ?", id).Count(&refs).Error; err != nil {
		return apperr.Internal(err)
	}
	if refs > 0 {
		return apperr.Referenced("supplier is referenced by products and cannot be deleted")
	}

	if err := s.db.Delete(&models.Supplier{}, id).Error; err != nil {
		return apperr.Internal(err)
	}
	return nil
}

// --- Services (non-stocked offerings) ---

type ServiceInput struct {
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	Price           *decimal.Decimal   `json:"price"`
	DurationMinutes *int               `json:"duration_minutes"`
	Tags            models.StringArray `json:"tags"`
	IsActive        *bool              `json:"is_active"`
}

func (s *Service) ListServices() ([]models.Service, error) {
	var services []models.Service
	if err := s.db.Order("name").Find(&services).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return services, nil
}

func (s *Service) CreateService(in ServiceInput) (*models.Service, error) {
	if in.Name == "" || in.Price == nil {
		return nil, apperr.InvalidInput("name and price are required")
	}
	svc := models.Service{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price.Round(2),
		Tags:        in.Tags,
		IsActive:    true,
	}
	if in.DurationMinutes != nil {
		svc.DurationMinutes = *in.DurationMinutes
	}
	if err := s.db.Create(&svc).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &svc, nil
}

func (s *Service) UpdateService(id int64, in ServiceInput) (*models.Service, error) {
	var svc models.Service
	if err := s.db.First(&svc, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("service not found")
		}
		return nil, apperr.Internal(err)
	}

	if in.Name != "" {
		svc.Name = in.Name
	}
	if in.Description != "" {
		svc.Description = in.Description
	}
	if in.Price != nil {
		svc.Price = in.Price.Round(2)
	}
	if in.DurationMinutes != nil {
		svc.DurationMinutes = *in.DurationMinutes
	}
	if in.Tags != nil {
		svc.Tags = in.Tags
	}
	if in.IsActive != nil {
		svc.IsActive = *in.IsActive
	}

	if err := s.db.Save(&svc).Error; err != nil {
		return nil, apperr.Internal(err)
	}
	return &svc, nil
}

func (s *Service) DeleteService(id int64) error {
	result := s.db.Delete(&models.Service{}, id)
	if result.Error != nil {
		return apperr.Internal(result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("service not found")
	}
	return nil
}
