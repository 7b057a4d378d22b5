package repositories

import (
	"github.com/shopspring/decimal"

	"productstore/internal/models"
)

// ProductRepository defines the interface for product data access. The
// finder methods are pure reads; match order among results is
// unspecified.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	FindByName(name string) ([]models.Product, error)
	FindByCategory(category models.Category) ([]models.Product, error)
	FindByAvailability(available bool) ([]models.Product, error)
	FindByPrice(price decimal.Decimal) ([]models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
}
