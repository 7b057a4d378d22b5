package services

import (
	"log"

	"productstore/internal/models"
	"productstore/internal/repositories"
)

// EventPublisher publishes product lifecycle events to a message broker.
type EventPublisher interface {
	PublishProductEvent(event string, product map[string]interface{}) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
}

// NewProductService creates a new ProductService. events may be nil when
// eventing is disabled.
func NewProductService(repo repositories.ProductRepository, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetProductsByName retrieves all products with the exact name.
func (s *ProductService) GetProductsByName(name string) ([]models.Product, error) {
	return s.repo.FindByName(name)
}

// GetProductsByCategory retrieves all products in the given category.
func (s *ProductService) GetProductsByCategory(category models.Category) ([]models.Product, error) {
	return s.repo.FindByCategory(category)
}

// GetProductsByAvailability retrieves all products with the given
// availability.
func (s *ProductService) GetProductsByAvailability(available bool) ([]models.Product, error) {
	return s.repo.FindByAvailability(available)
}

// GetProductsByPrice retrieves all products matching the exact price.
// The raw value may carry surrounding whitespace or quotes from the URL;
// it is trimmed and parsed before the lookup.
func (s *ProductService) GetProductsByPrice(raw string) ([]models.Product, error) {
	price, err := models.ParsePrice(raw)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByPrice(price)
}

// CreateProduct creates a new product. The store assigns the id.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.publish("product.created", product)
	return nil
}

// UpdateProduct replaces all fields of an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.publish("product.updated", product)
	return nil
}

// DeleteProduct removes a product by its ID.
func (s *ProductService) DeleteProduct(id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.publish("product.deleted", product)
	return nil
}

// publish sends a lifecycle event. Failures are logged only: the catalog
// operation has already succeeded and is not rolled back.
func (s *ProductService) publish(event string, product *models.Product) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishProductEvent(event, product.Serialize()); err != nil {
		log.Printf("Failed to publish %s event for product %d: %v", event, product.ID, err)
	}
}
