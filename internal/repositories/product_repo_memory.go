package repositories

import (
	"sync"

	"github.com/shopspring/decimal"

	"productstore/internal/models"
)

// MemoryProductRepository is an in-memory implementation of
// ProductRepository. It backs the test suites and can stand in for the
// database during local development.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products map[uint]models.Product
	nextID   uint
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// GetAll returns all products.
func (r *MemoryProductRepository) GetAll() ([]models.Product, error) {
	return r.selectWhere(func(models.Product) bool { return true })
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	return &product, nil
}

// FindByName returns all products with an exact, case-sensitive name match.
func (r *MemoryProductRepository) FindByName(name string) ([]models.Product, error) {
	return r.selectWhere(func(p models.Product) bool { return p.Name == name })
}

// FindByCategory returns all products in the given category.
func (r *MemoryProductRepository) FindByCategory(category models.Category) ([]models.Product, error) {
	return r.selectWhere(func(p models.Product) bool { return p.Category == category })
}

// FindByAvailability returns all products with the given availability.
func (r *MemoryProductRepository) FindByAvailability(available bool) ([]models.Product, error) {
	return r.selectWhere(func(p models.Product) bool { return p.Available == available })
}

// FindByPrice returns all products with the exact decimal price.
func (r *MemoryProductRepository) FindByPrice(price decimal.Decimal) ([]models.Product, error) {
	return r.selectWhere(func(p models.Product) bool { return p.Price.Equal(price) })
}

// selectWhere collects every stored product matching the predicate.
func (r *MemoryProductRepository) selectWhere(match func(models.Product) bool) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matches := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if match(p) {
			matches = append(matches, p)
		}
	}
	return matches, nil
}

// Create adds a new product, assigning the next id. Any client-supplied
// id is discarded. Ids are never reused, even after a delete.
func (r *MemoryProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	r.products[product.ID] = *product
	return nil
}

// Update replaces all fields of an existing product.
func (r *MemoryProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		return models.ErrEmptyID
	}
	if _, ok := r.products[product.ID]; !ok {
		return models.ErrProductNotFound
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MemoryProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return models.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}
