package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Description string          `json:"description" gorm:"type:varchar(250);not null" validate:"max=250"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Available   bool            `json:"available" gorm:"not null;default:true"`
	Category    Category        `json:"category" gorm:"type:varchar(20);not null;default:UNKNOWN"`
}

func (p *Product) TableName() string {
	return "products"
}

// Deserialize fills the product from a decoded JSON body. Fields are
// checked in a fixed order (name, description, price, available,
// category) and the first problem found is reported. The id key is
// ignored: ids are assigned by the store, never by the client.
func (p *Product) Deserialize(data map[string]interface{}) error {
	if data == nil {
		return ErrNoData
	}

	raw, ok := data["name"]
	if !ok {
		return fmt.Errorf("%w: name", ErrMissingField)
	}
	name, ok := raw.(string)
	if !ok {
		return fmt.Errorf("%w for string [name]: %T", ErrInvalidType, raw)
	}
	p.Name = name

	raw, ok = data["description"]
	if !ok {
		return fmt.Errorf("%w: description", ErrMissingField)
	}
	description, ok := raw.(string)
	if !ok {
		return fmt.Errorf("%w for string [description]: %T", ErrInvalidType, raw)
	}
	p.Description = description

	raw, ok = data["price"]
	if !ok {
		return fmt.Errorf("%w: price", ErrMissingField)
	}
	price, err := ParsePrice(raw)
	if err != nil {
		return err
	}
	p.Price = price

	raw, ok = data["available"]
	if !ok {
		return fmt.Errorf("%w: available", ErrMissingField)
	}
	available, ok := raw.(bool)
	if !ok {
		// A string such as "true" is not acceptable here.
		return fmt.Errorf("%w for boolean [available]: %T", ErrInvalidType, raw)
	}
	p.Available = available

	raw, ok = data["category"]
	if !ok {
		return fmt.Errorf("%w: category", ErrMissingField)
	}
	categoryName, ok := raw.(string)
	if !ok {
		return fmt.Errorf("%w for string [category]: %T", ErrInvalidType, raw)
	}
	category, err := ParseCategory(categoryName)
	if err != nil {
		return err
	}
	p.Category = category

	return nil
}

// Serialize converts the product into its wire representation. The price
// is rendered as its canonical decimal string and the category as its
// symbolic name.
func (p *Product) Serialize() map[string]interface{} {
	return map[string]interface{}{
		"id":          p.ID,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price.String(),
		"available":   p.Available,
		"category":    p.Category.String(),
	}
}

// ParsePrice converts a decoded JSON value into an exact decimal. String
// values are trimmed of surrounding whitespace and double quotes before
// parsing.
func ParsePrice(value interface{}) (decimal.Decimal, error) {
	switch v := value.(type) {
	case json.Number:
		price, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w for decimal [price]: %q", ErrInvalidType, v.String())
		}
		return price, nil
	case string:
		price, err := decimal.NewFromString(strings.Trim(v, ` "`))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w for decimal [price]: %q", ErrInvalidType, v)
		}
		return price, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case decimal.Decimal:
		return v, nil
	default:
		return decimal.Zero, fmt.Errorf("%w for decimal [price]: %T", ErrInvalidType, value)
	}
}
