package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Category classifies a product. The set is closed: string lookups go
// through ParseCategory and unknown names are rejected.
type Category int

const (
	CategoryUnknown Category = iota
	CategoryCloths
	CategoryFood
	CategoryHousewares
	CategoryAutomotive
	CategoryTools
)

var categoryNames = map[Category]string{
	CategoryUnknown:    "UNKNOWN",
	CategoryCloths:     "CLOTHS",
	CategoryFood:       "FOOD",
	CategoryHousewares: "HOUSEWARES",
	CategoryAutomotive: "AUTOMOTIVE",
	CategoryTools:      "TOOLS",
}

var categoriesByName = map[string]Category{
	"UNKNOWN":    CategoryUnknown,
	"CLOTHS":     CategoryCloths,
	"FOOD":       CategoryFood,
	"HOUSEWARES": CategoryHousewares,
	"AUTOMOTIVE": CategoryAutomotive,
	"TOOLS":      CategoryTools,
}

// ParseCategory looks up a category by its exact symbolic name. The
// match is case-sensitive.
func ParseCategory(name string) (Category, error) {
	category, ok := categoriesByName[name]
	if !ok {
		return CategoryUnknown, fmt.Errorf("%w: %s", ErrInvalidAttribute, name)
	}
	return category, nil
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return categoryNames[CategoryUnknown]
}

// Value stores the symbolic name, never the numeric code.
func (c Category) Value() (driver.Value, error) {
	return c.String(), nil
}

// Scan reads a symbolic name back from the database. NULL and empty
// columns scan as UNKNOWN.
func (c *Category) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*c = CategoryUnknown
		return nil
	case string:
		return c.scanName(v)
	case []byte:
		return c.scanName(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Category", value)
	}
}

func (c *Category) scanName(name string) error {
	if name == "" {
		*c = CategoryUnknown
		return nil
	}
	category, err := ParseCategory(name)
	if err != nil {
		return err
	}
	*c = category
	return nil
}

func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Category) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	category, err := ParseCategory(name)
	if err != nil {
		return err
	}
	*c = category
	return nil
}
