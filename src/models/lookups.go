// backend/src/models/lookups.go
package models

// Project is a grant/project reference a transaction can be booked against.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// ProductCategory groups products by audience.
type ProductCategory string

const (
	CategorySkoly ProductCategory = "SKOLY"
	CategoryFirmy ProductCategory = "FIRMY"
)

// Product is a sellable program (school or company facing).
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    ProductCategory `json:"category"`
	Description string          `json:"description"`
	IsActive    bool            `json:"is_active"`
}

// ProductSubgroup is a phase or component of a product.
type ProductSubgroup struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

// CostDetail enumerates the valid Druh + Detail combinations for income and
// expense classification.
type CostDetail struct {
	ID        string `json:"id"`
	DruhType  string `json:"druh_type"` // "vydaje" or "prijmy"
	DruhValue string `json:"druh_value"`
	Detail    string `json:"detail"`
	IsActive  bool   `json:"is_active"`
}
