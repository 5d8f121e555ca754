// Package model defines data structures for the sales agent.
package model

// Category is the root of the catalog hierarchy.
type Category struct {
	ID          uint   `gorm:"column:id;primaryKey" json:"id"`
	Name        string `gorm:"column:name;uniqueIndex;not null" json:"name"`
	Icon        string `gorm:"column:icon;default:'📦'" json:"icon"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`
}

// ProductType is a product family within a category.
type ProductType struct {
	ID          uint   `gorm:"column:id;primaryKey" json:"id"`
	CategoryID  uint   `gorm:"column:category_id;index;not null" json:"category_id"`
	Name        string `gorm:"column:name;not null" json:"name"`
	Material    string `gorm:"column:material" json:"material,omitempty"`
	Description string `gorm:"column:description;type:text" json:"description,omitempty"`
}

// ProductVariant is a concrete purchasable item: a type + size + construction
// kind combination.
type ProductVariant struct {
	ID          uint    `gorm:"column:id;primaryKey" json:"id"`
	TypeID      uint    `gorm:"column:type_id;index;not null" json:"type_id"`
	Name        string  `gorm:"column:name;not null" json:"name"`
	Size        string  `gorm:"column:size" json:"size,omitempty"`
	SizeDetails string  `gorm:"column:size_details" json:"size_details,omitempty"`
	Kind        string  `gorm:"column:kind" json:"kind,omitempty"`
	BasePrice   float64 `gorm:"column:base_price;default:0" json:"base_price"`
	MinQuantity int     `gorm:"column:min_quantity;default:100" json:"min_quantity"`
	Available   bool    `gorm:"column:available;default:true" json:"available"`
}

// Accessory is an add-on item matched to compatible products by tag.
type Accessory struct {
	ID             uint    `gorm:"column:id;primaryKey" json:"id"`
	Name           string  `gorm:"column:name;not null" json:"name"`
	CompatibleWith string  `gorm:"column:compatible_with" json:"compatible_with,omitempty"`
	Price          float64 `gorm:"column:price;default:0" json:"price"`
	Description    string  `gorm:"column:description;type:text" json:"description,omitempty"`
}

// PricingTier is a quantity-banded unit price rule for a variant.
// MaxQuantity 0 means the band is open-ended.
type PricingTier struct {
	ID          uint    `gorm:"column:id;primaryKey" json:"id"`
	VariantID   uint    `gorm:"column:variant_id;index;not null" json:"variant_id"`
	MinQuantity int     `gorm:"column:min_quantity;not null" json:"min_quantity"`
	MaxQuantity int     `gorm:"column:max_quantity" json:"max_quantity,omitempty"`
	UnitPrice   float64 `gorm:"column:unit_price;not null" json:"unit_price"`
}
