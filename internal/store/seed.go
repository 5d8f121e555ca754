package store

import (
	"fmt"

	"github.com/packprint/sales-agent/internal/model"
)

// seed inserts the print shop catalog. Each table is filled only when empty,
// so repeated startups never duplicate rows.
func (d *DB) seed() error {
	fixture := SeedCatalog()

	var count int64
	if err := d.db.Model(&model.Category{}).Count(&count).Error; err != nil {
		return fmt.Errorf("seed check failed: %w", err)
	}
	if count == 0 {
		if err := d.db.Create(&fixture.Categories).Error; err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
	}

	if err := d.db.Model(&model.ProductType{}).Count(&count).Error; err != nil {
		return fmt.Errorf("seed check failed: %w", err)
	}
	if count == 0 {
		if err := d.db.Create(&fixture.Types).Error; err != nil {
			return fmt.Errorf("failed to seed product types: %w", err)
		}
	}

	if err := d.db.Model(&model.ProductVariant{}).Count(&count).Error; err != nil {
		return fmt.Errorf("seed check failed: %w", err)
	}
	if count == 0 {
		if err := d.db.Create(&fixture.Variants).Error; err != nil {
			return fmt.Errorf("failed to seed variants: %w", err)
		}
	}

	if err := d.db.Model(&model.Accessory{}).Count(&count).Error; err != nil {
		return fmt.Errorf("seed check failed: %w", err)
	}
	if count == 0 {
		if err := d.db.Create(&fixture.Accessories).Error; err != nil {
			return fmt.Errorf("failed to seed accessories: %w", err)
		}
	}

	if err := d.db.Model(&model.PricingTier{}).Count(&count).Error; err != nil {
		return fmt.Errorf("seed check failed: %w", err)
	}
	if count == 0 {
		if err := d.db.Create(&fixture.Tiers).Error; err != nil {
			return fmt.Errorf("failed to seed pricing tiers: %w", err)
		}
	}

	return nil
}

// SeedCatalog returns the full print shop catalog fixture. The in-memory
// store uses it directly; the GORM store inserts it on first startup.
func SeedCatalog() *CatalogData {
	return &CatalogData{
		Categories: []model.Category{
			{ID: 1, Name: "Cups", Icon: "☕", Description: "Hot and cold drink cups"},
			{ID: 2, Name: "Paper Bags", Icon: "🛍️", Description: "Carry bags in all sizes"},
			{ID: 3, Name: "Food Containers", Icon: "🍔", Description: "Sandwich and meal boxes"},
			{ID: 4, Name: "Bakery", Icon: "🧁", Description: "Cake and sweets boxes"},
			{ID: 5, Name: "Branding", Icon: "🎨", Description: "Napkins, stickers, extras"},
		},
		Types: []model.ProductType{
			{ID: 1, CategoryID: 1, Name: "Hot Cups", Material: "coated paperboard", Description: "For coffee, tea and hot drinks"},
			{ID: 2, CategoryID: 1, Name: "Cold Cups", Material: "plastic", Description: "For juices and iced drinks"},
			{ID: 3, CategoryID: 1, Name: "Cup Accessories", Description: "Lids, sleeves, holders, straws"},
			{ID: 4, CategoryID: 2, Name: "Kraft Bags", Material: "kraft paper", Description: "Natural organic look"},
			{ID: 5, CategoryID: 2, Name: "White Bags", Material: "bleached paper", Description: "For vivid color printing"},
			{ID: 6, CategoryID: 3, Name: "Burger Boxes", Material: "cardboard", Description: "Leak-resistant sandwich boxes"},
			{ID: 7, CategoryID: 3, Name: "Wrapping Paper", Material: "waxed paper", Description: "Grease-resistant wraps"},
			{ID: 8, CategoryID: 3, Name: "Pizza Boxes", Material: "E-flute corrugated", Description: "Keeps heat in"},
			{ID: 9, CategoryID: 4, Name: "Cake Boxes", Material: "cardboard", Description: "With clear window"},
			{ID: 10, CategoryID: 4, Name: "Ice Cream Cups", Material: "paper", Description: "Wide and short"},
			{ID: 11, CategoryID: 5, Name: "Napkins", Description: "1-2 color logo printing"},
			{ID: 12, CategoryID: 5, Name: "Stickers", Description: "Budget branding for plain boxes"},
		},
		Variants: []model.ProductVariant{
			// Hot cups, single wall
			{ID: 1, TypeID: 1, Name: "Hot Cup 4oz Single", Size: "4 oz", Kind: "Single Wall", MinQuantity: 500, Available: true},
			{ID: 2, TypeID: 1, Name: "Hot Cup 8oz Single", Size: "8 oz", Kind: "Single Wall", MinQuantity: 500, Available: true},
			{ID: 3, TypeID: 1, Name: "Hot Cup 12oz Single", Size: "12 oz", Kind: "Single Wall", MinQuantity: 500, Available: true},
			{ID: 4, TypeID: 1, Name: "Hot Cup 16oz Single", Size: "16 oz", Kind: "Single Wall", MinQuantity: 500, Available: true},
			// Hot cups, double wall
			{ID: 5, TypeID: 1, Name: "Hot Cup 8oz Double", Size: "8 oz", Kind: "Double Wall", MinQuantity: 500, Available: true},
			{ID: 6, TypeID: 1, Name: "Hot Cup 12oz Double", Size: "12 oz", Kind: "Double Wall", MinQuantity: 500, Available: true},
			{ID: 7, TypeID: 1, Name: "Hot Cup 16oz Double", Size: "16 oz", Kind: "Double Wall", MinQuantity: 500, Available: true},
			// Hot cups, ripple wall
			{ID: 8, TypeID: 1, Name: "Hot Cup 8oz Ripple", Size: "8 oz", Kind: "Ripple Wall", MinQuantity: 500, Available: true},
			{ID: 9, TypeID: 1, Name: "Hot Cup 12oz Ripple", Size: "12 oz", Kind: "Ripple Wall", MinQuantity: 500, Available: true},
			{ID: 10, TypeID: 1, Name: "Hot Cup 16oz Ripple", Size: "16 oz", Kind: "Ripple Wall", MinQuantity: 500, Available: true},
			// Cold cups, PET
			{ID: 11, TypeID: 2, Name: "Cold Cup PET 12oz", Size: "12 oz", Kind: "PET Clear", MinQuantity: 500, Available: true},
			{ID: 12, TypeID: 2, Name: "Cold Cup PET 14oz", Size: "14 oz", Kind: "PET Clear", MinQuantity: 500, Available: true},
			{ID: 13, TypeID: 2, Name: "Cold Cup PET 16oz", Size: "16 oz", Kind: "PET Clear", MinQuantity: 500, Available: true},
			// Cold cups, PP
			{ID: 14, TypeID: 2, Name: "Cold Cup PP 12oz", Size: "12 oz", Kind: "PP Economy", MinQuantity: 500, Available: true},
			{ID: 15, TypeID: 2, Name: "Cold Cup PP 14oz", Size: "14 oz", Kind: "PP Economy", MinQuantity: 500, Available: true},
			{ID: 16, TypeID: 2, Name: "Cold Cup PP 16oz", Size: "16 oz", Kind: "PP Economy", MinQuantity: 500, Available: true},
			// Kraft bags
			{ID: 17, TypeID: 4, Name: "Kraft Bag Small", Size: "Small", SizeDetails: "20×10×28 cm", Kind: "Twisted Handle", MinQuantity: 500, Available: true},
			{ID: 18, TypeID: 4, Name: "Kraft Bag Medium", Size: "Medium", SizeDetails: "26×12×32 cm", Kind: "Twisted Handle", MinQuantity: 500, Available: true},
			{ID: 19, TypeID: 4, Name: "Kraft Bag Large", Size: "Large", SizeDetails: "32×14×42 cm", Kind: "Twisted Handle", MinQuantity: 300, Available: true},
			// White bags
			{ID: 20, TypeID: 5, Name: "White Bag Small", Size: "Small", SizeDetails: "20×10×28 cm", Kind: "Twisted Handle", MinQuantity: 500, Available: true},
			{ID: 21, TypeID: 5, Name: "White Bag Medium", Size: "Medium", SizeDetails: "26×12×32 cm", Kind: "Twisted Handle", MinQuantity: 500, Available: true},
			{ID: 22, TypeID: 5, Name: "White Bag Large", Size: "Large", SizeDetails: "32×14×42 cm", Kind: "Twisted Handle", MinQuantity: 300, Available: true},
			// Burger boxes (no kind: the variant step is skipped for these)
			{ID: 23, TypeID: 6, Name: "Burger Box Regular", Size: "Regular", SizeDetails: "10×10 cm", MinQuantity: 500, Available: true},
			{ID: 24, TypeID: 6, Name: "Burger Box Jumbo", Size: "Jumbo", SizeDetails: "12×12 cm", MinQuantity: 500, Available: true},
			// Wrapping paper
			{ID: 25, TypeID: 7, Name: "Wrap Sheet Small", Size: "Small", SizeDetails: "25×35 cm", MinQuantity: 1000, Available: true},
			{ID: 26, TypeID: 7, Name: "Wrap Sheet Large", Size: "Large", SizeDetails: "30×40 cm", MinQuantity: 1000, Available: true},
			// Pizza boxes
			{ID: 27, TypeID: 8, Name: "Pizza Box 25cm", Size: "Small", SizeDetails: "25 cm", MinQuantity: 200, Available: true},
			{ID: 28, TypeID: 8, Name: "Pizza Box 30cm", Size: "Medium", SizeDetails: "30 cm", MinQuantity: 200, Available: true},
			{ID: 29, TypeID: 8, Name: "Pizza Box 35cm", Size: "Large", SizeDetails: "35 cm", MinQuantity: 200, Available: true},
			// Ice cream cups
			{ID: 30, TypeID: 10, Name: "Ice Cream Cup 4oz", Size: "4 oz", MinQuantity: 500, Available: true},
			{ID: 31, TypeID: 10, Name: "Ice Cream Cup 8oz", Size: "8 oz", MinQuantity: 500, Available: true},
		},
		Accessories: []model.Accessory{
			{ID: 1, Name: "Flat Lid", CompatibleWith: "Hot Cups", Description: "For hot drinks"},
			{ID: 2, Name: "Dome Lid", CompatibleWith: "Cold Cups", Description: "For cream and shakes"},
			{ID: 3, Name: "Thermal Sleeve", CompatibleWith: "Hot Cups Single", Description: "Heat protection"},
			{ID: 4, Name: "2-Cup Holder", CompatibleWith: "Cups", Description: "Cardboard"},
			{ID: 5, Name: "4-Cup Holder", CompatibleWith: "Cups", Description: "Cardboard"},
			{ID: 6, Name: "Paper Straw 6mm", CompatibleWith: "Cold Cups", Description: "For juices"},
			{ID: 7, Name: "Paper Straw 10mm", CompatibleWith: "Cold Cups", Description: "For smoothies"},
		},
		Tiers: []model.PricingTier{
			// Hot Cup 8oz Single
			{ID: 1, VariantID: 2, MinQuantity: 1, MaxQuantity: 999, UnitPrice: 0.045},
			{ID: 2, VariantID: 2, MinQuantity: 1000, MaxQuantity: 4999, UnitPrice: 0.038},
			{ID: 3, VariantID: 2, MinQuantity: 5000, MaxQuantity: 0, UnitPrice: 0.031},
			// Hot Cup 8oz Double
			{ID: 4, VariantID: 5, MinQuantity: 1, MaxQuantity: 999, UnitPrice: 0.062},
			{ID: 5, VariantID: 5, MinQuantity: 1000, MaxQuantity: 4999, UnitPrice: 0.054},
			{ID: 6, VariantID: 5, MinQuantity: 5000, MaxQuantity: 0, UnitPrice: 0.047},
			// Kraft Bag Medium
			{ID: 7, VariantID: 18, MinQuantity: 1, MaxQuantity: 1999, UnitPrice: 0.120},
			{ID: 8, VariantID: 18, MinQuantity: 2000, MaxQuantity: 0, UnitPrice: 0.095},
		},
	}
}
