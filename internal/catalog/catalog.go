// Package catalog provides a read-optimized in-memory index over the seeded
// catalog rows. The catalog is effectively immutable after seeding, so it is
// loaded once at startup and shared read-only across turns.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/packprint/sales-agent/internal/model"
	"github.com/packprint/sales-agent/internal/store"
)

// Index holds catalog rows keyed by id and by parent id.
type Index struct {
	categories  []model.Category
	types       []model.ProductType
	variants    []model.ProductVariant
	accessories []model.Accessory

	categoryByID map[uint]*model.Category
	typeByID     map[uint]*model.ProductType
	variantByID  map[uint]*model.ProductVariant

	typesByCategory map[uint][]model.ProductType
	variantsByType  map[uint][]model.ProductVariant
	tiersByVariant  map[uint][]model.PricingTier
}

// Load reads all catalog rows from the source and builds the index.
func Load(ctx context.Context, src store.CatalogSource) (*Index, error) {
	data, err := src.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	idx := &Index{
		categories:      data.Categories,
		types:           data.Types,
		variants:        data.Variants,
		accessories:     data.Accessories,
		categoryByID:    make(map[uint]*model.Category),
		typeByID:        make(map[uint]*model.ProductType),
		variantByID:     make(map[uint]*model.ProductVariant),
		typesByCategory: make(map[uint][]model.ProductType),
		variantsByType:  make(map[uint][]model.ProductVariant),
		tiersByVariant:  make(map[uint][]model.PricingTier),
	}

	for i := range idx.categories {
		c := &idx.categories[i]
		idx.categoryByID[c.ID] = c
	}
	for i := range idx.types {
		t := &idx.types[i]
		idx.typeByID[t.ID] = t
		idx.typesByCategory[t.CategoryID] = append(idx.typesByCategory[t.CategoryID], *t)
	}
	for i := range idx.variants {
		v := &idx.variants[i]
		idx.variantByID[v.ID] = v
		idx.variantsByType[v.TypeID] = append(idx.variantsByType[v.TypeID], *v)
	}
	for _, tier := range data.Tiers {
		idx.tiersByVariant[tier.VariantID] = append(idx.tiersByVariant[tier.VariantID], tier)
	}

	return idx, nil
}

// Categories lists all categories in stable seed order.
func (idx *Index) Categories() []model.Category {
	return idx.categories
}

// CategoryByID looks up a category.
func (idx *Index) CategoryByID(id uint) (*model.Category, bool) {
	c, ok := idx.categoryByID[id]
	return c, ok
}

// TypeByID looks up a product type.
func (idx *Index) TypeByID(id uint) (*model.ProductType, bool) {
	t, ok := idx.typeByID[id]
	return t, ok
}

// VariantByID looks up a variant.
func (idx *Index) VariantByID(id uint) (*model.ProductVariant, bool) {
	v, ok := idx.variantByID[id]
	return v, ok
}

// TypesByCategory lists types under a category.
func (idx *Index) TypesByCategory(categoryID uint) []model.ProductType {
	return idx.typesByCategory[categoryID]
}

// VariantsByType lists variants under a type.
func (idx *Index) VariantsByType(typeID uint) []model.ProductVariant {
	return idx.variantsByType[typeID]
}

// Accessories lists all add-ons.
func (idx *Index) Accessories() []model.Accessory {
	return idx.accessories
}

// AccessoriesFor lists add-ons whose compatibility tag matches the product
// type name (substring, case-insensitive).
func (idx *Index) AccessoriesFor(typeName string) []model.Accessory {
	needle := strings.ToLower(typeName)
	var out []model.Accessory
	for _, a := range idx.accessories {
		if strings.Contains(needle, strings.ToLower(a.CompatibleWith)) ||
			strings.Contains(strings.ToLower(a.CompatibleWith), needle) {
			out = append(out, a)
		}
	}
	return out
}

// SizeOption is a distinct size with its detail annotation.
type SizeOption struct {
	Size    string
	Details string
}

// DistinctSizes returns the distinct sizes among a type's variants, in
// variant seed order, each annotated with its size details.
func (idx *Index) DistinctSizes(typeID uint) []SizeOption {
	seen := make(map[string]bool)
	var out []SizeOption
	for _, v := range idx.variantsByType[typeID] {
		if v.Size == "" || seen[v.Size] {
			continue
		}
		seen[v.Size] = true
		out = append(out, SizeOption{Size: v.Size, Details: v.SizeDetails})
	}
	return out
}

// DistinctKinds returns the distinct construction kinds among a type's
// variants. An empty result means the variant step is skipped for this type.
func (idx *Index) DistinctKinds(typeID uint) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range idx.variantsByType[typeID] {
		if v.Kind == "" || seen[v.Kind] {
			continue
		}
		seen[v.Kind] = true
		out = append(out, v.Kind)
	}
	return out
}

// FindCategoryByName resolves a free-text category name by substring match
// against display names, case-insensitive. No match returns nil.
func (idx *Index) FindCategoryByName(name string) *model.Category {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	for i := range idx.categories {
		haystack := strings.ToLower(idx.categories[i].Name)
		if strings.Contains(haystack, needle) || strings.Contains(needle, haystack) {
			return &idx.categories[i]
		}
	}
	return nil
}

// FindTypeByName resolves a free-text type name within a category.
func (idx *Index) FindTypeByName(categoryID uint, name string) *model.ProductType {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil
	}
	for _, t := range idx.typesByCategory[categoryID] {
		haystack := strings.ToLower(t.Name)
		if strings.Contains(haystack, needle) || strings.Contains(needle, haystack) {
			match := t
			return &match
		}
	}
	return nil
}

// FindVariant finds the first available variant under a type matching the
// given size and kind, either of which may be empty. First match wins; a
// catalog with duplicate (type, size, kind) triples is a data defect, not a
// runtime error.
func (idx *Index) FindVariant(typeID uint, size, kind string) *model.ProductVariant {
	size = strings.ToLower(strings.TrimSpace(size))
	kind = strings.ToLower(strings.TrimSpace(kind))

	for _, v := range idx.variantsByType[typeID] {
		if !v.Available {
			continue
		}
		if size != "" && !strings.Contains(strings.ToLower(v.Size), size) {
			continue
		}
		if kind != "" && !strings.Contains(strings.ToLower(v.Kind), kind) {
			continue
		}
		match := v
		return &match
	}
	return nil
}

// TiersByVariant returns a variant's pricing tiers ordered by lower bound.
func (idx *Index) TiersByVariant(variantID uint) []model.PricingTier {
	return idx.tiersByVariant[variantID]
}

// ContextBlob renders the whole catalog as a flattened text reference used
// to ground the text interpretation backend.
func (idx *Index) ContextBlob() string {
	var b strings.Builder
	b.WriteString("Product catalog for a restaurant and cafe packaging print shop.\n\n")

	for _, c := range idx.categories {
		fmt.Fprintf(&b, "%s %s — %s\n", c.Icon, c.Name, c.Description)
		for _, t := range idx.typesByCategory[c.ID] {
			if t.Material != "" {
				fmt.Fprintf(&b, "  %s (%s): %s\n", t.Name, t.Material, t.Description)
			} else {
				fmt.Fprintf(&b, "  %s: %s\n", t.Name, t.Description)
			}
			for _, v := range idx.variantsByType[t.ID] {
				fmt.Fprintf(&b, "    - %s", v.Name)
				if v.Size != "" {
					fmt.Fprintf(&b, ", size %s", v.Size)
				}
				if v.SizeDetails != "" {
					fmt.Fprintf(&b, " (%s)", v.SizeDetails)
				}
				if v.Kind != "" {
					fmt.Fprintf(&b, ", %s", v.Kind)
				}
				fmt.Fprintf(&b, ", minimum order %d\n", v.MinQuantity)
			}
		}
		b.WriteString("\n")
	}

	if len(idx.accessories) > 0 {
		b.WriteString("Accessories:\n")
		for _, a := range idx.accessories {
			fmt.Fprintf(&b, "  - %s (for %s): %s\n", a.Name, a.CompatibleWith, a.Description)
		}
	}

	b.WriteString("\nMinimum order quantities vary by product, usually 500-1000 pieces.\n")
	b.WriteString("Delivery takes 7-14 business days depending on quantity.\n")
	b.WriteString("Printing is available on all products; samples available before large orders.\n")
	return b.String()
}
