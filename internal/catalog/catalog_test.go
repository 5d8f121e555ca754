package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/packprint/sales-agent/internal/store"
)

func loadIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Load(context.Background(), store.NewMemory(nil))
	require.NoError(t, err)
	return idx
}

func TestLoadBuildsIndex(t *testing.T) {
	t.Parallel()
	idx := loadIndex(t)

	cats := idx.Categories()
	require.Len(t, cats, 5)
	require.Equal(t, "Cups", cats[0].Name)

	types := idx.TypesByCategory(cats[0].ID)
	require.NotEmpty(t, types)
	require.Equal(t, "Hot Cups", types[0].Name)

	require.NotEmpty(t, idx.VariantsByType(types[0].ID))
	require.NotEmpty(t, idx.Accessories())
}

func TestFindCategoryByName(t *testing.T) {
	t.Parallel()
	idx := loadIndex(t)

	require.NotNil(t, idx.FindCategoryByName("cups"))
	require.NotNil(t, idx.FindCategoryByName("Paper Bags"))
	// Substring matching works in both directions.
	require.NotNil(t, idx.FindCategoryByName("bags"))
	require.Nil(t, idx.FindCategoryByName("submarines"))
	require.Nil(t, idx.FindCategoryByName(""))
}

func TestDistinctSizesAndKinds(t *testing.T) {
	t.Parallel()
	idx := loadIndex(t)

	hotCups := idx.FindTypeByName(1, "Hot Cups")
	require.NotNil(t, hotCups)

	sizes := idx.DistinctSizes(hotCups.ID)
	require.Equal(t, []string{"4 oz", "8 oz", "12 oz", "16 oz"}, sizeNames(sizes))

	kinds := idx.DistinctKinds(hotCups.ID)
	require.Equal(t, []string{"Single Wall", "Double Wall", "Ripple Wall"}, kinds)
}

func TestDistinctKindsEmptyMeansSkip(t *testing.T) {
	t.Parallel()
	idx := loadIndex(t)

	burgers := idx.FindTypeByName(3, "Burger Boxes")
	require.NotNil(t, burgers)
	require.Empty(t, idx.DistinctKinds(burgers.ID))
	require.NotEmpty(t, idx.DistinctSizes(burgers.ID))
}

func TestFindVariant(t *testing.T) {
	t.Parallel()
	idx := loadIndex(t)

	hotCups := idx.FindTypeByName(1, "Hot Cups")
	require.NotNil(t, hotCups)

	v := idx.FindVariant(hotCups.ID, "8 oz", "Double Wall")
	require.NotNil(t, v)
	require.Equal(t, "Hot Cup 8oz Double", v.Name)

	// Size alone resolves to the earliest seeded match.
	v = idx.FindVariant(hotCups.ID, "8 oz", "")
	require.NotNil(t, v)
	require.Equal(t, "Hot Cup 8oz Single", v.Name)

	require.Nil(t, idx.FindVariant(hotCups.ID, "99 oz", ""))
}

func TestContextBlobMentionsWholeCatalog(t *testing.T) {
	t.Parallel()
	idx := loadIndex(t)

	blob := idx.ContextBlob()
	require.Contains(t, blob, "Cups")
	require.Contains(t, blob, "Kraft Bags")
	require.Contains(t, blob, "Pizza Box 30cm")
	require.Contains(t, blob, "Accessories:")
}

func sizeNames(opts []SizeOption) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Size
	}
	return out
}
