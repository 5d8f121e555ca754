package docgen

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/packprint/sales-agent/internal/model"
	"github.com/packprint/sales-agent/pkg/logger"
)

func TestLocalInvoice(t *testing.T) {
	t.Parallel()

	gen, err := NewLocal(t.TempDir(), logger.NewNop())
	require.NoError(t, err)

	details, err := model.EncodeDetails(model.OrderDetails{
		Category:    "Cups",
		ProductType: "Hot Cups",
		Variant:     &model.OrderVariant{ID: 5, Name: "Hot Cup 8oz Double", Size: "8 oz", Kind: "Double Wall"},
		Quantity:    2000,
	})
	require.NoError(t, err)

	order := &model.Order{
		Reference:    "ORD-DOC00001",
		CustomerID:   "whatsapp:+15551003000",
		CustomerName: "Dana",
		Details:      details,
	}

	path, err := gen.Invoice(context.Background(), order)
	require.NoError(t, err)
	require.FileExists(t, path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	require.Contains(t, content, "ORD-DOC00001")
	require.Contains(t, content, "Hot Cup 8oz Double")
	require.Contains(t, content, "Quantity: 2000")
	require.Contains(t, content, "pending management approval")
}

func TestNoopReturnsEmptyPath(t *testing.T) {
	t.Parallel()

	path, err := Noop{}.Invoice(context.Background(), &model.Order{})
	require.NoError(t, err)
	require.Empty(t, path)
}
