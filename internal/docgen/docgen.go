// Package docgen renders order paperwork. Invoice generation is best-effort:
// a failed render never blocks order creation.
package docgen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/packprint/sales-agent/internal/model"
	"github.com/packprint/sales-agent/pkg/logger"
)

// Generator renders an invoice document for an order and returns the path of
// the written file.
type Generator interface {
	Invoice(ctx context.Context, order *model.Order) (string, error)
}

// Local writes plain-text invoices under a local directory.
type Local struct {
	dir    string
	logger *logger.Logger
}

// NewLocal builds a Local generator rooted at dir, creating it if needed.
func NewLocal(dir string, log *logger.Logger) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create invoice directory: %w", err)
	}
	return &Local{dir: dir, logger: log}, nil
}

func (l *Local) Invoice(ctx context.Context, order *model.Order) (string, error) {
	details, err := order.DecodeDetails()
	if err != nil {
		return "", fmt.Errorf("failed to decode order details: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INVOICE %s\n", order.Reference)
	fmt.Fprintf(&b, "Date: %s\n", time.Now().Format("2006-01-02"))
	fmt.Fprintf(&b, "Customer: %s (%s)\n\n", order.CustomerName, order.CustomerID)

	fmt.Fprintf(&b, "Product: %s", details.ProductType)
	if details.Category != "" {
		fmt.Fprintf(&b, " (%s)", details.Category)
	}
	b.WriteString("\n")
	if details.Variant != nil {
		fmt.Fprintf(&b, "Item: %s\n", details.Variant.Name)
		if details.Variant.Size != "" {
			fmt.Fprintf(&b, "Size: %s\n", details.Variant.Size)
		}
		if details.Variant.Kind != "" {
			fmt.Fprintf(&b, "Kind: %s\n", details.Variant.Kind)
		}
	}
	fmt.Fprintf(&b, "Quantity: %d\n", details.Quantity)
	for _, acc := range details.Accessories {
		fmt.Fprintf(&b, "Accessory: %s x%d\n", acc.Name, acc.Quantity)
	}
	if details.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", details.Notes)
	}
	if order.TotalAmount != nil {
		fmt.Fprintf(&b, "\nTotal: %.2f\n", *order.TotalAmount)
	} else {
		b.WriteString("\nTotal: pending management approval\n")
	}

	path := filepath.Join(l.dir, fmt.Sprintf("invoice-%s.txt", order.Reference))
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write invoice: %w", err)
	}

	l.logger.Info("invoice generated",
		zap.String("reference", order.Reference),
		zap.String("path", path))
	return path, nil
}

// Noop discards invoice requests. Used when no invoice directory is
// configured.
type Noop struct{}

func (Noop) Invoice(ctx context.Context, order *model.Order) (string, error) {
	return "", nil
}
