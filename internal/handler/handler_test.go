package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/packprint/sales-agent/internal/catalog"
	"github.com/packprint/sales-agent/internal/dispatch"
	"github.com/packprint/sales-agent/internal/docgen"
	"github.com/packprint/sales-agent/internal/engine"
	"github.com/packprint/sales-agent/internal/interp"
	"github.com/packprint/sales-agent/internal/model"
	"github.com/packprint/sales-agent/internal/store"
	"github.com/packprint/sales-agent/pkg/logger"
)

type fixture struct {
	mem        *store.Memory
	router     chi.Router
	dispatcher *dispatch.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mem := store.NewMemory(nil)
	idx, err := catalog.Load(context.Background(), mem)
	require.NoError(t, err)

	log := logger.NewNop()
	eng := engine.New(mem, mem, mem, idx, interp.Fallback{}, docgen.Noop{}, nil, log)

	dispatcher := dispatch.New(func(ctx context.Context, customerID, message string) {
		_, _ = eng.HandleTurn(ctx, customerID, message)
	}, log)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = dispatcher.Shutdown(ctx)
	})

	webhookHandler := NewWebhookHandler(dispatcher, log)
	catalogHandler := NewCatalogHandler(idx)
	orderHandler := NewOrderHandler(mem, idx, eng, log)

	r := chi.NewRouter()
	r.Post("/webhook", webhookHandler.Receive)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/catalog/categories", catalogHandler.Categories)
		r.Get("/catalog/categories/{id}/types", catalogHandler.Types)
		r.Get("/catalog/types/{id}/variants", catalogHandler.Variants)
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.List)
			r.Post("/{id}/decision", orderHandler.Decision)
			r.Post("/{id}/payment", orderHandler.Payment)
			r.Post("/{id}/payment-link", orderHandler.PaymentLink)
		})
		r.Get("/simulate/{message}", orderHandler.Simulate)
	})

	return &fixture{mem: mem, router: r, dispatcher: dispatcher}
}

func (f *fixture) do(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) seedOrder(t *testing.T, quantity int) *model.Order {
	t.Helper()
	details, err := model.EncodeDetails(model.OrderDetails{
		Category:    "Cups",
		ProductType: "Hot Cups",
		Variant:     &model.OrderVariant{ID: 2, Name: "Hot Cup 8oz Single", Size: "8 oz", Kind: "Single Wall"},
		Quantity:    quantity,
	})
	require.NoError(t, err)

	order := &model.Order{
		Reference:    "ORD-SEEDED01",
		CustomerID:   "whatsapp:+15551002000",
		CustomerName: "Dana",
		Details:      details,
		Status:       model.OrderStatusPendingApproval,
	}
	require.NoError(t, f.mem.Create(context.Background(), order))
	return order
}

func TestWebhookAcksImmediately(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	form := url.Values{}
	form.Set("From", "whatsapp:+15551001000")
	form.Set("Body", "hello")

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "received", resp["status"])
}

func TestWebhookRejectsBadInput(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	cases := []struct {
		name string
		from string
		body string
	}{
		{"missing sender", "", "hello"},
		{"non-numeric sender", "whatsapp:+not-a-number", "hello"},
		{"empty body", "whatsapp:+15551001001", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := url.Values{}
			form.Set("From", tc.from)
			form.Set("Body", tc.body)

			req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			rec := httptest.NewRecorder()
			f.router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCatalogEndpoints(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/catalog/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Paper Bags")

	rec = f.do(t, http.MethodGet, "/api/v1/catalog/categories/1/types", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Hot Cups")

	rec = f.do(t, http.MethodGet, "/api/v1/catalog/categories/999/types", "")
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/catalog/types/1/variants", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Hot Cup 8oz Double")
}

func TestDecisionApproveComputesTotalFromTiers(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	order := f.seedOrder(t, 2000)

	rec := f.do(t, http.MethodPost, "/api/v1/orders/1/decision", `{"has_capacity":true,"estimated_days":10}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, model.OrderStatusApprovedWaitingPayment, updated.Status)
	// 2000 pieces at the 1000-4999 tier price of 0.038.
	require.InDelta(t, 76.0, *updated.TotalAmount, 1e-6)
	require.Equal(t, order.Reference, updated.Reference)
}

func TestDecisionIsOneShotOverHTTP(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.seedOrder(t, 2000)

	rec := f.do(t, http.MethodPost, "/api/v1/orders/1/decision", `{"has_capacity":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/orders/1/decision", `{"has_capacity":true,"approved_amount":50}`)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestDecisionValidation(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.seedOrder(t, 2000)

	rec := f.do(t, http.MethodPost, "/api/v1/orders/1/decision", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/orders/999/decision", `{"has_capacity":false}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPaymentFlow(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	order := f.seedOrder(t, 2000)

	rec := f.do(t, http.MethodPost, "/api/v1/orders/1/payment-link", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), order.Reference)

	rec = f.do(t, http.MethodPost, "/api/v1/orders/1/payment", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, model.OrderStatusPaid, updated.Status)
	require.NotNil(t, updated.PaidAt)
}

func TestOrderList(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.seedOrder(t, 2000)

	rec := f.do(t, http.MethodGet, "/api/v1/orders/?status=PendingApproval", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "ORD-SEEDED01")

	rec = f.do(t, http.MethodGet, "/api/v1/orders/?status=Paid", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"count":0`)
}

func TestSimulate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/simulate/hello", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "greeting")
	require.Contains(t, rec.Body.String(), "Welcome")
}
