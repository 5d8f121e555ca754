// Package handler provides HTTP handlers for the API.
package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/packprint/sales-agent/internal/dispatch"
	"github.com/packprint/sales-agent/internal/middleware"
	"github.com/packprint/sales-agent/pkg/logger"
)

// WebhookHandler receives inbound WhatsApp messages.
type WebhookHandler struct {
	dispatcher *dispatch.Dispatcher
	logger     *logger.Logger
}

// NewWebhookHandler creates a new webhook handler.
func NewWebhookHandler(d *dispatch.Dispatcher, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		dispatcher: d,
		logger:     log,
	}
}

// Receive handles POST /webhook. The message is acknowledged immediately and
// processed asynchronously; the reply goes out through the messaging
// collaborator, never through this response.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request) {
	body := r.PostFormValue("Body")
	from := r.PostFormValue("From")

	if err := middleware.ValidateSender(from); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateMessageContent(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.dispatcher.Enqueue(from, body) {
		writeError(w, http.StatusServiceUnavailable, "shutting down")
		return
	}

	h.logger.Debug("webhook message queued",
		zap.String("from", from),
		zap.Int("length", len(body)))

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "received",
	})
}
