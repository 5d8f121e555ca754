// Package chatlog fans chat transcript entries out to the durable store and
// the JetStream audit stream. Recording happens off the turn's critical
// path; failures are counted and logged, never propagated.
package chatlog

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/packprint/sales-agent/internal/model"
	natsx "github.com/packprint/sales-agent/internal/nats"
	"github.com/packprint/sales-agent/internal/store"
	"github.com/packprint/sales-agent/pkg/logger"
	"github.com/packprint/sales-agent/pkg/metrics"
)

const recordTimeout = 5 * time.Second

// Sink writes chat log entries to the configured destinations. Either
// destination may be nil.
type Sink struct {
	store  store.ChatLogStore
	stream *natsx.ChatLogStream
	logger *logger.Logger
}

func NewSink(st store.ChatLogStore, stream *natsx.ChatLogStream, log *logger.Logger) *Sink {
	return &Sink{store: st, stream: stream, logger: log}
}

// Record appends the entry asynchronously. The passed context is not used
// for the write so that a finished turn cannot cancel it.
func (s *Sink) Record(_ context.Context, entry *model.ChatLog) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
		defer cancel()

		if s.store != nil {
			if err := s.store.Append(ctx, entry); err != nil {
				s.logger.Warn("failed to store chat log entry",
					zap.String("customer_id", entry.CustomerID),
					zap.Error(err))
			}
		}
		if s.stream != nil {
			if _, err := s.stream.Publish(ctx, entry); err != nil {
				metrics.ChatLogPublishTotal.WithLabelValues("error").Inc()
				s.logger.Warn("failed to publish chat log entry",
					zap.String("customer_id", entry.CustomerID),
					zap.Error(err))
				return
			}
			metrics.ChatLogPublishTotal.WithLabelValues("ok").Inc()
		}
	}()
}
