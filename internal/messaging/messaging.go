// Package messaging delivers outbound replies to customers.
package messaging

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"

	"github.com/packprint/sales-agent/pkg/logger"
	"github.com/packprint/sales-agent/pkg/metrics"
)

// Sender delivers one message to a customer identifier.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// messageCreator is the slice of the Twilio REST client the sender needs.
type messageCreator interface {
	CreateMessage(params *twilioapi.CreateMessageParams) (*twilioapi.ApiV2010Message, error)
}

// Twilio sends WhatsApp messages through the Twilio REST API.
type Twilio struct {
	api    messageCreator
	from   string
	logger *logger.Logger
}

// NewTwilio builds a Twilio sender. from is the bot's WhatsApp number in
// "whatsapp:+NNN" form.
func NewTwilio(accountSID, authToken, from string, log *logger.Logger) *Twilio {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &Twilio{
		api:    client.Api,
		from:   from,
		logger: log,
	}
}

func (t *Twilio) Send(ctx context.Context, to, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(to)
	params.SetBody(body)

	msg, err := t.api.CreateMessage(params)
	if err != nil {
		metrics.MessagesSentTotal.WithLabelValues("error").Inc()
		t.logger.Error("twilio rejected message",
			zap.String("to", to),
			zap.Error(err))
		return fmt.Errorf("twilio send failed: %w", err)
	}

	metrics.MessagesSentTotal.WithLabelValues("ok").Inc()
	if msg.Sid != nil {
		t.logger.Debug("message delivered", zap.String("sid", *msg.Sid))
	}
	return nil
}

// Simulator logs outbound messages instead of delivering them. Used in
// development and by the simulation endpoint.
type Simulator struct {
	logger *logger.Logger
}

func NewSimulator(log *logger.Logger) *Simulator {
	return &Simulator{logger: log}
}

func (s *Simulator) Send(ctx context.Context, to, body string) error {
	s.logger.Info("simulated outbound message",
		zap.String("to", to),
		zap.String("body", body))
	metrics.MessagesSentTotal.WithLabelValues("simulated").Inc()
	return nil
}
