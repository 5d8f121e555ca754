package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/packprint/sales-agent/internal/model"
)

const (
	// StreamName is the name of the chat log stream.
	StreamName = "CHATLOG"

	// SubjectPrefix is the prefix for all chat log subjects.
	SubjectPrefix = "chatlog"
)

// ChatLogStream publishes chat log entries to JetStream for audit and
// downstream consumers.
type ChatLogStream struct {
	client *Client
}

// NewChatLogStream creates a chat log stream manager.
func NewChatLogStream(client *Client) *ChatLogStream {
	return &ChatLogStream{client: client}
}

// EnsureStream ensures the chat log stream exists with proper configuration.
func (s *ChatLogStream) EnsureStream(ctx context.Context) error {
	js := s.client.JetStream()

	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      365 * 24 * time.Hour,
		MaxBytes:    10 * 1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		Description: "Customer chat transcript, one subject per customer",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// EntrySubject returns the subject for one customer's entries. Phone-style
// identifiers are sanitized to stay within NATS subject grammar.
func EntrySubject(customerID string, dir model.ChatDirection) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			return r
		default:
			return '_'
		}
	}, customerID)
	return fmt.Sprintf("%s.%s.%s", SubjectPrefix, clean, dir)
}

// Publish publishes one chat log entry.
func (s *ChatLogStream) Publish(ctx context.Context, entry *model.ChatLog) (uint64, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal chat log entry: %w", err)
	}

	ack, err := s.client.JetStream().Publish(ctx, EntrySubject(entry.CustomerID, entry.Direction), data)
	if err != nil {
		return 0, fmt.Errorf("failed to publish chat log entry: %w", err)
	}
	return ack.Sequence, nil
}
