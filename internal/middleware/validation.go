package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ValidateMessageContent validates an inbound message body.
func ValidateMessageContent(content string) error {
	if len(content) == 0 {
		return errors.New("message cannot be empty")
	}
	if len(content) > 4096 {
		return errors.New("message exceeds maximum length")
	}
	if !utf8.ValidString(content) {
		return errors.New("message must be valid UTF-8")
	}
	return nil
}

// ValidateSender validates a WhatsApp-style sender identifier, with or
// without the "whatsapp:" prefix.
func ValidateSender(from string) error {
	if from == "" {
		return errors.New("sender cannot be empty")
	}
	number := strings.TrimPrefix(from, "whatsapp:")
	number = strings.TrimPrefix(number, "+")
	if len(number) < 7 || len(number) > 20 {
		return errors.New("invalid sender number length")
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return errors.New("sender number must be digits")
		}
	}
	return nil
}
