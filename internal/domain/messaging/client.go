package messaging

import (
	"context"
	"fmt"
)

// SendResult holds the channel's acknowledgement of an accepted message.
type SendResult struct {
	MessageID string
	Status    string
}

// ChannelError is a typed failure reported by the outbound channel.
type ChannelError struct {
	Code    int
	Status  int
	Message string
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("messaging channel error (status %d, code %d): %s", e.Status, e.Code, e.Message)
}

// Client defines an interface for sending a text message to a phone-addressed
// destination. This decouples the dispatch engine from the concrete provider
// library.
type Client interface {
	Send(ctx context.Context, toPhone string, body string) (*SendResult, error)
}
