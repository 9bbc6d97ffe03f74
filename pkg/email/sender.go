package email

import (
	"context"
	"fmt"
	"regexp"
)

// Sender sends one outbound email message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is the normalized outbound mail shape handed to a transport.
type Message struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
	Tag     string   `json:"tag,omitempty"` // optional, for transport-side analytics
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Validate checks the message is sendable: at least one syntactically valid
// recipient and a non-empty subject.
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return fmt.Errorf("%w: at least one recipient is required", ErrInvalidMessage)
	}
	for _, addr := range m.To {
		if !emailRegex.MatchString(addr) {
			return fmt.Errorf("%w: invalid recipient address %q", ErrInvalidMessage, addr)
		}
	}
	if m.Subject == "" {
		return fmt.Errorf("%w: subject is required", ErrInvalidMessage)
	}
	return nil
}
