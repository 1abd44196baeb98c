// Package transport carries messages between the dialogue engine and
// WhatsApp. The engine only sees the Sender and Inbound types; whatsmeow
// stays behind this boundary.
package transport

import (
	"context"
	"time"
)

// Inbound is one customer message delivered to the engine. FromOwner marks
// messages authored by the store owner (the account itself or the configured
// owner JID); only those may carry owner commands.
type Inbound struct {
	CustomerID    string
	Text          string
	HasAttachment bool
	FromOwner     bool
	Timestamp     time.Time
}

// Handler consumes inbound messages.
type Handler func(ctx context.Context, in Inbound)

// Sender delivers outbound messages. Fire-and-forget from the engine's
// perspective; delivery retries are the transport's concern.
type Sender interface {
	SendText(ctx context.Context, customerID, text string) error
	SendImage(ctx context.Context, customerID, imageURL, caption string) error
}
