// Package session holds per-customer conversational state: the active
// session with its TTL, the cart, open disambiguations, and sub-flow flags.
package session

import (
	"time"

	"tiendabot/internal/catalog"
)

// CartItem is a confirmed line item.
type CartItem struct {
	Item     *catalog.Item
	Quantity int
}

// Pending is a single item awaiting a yes/no confirmation.
type Pending struct {
	Item     *catalog.Item
	Quantity int
}

// Candidates is a ranked list of ambiguous matches awaiting a numeric
// choice, plus the quantity implied by the original message.
type Candidates struct {
	Items    []*catalog.Item
	Quantity int
}

// Subflow tags the temporary mode that intercepts free text before generic
// intent detection. At most one sub-flow is active per session.
type Subflow int

const (
	SubflowNone Subflow = iota
	// SubflowCustomOrder collects free-text data for a quoted custom service.
	SubflowCustomOrder
	// SubflowDeliveryChoice awaits the 1/2 pickup-or-ship answer at checkout.
	SubflowDeliveryChoice
)

// Session is the composite conversational state of one customer.
type Session struct {
	CustomerID  string
	ActiveUntil time.Time

	Items []CartItem

	// pending and candidates are mutually exclusive: only one open
	// disambiguation may exist per customer. Kept unexported so the
	// setters below are the only way to open one.
	pending    *Pending
	candidates *Candidates

	// LastShown remembers the product last presented, for photo requests.
	LastShown *catalog.Item

	Subflow Subflow
	// CustomService names the service SubflowCustomOrder is collecting
	// data for.
	CustomService string
}

// Pending returns the open yes/no confirmation, if any.
func (s *Session) Pending() *Pending { return s.pending }

// Candidates returns the open numeric disambiguation, if any.
func (s *Session) Candidates() *Candidates { return s.candidates }

// SetPending opens a yes/no confirmation, closing any candidate list.
func (s *Session) SetPending(p *Pending) {
	s.pending = p
	s.candidates = nil
}

// SetCandidates opens a numeric disambiguation, closing any pending item.
func (s *Session) SetCandidates(c *Candidates) {
	s.candidates = c
	s.pending = nil
}

// ClearChoices closes both forms of open disambiguation.
func (s *Session) ClearChoices() {
	s.pending = nil
	s.candidates = nil
}

// CartEmpty reports whether the confirmed cart has no items.
func (s *Session) CartEmpty() bool { return len(s.Items) == 0 }
