// Package dialog turns inbound customer messages into replies (or silence)
// by evaluating a fixed-priority rule cascade over the session state.
package dialog

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"tiendabot/internal/catalog"
	"tiendabot/internal/config"
	"tiendabot/internal/match"
	"tiendabot/internal/order"
	"tiendabot/internal/session"
)

// Resolver evaluates the rule cascade. It is safe for concurrent use across
// customers; the caller serializes turns of the same customer.
type Resolver struct {
	cfg      *config.Config
	log      *zap.Logger
	sessions session.Store
	catalog  *catalog.Holder
	orders   order.Recorder
	now      func() time.Time

	rules []rule
}

// rule is one step of the cascade. handle returns the reply (nil for
// silence) and whether the rule fired; once a rule fires, later rules are
// never evaluated.
type rule struct {
	name   string
	handle func(r *Resolver, t *turn) (*Reply, bool)
}

// turn carries one inbound message through the cascade.
type turn struct {
	ctx        context.Context
	customerID string
	raw        string
	text       string // normalized
	ix         *catalog.Index

	// sess is lazily attached: nil until a rule needs state. Rules mutate
	// it freely; the resolver persists it once at the end of the turn.
	sess *session.Session
}

// session returns the live session for this turn, creating one if needed.
func (t *turn) session(r *Resolver) *session.Session {
	if t.sess == nil {
		t.sess = r.sessions.Touch(t.customerID)
	}
	return t.sess
}

// NewResolver wires the cascade.
func NewResolver(cfg *config.Config, log *zap.Logger, sessions session.Store, holder *catalog.Holder, orders order.Recorder) *Resolver {
	r := &Resolver{
		cfg:      cfg,
		log:      log,
		sessions: sessions,
		catalog:  holder,
		orders:   orders,
		now:      time.Now,
	}
	r.rules = []rule{
		{"handoff-active", (*Resolver).handoffActive},
		{"handoff-request", (*Resolver).handoffRequest},
		{"custom-order-data", (*Resolver).customOrderData},
		{"delivery-choice", (*Resolver).deliveryChoice},
		{"candidate-choice", (*Resolver).candidateChoice},
		{"pending-confirm", (*Resolver).pendingConfirm},
		{"custom-service", (*Resolver).customService},
		{"cart-commands", (*Resolver).cartCommands},
		{"info-commands", (*Resolver).infoCommands},
		{"product-search", (*Resolver).productSearch},
		{"photo-request", (*Resolver).photoRequest},
		{"off-topic", (*Resolver).offTopic},
		{"fallback", (*Resolver).fallback},
	}
	return r
}

// SetClock overrides the time source. Test hook.
func (r *Resolver) SetClock(now func() time.Time) { r.now = now }

// Resolve runs one inbound message through the cascade and returns the
// reply, or nil for deliberate silence. It never fails on unrecognized
// input; the cascade always terminates in a reply or silence.
func (r *Resolver) Resolve(ctx context.Context, customerID, rawText string) *Reply {
	t := &turn{
		ctx:        ctx,
		customerID: customerID,
		raw:        strings.TrimSpace(rawText),
		text:       match.Normalize(rawText),
		ix:         r.catalog.Get(),
		sess:       r.sessions.Get(customerID),
	}

	for _, rl := range r.rules {
		reply, fired := rl.handle(r, t)
		if !fired {
			continue
		}
		r.log.Debug("rule fired",
			zap.String("customer", customerID),
			zap.String("rule", rl.name),
			zap.Bool("silent", reply == nil))
		if t.sess != nil {
			r.sessions.Put(t.sess)
		}
		return reply
	}

	// The fallback rule always fires; reaching here means the rule table
	// was mis-assembled. Stay silent rather than crash the engine.
	r.log.Warn("cascade fell through every rule", zap.String("customer", customerID))
	return nil
}
