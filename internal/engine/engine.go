// Package engine connects the transport to the dialogue resolver. It
// enforces the concurrency model: turns of the same customer run strictly
// sequentially, different customers run freely in parallel.
package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"tiendabot/internal/catalog"
	"tiendabot/internal/config"
	"tiendabot/internal/dialog"
	"tiendabot/internal/session"
	"tiendabot/internal/transport"
)

// Engine processes inbound messages and dispatches replies.
type Engine struct {
	cfg      *config.Config
	log      *zap.Logger
	sessions *session.MemoryStore
	holder   *catalog.Holder
	resolver *dialog.Resolver
	sender   transport.Sender

	startedAt time.Time

	mu    sync.Mutex
	locks map[string]*customerLock
}

// customerLock serializes one customer's turns. refs counts holders and
// waiters so the map entry can be dropped once the customer goes idle.
type customerLock struct {
	mu   sync.Mutex
	refs int
}

// New wires an engine. startedAt guards against a delivery backlog being
// replayed as live traffic after a restart.
func New(cfg *config.Config, log *zap.Logger, sessions *session.MemoryStore, holder *catalog.Holder, resolver *dialog.Resolver, sender transport.Sender) *Engine {
	return &Engine{
		cfg:       cfg,
		log:       log,
		sessions:  sessions,
		holder:    holder,
		resolver:  resolver,
		sender:    sender,
		startedAt: time.Now(),
		locks:     make(map[string]*customerLock),
	}
}

// SetStartedAt overrides the startup timestamp. Test hook.
func (e *Engine) SetStartedAt(t time.Time) { e.startedAt = t }

// acquire takes the per-customer mutex, creating the entry on first contact.
func (e *Engine) acquire(customerID string) *customerLock {
	e.mu.Lock()
	l, ok := e.locks[customerID]
	if !ok {
		l = &customerLock{}
		e.locks[customerID] = l
	}
	l.refs++
	e.mu.Unlock()

	l.mu.Lock()
	return l
}

// release unlocks and evicts the map entry once nobody holds or waits on it,
// so the lock table does not grow with every customer ever seen.
func (e *Engine) release(customerID string, l *customerLock) {
	l.mu.Unlock()
	e.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(e.locks, customerID)
	}
	e.mu.Unlock()
}

// HandleInbound runs one inbound message through the resolver and sends the
// reply, if any. A panic while resolving aborts only this turn; the engine
// keeps serving other customers.
func (e *Engine) HandleInbound(ctx context.Context, in transport.Inbound) {
	if in.Timestamp.Before(e.startedAt) {
		e.log.Debug("dropping backlog message",
			zap.String("customer", in.CustomerID),
			zap.Time("timestamp", in.Timestamp))
		return
	}
	if in.Text == "" {
		// Media-only messages carry nothing the resolver can act on.
		return
	}

	lock := e.acquire(in.CustomerID)
	defer e.release(in.CustomerID, lock)

	defer func() {
		if r := recover(); r != nil {
			e.log.Error("turn aborted by panic",
				zap.String("customer", in.CustomerID),
				zap.Any("panic", r))
		}
	}()

	if in.FromOwner {
		e.handleOwner(ctx, in)
		return
	}

	reply := e.resolver.Resolve(ctx, in.CustomerID, in.Text)
	if reply == nil {
		return
	}
	e.deliver(ctx, in.CustomerID, reply)
}

// handleOwner processes owner-authored messages in a customer's chat. The
// only owner command is the handoff release; every other owner message is a
// manual human reply the bot must stay out of.
func (e *Engine) handleOwner(ctx context.Context, in transport.Inbound) {
	if !strings.EqualFold(strings.TrimSpace(in.Text), e.cfg.WhatsApp.ResumeCommand) {
		return
	}
	e.sessions.ReleaseHandoff(in.CustomerID)
	e.log.Info("handoff released by owner", zap.String("customer", in.CustomerID))
	if err := e.sender.SendText(ctx, in.CustomerID, "Listo, retomo yo la conversación 🤖"); err != nil {
		e.log.Error("send failed", zap.String("customer", in.CustomerID), zap.Error(err))
	}
}

func (e *Engine) deliver(ctx context.Context, customerID string, reply *dialog.Reply) {
	if reply.ImageURL != "" {
		if err := e.sender.SendImage(ctx, customerID, reply.ImageURL, reply.ImageCaption); err != nil {
			e.log.Warn("image send failed, falling back to caption",
				zap.String("customer", customerID), zap.Error(err))
			_ = e.sender.SendText(ctx, customerID, reply.ImageCaption)
		}
		return
	}
	if err := e.sender.SendText(ctx, customerID, reply.Text); err != nil {
		e.log.Error("send failed", zap.String("customer", customerID), zap.Error(err))
	}
}

// Run drives the engine's background work: the catalog watcher, the session
// sweeper, and the transport listener. Blocks until ctx is cancelled or a
// component fails.
func (e *Engine) Run(ctx context.Context, listen func(context.Context, transport.Handler) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return catalog.Watch(ctx, e.log, e.cfg.Catalog.Path, e.cfg.Matching.FuzzyThreshold, e.holder)
	})
	g.Go(func() error {
		e.sessions.Sweep(ctx, e.cfg.SweepInterval())
		return nil
	})
	g.Go(func() error {
		return listen(ctx, e.HandleInbound)
	})
	return g.Wait()
}
