package service

import (
	"context"
	"log/slog"

	"github.com/alexanderramin/agora/internal/db"
	"github.com/alexanderramin/agora/internal/domain"
	"github.com/alexanderramin/agora/internal/repository"
)

// Notifier receives governance events once the transaction that produced
// them has committed. Delivery is fire-and-forget: a notifier cannot fail
// the operation that emitted the event.
type Notifier interface {
	Notify(ctx context.Context, e domain.Event)
}

// NoopNotifier drops every event.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, domain.Event) {}

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier writes one structured record per event. A nil logger falls
// back to slog.Default.
func NewLogNotifier(logger *slog.Logger) Notifier {
	return &logNotifier{logger: ResolveLogger(logger)}
}

func (n *logNotifier) Notify(ctx context.Context, e domain.Event) {
	attrs := []any{
		"event_id", e.ID,
		"kind", string(e.Kind),
		"dao_id", e.DAOID,
	}
	if e.ProposalID != "" {
		attrs = append(attrs, "proposal_id", e.ProposalID)
	}
	if e.Name != "" {
		attrs = append(attrs, "name", e.Name)
	}
	if e.Actor != "" {
		attrs = append(attrs, "actor", e.Actor)
	}
	if e.VoteType != "" {
		attrs = append(attrs, "vote_type", string(e.VoteType))
	}
	if e.Status != "" {
		attrs = append(attrs, "status", string(e.Status))
	}
	if e.Amount > 0 {
		attrs = append(attrs, "amount", e.Amount.String())
	}
	attrs = append(attrs, "at_ms", e.At.UnixMilli())
	n.logger.InfoContext(ctx, "governance_event", attrs...)
}

// MultiNotifier fans each event out to every notifier in order.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, e domain.Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, e)
		}
	}
}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return NoopNotifier{}
	}
	return n
}

// outbox stages events inside a transaction. Each event is written to the
// governance_events table through tx, so it commits or rolls back together
// with the change it describes; flush hands the committed events to the
// notifier.
type outbox struct {
	events []domain.Event
}

func (o *outbox) add(ctx context.Context, tx db.DBTX, e domain.Event) error {
	if err := repository.NewSQLiteEventRepo(tx).Append(ctx, e); err != nil {
		return err
	}
	o.events = append(o.events, e)
	return nil
}

func (o *outbox) flush(ctx context.Context, n Notifier) {
	for _, e := range o.events {
		n.Notify(ctx, e)
	}
	o.events = nil
}

// ResolveLogger returns logger, or slog.Default when logger is nil.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
