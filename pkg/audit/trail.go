package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fincorehq/tellerguard/pkg/metrics"
)

// Trail composes enriched audit events and appends them to a sink. Logging
// failure is never fatal to the caller's operation: when the sink rejects an
// entry the full event is emitted on the local diagnostic logger instead.
type Trail struct {
	sink   Sink
	logger *zap.Logger
}

// NewTrail creates a Trail writing to the given sink.
func NewTrail(sink Sink, logger *zap.Logger) *Trail {
	return &Trail{sink: sink, logger: logger.Named("audit-trail")}
}

func formatAmount(amount float64) string {
	return fmt.Sprintf("€%.2f", amount)
}

func (t *Trail) record(ctx context.Context, event *Event) {
	event.ID = uuid.NewString()
	event.Severity = SeverityForEventKind(event.Kind)
	event.Timestamp = time.Now()
	event.Enrichment = enrich()

	metrics.AuditEventsEmitted.WithLabelValues(string(event.Kind)).Inc()

	if err := t.sink.Write(ctx, event); err != nil {
		metrics.AuditFallbackWrites.Inc()
		t.logger.Warn("audit sink unavailable, falling back to diagnostic log",
			zap.String("sink", t.sink.Name()),
			zap.String("error", err.Error()))
		t.logger.Info("audit_event_fallback", eventFields(event)...)
	}
}

// AccountCreation records a new account opened by a teller.
func (t *Trail) AccountCreation(ctx context.Context, teller, account, holder string) {
	t.record(ctx, &Event{
		Kind:    EventAccountCreation,
		Actor:   teller,
		Subject: Subject{Account: account, Holder: holder},
	})
}

// AccountClosure records a destructive account closure.
func (t *Trail) AccountClosure(ctx context.Context, teller, account, holder string) {
	t.record(ctx, &Event{
		Kind:    EventAccountClosure,
		Actor:   teller,
		Subject: Subject{Account: account, Holder: holder},
	})
}

// BalanceQuery records a balance lookup.
func (t *Trail) BalanceQuery(ctx context.Context, teller, account, holder string) {
	t.record(ctx, &Event{
		Kind:    EventBalanceQuery,
		Actor:   teller,
		Subject: Subject{Account: account, Holder: holder},
	})
}

// Lodgement records money lodged to an account. reason may be empty.
func (t *Trail) Lodgement(ctx context.Context, teller, account, holder string, amount float64, reason string) {
	t.record(ctx, &Event{
		Kind:    EventLodgement,
		Actor:   teller,
		Subject: Subject{Account: account, Holder: holder},
		Amount:  &amount,
		Reason:  reason,
	})
}

// Withdrawal records money withdrawn from an account. reason may be empty.
func (t *Trail) Withdrawal(ctx context.Context, teller, account, holder string, amount float64, reason string) {
	t.record(ctx, &Event{
		Kind:    EventWithdrawal,
		Actor:   teller,
		Subject: Subject{Account: account, Holder: holder},
		Amount:  &amount,
		Reason:  reason,
	})
}

// LoginSuccess records a successful authentication with the resolved roles.
func (t *Trail) LoginSuccess(ctx context.Context, username string, teller, administrator bool) {
	t.record(ctx, &Event{
		Kind:   EventLoginSuccess,
		Actor:  username,
		Reason: fmt.Sprintf("roles: teller=%t administrator=%t", teller, administrator),
	})
}

// LoginFailure records a failed authentication attempt with its reason.
func (t *Trail) LoginFailure(ctx context.Context, username, reason string) {
	t.record(ctx, &Event{
		Kind:   EventLoginFailure,
		Actor:  username,
		Reason: reason,
	})
}

// ApprovalGranted records a granted dual-control approval.
func (t *Trail) ApprovalGranted(ctx context.Context, requester, approver, account, holder string) {
	t.record(ctx, &Event{
		Kind:     EventApprovalGranted,
		Actor:    requester,
		Approver: approver,
		Subject:  Subject{Account: account, Holder: holder},
	})
}

// ApprovalDenied records a denied dual-control approval with its reason.
func (t *Trail) ApprovalDenied(ctx context.Context, requester, approver, account, reason string) {
	t.record(ctx, &Event{
		Kind:     EventApprovalDenied,
		Actor:    requester,
		Approver: approver,
		Subject:  Subject{Account: account},
		Reason:   reason,
	})
}

// Close releases the underlying sink.
func (t *Trail) Close() error {
	return t.sink.Close()
}
