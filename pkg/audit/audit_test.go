package audit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordingSink struct {
	events []*Event
	err    error
	closed bool
}

func (r *recordingSink) Write(_ context.Context, event *Event) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, event)
	return nil
}

func (r *recordingSink) Close() error { r.closed = true; return nil }
func (r *recordingSink) Name() string { return "recording" }

func TestSeverityForEventKind(t *testing.T) {
	tests := []struct {
		kind             EventKind
		expectedSeverity Severity
	}{
		{EventAccountCreation, SeverityInfo},
		{EventBalanceQuery, SeverityInfo},
		{EventLodgement, SeverityInfo},
		{EventWithdrawal, SeverityInfo},
		{EventAccountClosure, SeverityWarning},
		{EventLoginSuccess, SeveritySuccessAudit},
		{EventApprovalGranted, SeveritySuccessAudit},
		{EventLoginFailure, SeverityFailureAudit},
		{EventApprovalDenied, SeverityFailureAudit},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			assert.Equal(t, tc.expectedSeverity, SeverityForEventKind(tc.kind))
		})
	}
}

func TestTrailComposesEvents(t *testing.T) {
	sink := &recordingSink{}
	trail := NewTrail(sink, zaptest.NewLogger(t))
	ctx := context.Background()

	trail.AccountCreation(ctx, "alice", "ACC001", "Bob Smith")
	trail.AccountClosure(ctx, "alice", "ACC001", "Bob Smith")
	trail.BalanceQuery(ctx, "alice", "ACC001", "Bob Smith")
	trail.Lodgement(ctx, "alice", "ACC001", "Bob Smith", 250.5, "payroll")
	trail.Withdrawal(ctx, "alice", "ACC001", "Bob Smith", 99.999, "")
	trail.LoginSuccess(ctx, "alice", true, false)
	trail.LoginFailure(ctx, "mallory", "invalid credentials")
	trail.ApprovalGranted(ctx, "alice", "carol", "ACC001", "Bob Smith")
	trail.ApprovalDenied(ctx, "alice", "carol", "ACC001", "invalid admin credentials")

	require.Len(t, sink.events, 9)

	kinds := make([]EventKind, 0, len(sink.events))
	for _, e := range sink.events {
		kinds = append(kinds, e.Kind)

		assert.NotEmpty(t, e.ID)
		assert.False(t, e.Timestamp.IsZero())
		assert.Equal(t, SeverityForEventKind(e.Kind), e.Severity)
		assert.NotEmpty(t, e.Enrichment.DeviceFingerprint)
		assert.NotEmpty(t, e.Enrichment.PrincipalIdentifier)
		assert.NotEmpty(t, e.Enrichment.App.Name)
		assert.NotEmpty(t, e.Enrichment.App.Version)
		assert.NotEmpty(t, e.Enrichment.App.Path)
		assert.NotEmpty(t, e.Enrichment.App.SHA256)
	}
	assert.Equal(t, []EventKind{
		EventAccountCreation, EventAccountClosure, EventBalanceQuery,
		EventLodgement, EventWithdrawal, EventLoginSuccess,
		EventLoginFailure, EventApprovalGranted, EventApprovalDenied,
	}, kinds)

	// Event IDs are unique per event.
	seen := map[string]bool{}
	for _, e := range sink.events {
		assert.False(t, seen[e.ID])
		seen[e.ID] = true
	}

	lodgement := sink.events[3]
	require.NotNil(t, lodgement.Amount)
	assert.Equal(t, 250.5, *lodgement.Amount)
	assert.Equal(t, "payroll", lodgement.Reason)

	granted := sink.events[7]
	assert.Equal(t, "alice", granted.Actor)
	assert.Equal(t, "carol", granted.Approver)
	assert.Equal(t, "ACC001", granted.Subject.Account)
	assert.Equal(t, "Bob Smith", granted.Subject.Holder)
}

func TestTrailSinkFailureDoesNotPropagate(t *testing.T) {
	sink := &recordingSink{err: errors.New("broker unreachable")}
	trail := NewTrail(sink, zaptest.NewLogger(t))

	// Must not panic or surface the sink error in any form.
	trail.LoginFailure(context.Background(), "alice", "invalid credentials")
	trail.AccountClosure(context.Background(), "alice", "ACC001", "Bob Smith")
	assert.Empty(t, sink.events)
}

func TestTrailClose(t *testing.T) {
	sink := &recordingSink{}
	trail := NewTrail(sink, zaptest.NewLogger(t))
	require.NoError(t, trail.Close())
	assert.True(t, sink.closed)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "€250.50", formatAmount(250.5))
	assert.Equal(t, "€100.00", formatAmount(100.0))
	assert.Equal(t, "€0.10", formatAmount(0.1))
}

func TestEnrichmentNeverEmpty(t *testing.T) {
	e := enrich()
	assert.NotEmpty(t, e.DeviceFingerprint)
	assert.NotEmpty(t, e.PrincipalIdentifier)
	assert.NotEmpty(t, e.App.Name)
	assert.NotEmpty(t, e.App.Version)
	assert.NotEmpty(t, e.App.Path)
	assert.NotEmpty(t, e.App.SHA256)
}

func TestFileSHA256Unavailable(t *testing.T) {
	digest := fileSHA256("/nonexistent/binary")
	assert.True(t, strings.HasPrefix(digest, "hash unavailable:"))
}

func TestLogSink(t *testing.T) {
	sink := NewLogSink(zaptest.NewLogger(t))
	amount := 10.0
	err := sink.Write(context.Background(), &Event{
		ID:       "test-id",
		Kind:     EventWithdrawal,
		Severity: SeverityInfo,
		Actor:    "alice",
		Subject:  Subject{Account: "ACC001", Holder: "Bob Smith"},
		Amount:   &amount,
	})
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	assert.Equal(t, "log", sink.Name())
}
