package audit

import (
	"time"
)

// EventKind identifies the security-relevant action an audit event records.
type EventKind string

const (
	// === Financial transaction events ===
	EventAccountCreation EventKind = "account.created"
	EventAccountClosure  EventKind = "account.closed"
	EventBalanceQuery    EventKind = "balance.queried"
	EventLodgement       EventKind = "funds.lodged"
	EventWithdrawal      EventKind = "funds.withdrawn"

	// === Authentication events ===
	EventLoginSuccess EventKind = "login.success"
	EventLoginFailure EventKind = "login.failure"

	// === Dual-control approval events ===
	EventApprovalGranted EventKind = "approval.granted"
	EventApprovalDenied  EventKind = "approval.denied"
)

// Severity categorizes an event's security meaning in the trail.
type Severity string

const (
	// SeverityInfo marks routine successful business transactions.
	SeverityInfo Severity = "info"
	// SeverityWarning marks destructive operations that completed.
	SeverityWarning Severity = "warning"
	// SeveritySuccessAudit marks successful authentication and approval outcomes.
	SeveritySuccessAudit Severity = "success-audit"
	// SeverityFailureAudit marks failed authentication and approval outcomes.
	SeverityFailureAudit Severity = "failure-audit"
)

// SeverityForEventKind returns the severity an event kind is written with.
func SeverityForEventKind(kind EventKind) Severity {
	switch kind {
	case EventAccountClosure:
		return SeverityWarning
	case EventLoginSuccess, EventApprovalGranted:
		return SeveritySuccessAudit
	case EventLoginFailure, EventApprovalDenied:
		return SeverityFailureAudit
	default:
		return SeverityInfo
	}
}

// Subject identifies the bank account an event concerns, when it concerns one.
type Subject struct {
	// Account is the account number.
	Account string `json:"account,omitempty"`

	// Holder is the account holder's name.
	Holder string `json:"holder,omitempty"`
}

// AppIntegrity carries the application integrity metadata recorded per event
// to detect tampering with the deployed executable. Fields hold placeholder
// text when resolution fails; they are never empty.
type AppIntegrity struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Path    string `json:"path"`
	SHA256  string `json:"sha256"`
}

// Enrichment is the forensic context attached to every audit event.
type Enrichment struct {
	// DeviceFingerprint is the MAC address of the first operational
	// non-loopback network interface, or a placeholder naming the failure.
	DeviceFingerprint string `json:"deviceFingerprint"`

	// PrincipalIdentifier is the host OS identity running the process,
	// or a placeholder naming the failure.
	PrincipalIdentifier string `json:"principalIdentifier"`

	// App is the integrity metadata of the running binary.
	App AppIntegrity `json:"app"`
}

// Event is a single immutable audit trail entry. Events are created exactly
// once per security-relevant action and never mutated afterwards; retention
// is owned by the sink.
type Event struct {
	// ID is a unique identifier for this event.
	ID string `json:"id"`

	// Kind is the action this event records.
	Kind EventKind `json:"kind"`

	// Severity matches the event's security meaning.
	Severity Severity `json:"severity"`

	// Timestamp is the local time the event was composed.
	Timestamp time.Time `json:"timestamp"`

	// Actor is the authenticated principal performing the action.
	Actor string `json:"actor"`

	// Subject is the affected account, when the action concerns one.
	Subject Subject `json:"subject,omitempty"`

	// Amount is the transaction amount for lodgements and withdrawals.
	Amount *float64 `json:"amount,omitempty"`

	// Reason is free text: the failure reason for denied logins and
	// approvals, or an optional transaction note.
	Reason string `json:"reason,omitempty"`

	// Approver is the second principal for approval events.
	Approver string `json:"approver,omitempty"`

	// Enrichment is always populated, with placeholders on partial
	// environmental failure.
	Enrichment Enrichment `json:"enrichment"`
}
