package notify

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fincorehq/tellerguard/pkg/config"
)

// Mailer sends approval outcome notifications to a fixed set of recipients.
// Delivery is best-effort: failures are logged and never surfaced to the
// approval flow.
type Mailer struct {
	sender     Sender
	recipients []string
	log        *zap.SugaredLogger
}

// NewMailer creates a Mailer from the mail configuration.
func NewMailer(cfg config.Mail, log *zap.SugaredLogger) *Mailer {
	return &Mailer{
		sender:     NewSender(cfg, log),
		recipients: cfg.Recipients,
		log:        log.Named("notify"),
	}
}

// NewMailerWithSender creates a Mailer with an explicit sender.
func NewMailerWithSender(sender Sender, recipients []string, log *zap.SugaredLogger) *Mailer {
	return &Mailer{
		sender:     sender,
		recipients: recipients,
		log:        log.Named("notify"),
	}
}

// ApprovalGranted notifies recipients that an administrator approved a
// destructive operation.
func (m *Mailer) ApprovalGranted(_ context.Context, requester, approver, account, holder string) {
	body, err := RenderApprovalGranted(DecisionMailParams{
		Requester: requester,
		Approver:  approver,
		Account:   account,
		Holder:    holder,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		m.log.Errorw("Failed to render approval granted mail", "error", err)
		return
	}
	subject := fmt.Sprintf("Account closure approved: %s", account)
	m.send(subject, body)
}

// ApprovalDenied notifies recipients that an approval request was denied.
func (m *Mailer) ApprovalDenied(_ context.Context, requester, approver, account, reason string) {
	body, err := RenderApprovalDenied(DecisionMailParams{
		Requester: requester,
		Approver:  approver,
		Account:   account,
		Reason:    reason,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		m.log.Errorw("Failed to render approval denied mail", "error", err)
		return
	}
	subject := fmt.Sprintf("Account closure denied: %s", account)
	m.send(subject, body)
}

func (m *Mailer) send(subject, body string) {
	if len(m.recipients) == 0 {
		m.log.Debugw("No mail recipients configured, skipping notification", "subject", subject)
		return
	}
	if err := m.sender.Send(m.recipients, subject, body); err != nil {
		m.log.Errorw("Failed to send notification mail",
			"subject", subject,
			"recipients", len(m.recipients),
			"error", err)
	}
}
