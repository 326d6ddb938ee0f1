package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tellerguard_login_attempts_total",
		Help: "Total number of authentication attempts grouped by outcome and failure reason",
	}, []string{"outcome", "reason"})
	ApprovalDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tellerguard_approval_decisions_total",
		Help: "Total number of dual-control approval decisions grouped by outcome",
	}, []string{"outcome"})
	AuditEventsEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tellerguard_audit_events_total",
		Help: "Total number of audit events composed, grouped by event kind",
	}, []string{"kind"})
	AuditSinkFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tellerguard_audit_sink_failures_total",
		Help: "Total number of failed audit sink writes, grouped by sink name",
	}, []string{"sink"})
	AuditFallbackWrites = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tellerguard_audit_fallback_writes_total",
		Help: "Total number of audit entries diverted to the local diagnostic stream",
	})
	VaultOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tellerguard_vault_operations_total",
		Help: "Total number of vault encrypt/decrypt operations grouped by operation and outcome",
	}, []string{"operation", "outcome"})
	DirectoryRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tellerguard_directory_requests_total",
		Help: "Total number of identity-provider requests grouped by operation and outcome",
	}, []string{"operation", "outcome"})
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tellerguard_mail_send_success_total",
		Help: "Total number of notification mails sent successfully, grouped by SMTP host",
	}, []string{"host"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tellerguard_mail_send_failure_total",
		Help: "Total number of notification mails that failed after all retries, grouped by SMTP host",
	}, []string{"host"})
)

func init() {
	prometheus.MustRegister(LoginAttempts)
	prometheus.MustRegister(ApprovalDecisions)
	prometheus.MustRegister(AuditEventsEmitted)
	prometheus.MustRegister(AuditSinkFailures)
	prometheus.MustRegister(AuditFallbackWrites)
	prometheus.MustRegister(VaultOperations)
	prometheus.MustRegister(DirectoryRequests)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
}

// Handler returns the HTTP handler exposing all registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
