package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAreRegistered(t *testing.T) {
	LoginAttempts.WithLabelValues("success", "").Inc()
	ApprovalDecisions.WithLabelValues("denied").Inc()
	AuditEventsEmitted.WithLabelValues("login.success").Inc()
	AuditSinkFailures.WithLabelValues("kafka").Inc()
	AuditFallbackWrites.Inc()
	VaultOperations.WithLabelValues("encrypt", "success").Inc()
	DirectoryRequests.WithLabelValues("validate_credentials", "error").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "tellerguard_login_attempts_total")
	assert.Contains(t, body, "tellerguard_approval_decisions_total")
	assert.Contains(t, body, "tellerguard_audit_events_total")
	assert.Contains(t, body, "tellerguard_vault_operations_total")
}
