package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fincorehq/tellerguard/pkg/audit"
	"github.com/fincorehq/tellerguard/pkg/directory"
	"github.com/fincorehq/tellerguard/pkg/metrics"
)

// Session tracks the authenticated state of the one principal this process
// serves. State is mutated only by Authenticate and reset on every failed
// attempt. Entry requires teller-group membership; the administrator flag is
// an orthogonal attribute and does not grant entry by itself.
type Session struct {
	dir         directory.Directory
	trail       *audit.Trail
	tellerGroup string
	adminGroup  string
	log         *zap.SugaredLogger

	currentUsername string
	authenticated   bool
	teller          bool
	administrator   bool
}

// New creates an unauthenticated Session.
func New(dir directory.Directory, trail *audit.Trail, tellerGroup, adminGroup string, log *zap.SugaredLogger) *Session {
	return &Session{
		dir:         dir,
		trail:       trail,
		tellerGroup: tellerGroup,
		adminGroup:  adminGroup,
		log:         log.Named("session"),
	}
}

// CurrentUsername returns the logged-in principal, or "" when unauthenticated.
func (s *Session) CurrentUsername() string { return s.currentUsername }

// IsAuthenticated reports whether a principal is logged in.
func (s *Session) IsAuthenticated() bool { return s.authenticated }

// IsTeller reports teller-group membership of the current principal.
func (s *Session) IsTeller() bool { return s.teller }

// IsAdministrator reports administrator-group membership of the current principal.
func (s *Session) IsAdministrator() bool { return s.administrator }

func (s *Session) reset() {
	s.currentUsername = ""
	s.authenticated = false
	s.teller = false
	s.administrator = false
}

// Authenticate validates the credentials and teller-role membership of the
// principal and updates session state. Every attempt produces exactly one
// audit event; failures are an expected outcome and never surface as errors.
func (s *Session) Authenticate(ctx context.Context, username, password string) bool {
	s.reset()

	valid, err := s.dir.ValidateCredentials(ctx, username, password)
	if err != nil {
		reason := fmt.Sprintf("directory unavailable: %v", err)
		s.trail.LoginFailure(ctx, username, reason)
		metrics.LoginAttempts.WithLabelValues("failure", "directory_unavailable").Inc()
		s.log.Warnw("Authentication failed", "username", username, "reason", reason)
		return false
	}
	if !valid {
		s.trail.LoginFailure(ctx, username, "invalid credentials")
		metrics.LoginAttempts.WithLabelValues("failure", "invalid_credentials").Inc()
		s.log.Infow("Authentication failed: invalid credentials", "username", username)
		return false
	}

	isTeller, err := s.dir.IsMemberOfGroup(ctx, username, s.tellerGroup)
	if err != nil {
		var reason, label string
		switch {
		case errors.Is(err, directory.ErrPrincipalNotFound):
			reason = "user principal not found"
			label = "principal_not_found"
		default:
			reason = fmt.Sprintf("directory unavailable: %v", err)
			label = "directory_unavailable"
		}
		s.trail.LoginFailure(ctx, username, reason)
		metrics.LoginAttempts.WithLabelValues("failure", label).Inc()
		s.log.Warnw("Authentication failed", "username", username, "reason", reason)
		return false
	}
	if !isTeller {
		// Authorization failure, logged distinctly from bad credentials.
		reason := fmt.Sprintf("user not member of '%s' group", s.tellerGroup)
		s.trail.LoginFailure(ctx, username, reason)
		metrics.LoginAttempts.WithLabelValues("failure", "role_missing").Inc()
		s.log.Infow("Access denied: missing teller role", "username", username, "group", s.tellerGroup)
		return false
	}

	// The administrator flag is informational only; a lookup failure here
	// degrades to false without failing the login.
	isAdmin, err := s.dir.IsMemberOfGroup(ctx, username, s.adminGroup)
	if err != nil {
		s.log.Warnw("Administrator group lookup failed, assuming non-administrator",
			"username", username, "error", err)
		isAdmin = false
	}

	s.currentUsername = username
	s.authenticated = true
	s.teller = true
	s.administrator = isAdmin

	s.trail.LoginSuccess(ctx, username, true, isAdmin)
	metrics.LoginAttempts.WithLabelValues("success", "").Inc()
	s.log.Infow("Authentication successful", "username", username, "administrator", isAdmin)
	return true
}
