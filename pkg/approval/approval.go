package approval

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fincorehq/tellerguard/pkg/audit"
	"github.com/fincorehq/tellerguard/pkg/directory"
	"github.com/fincorehq/tellerguard/pkg/metrics"
)

// Request asks for a second principal's authorization of a destructive
// operation. The approver's credentials are supplied out-of-band by the
// caller and are re-verified against the identity provider on every request;
// the requesting principal's session is never consulted, so an open session
// cannot approve its own destructive action.
type Request struct {
	// Requester is the session principal asking for the operation.
	Requester string

	// ApproverUsername/ApproverPassword are the second principal's
	// independently supplied credentials.
	ApproverUsername string
	ApproverPassword string

	// Account and Holder identify the subject of the destructive action.
	Account string
	Holder  string
}

// Decision is the outcome of one approval request.
type Decision struct {
	Granted  bool
	Approver string
	Reason   string
}

// Notifier is told about approval outcomes. Notification failure never
// affects the decision.
type Notifier interface {
	ApprovalGranted(ctx context.Context, requester, approver, account, holder string)
	ApprovalDenied(ctx context.Context, requester, approver, account, reason string)
}

// Approvals gates destructive operations behind a second, independently
// authenticated principal holding the administrator role.
type Approvals struct {
	dir        directory.Directory
	trail      *audit.Trail
	adminGroup string
	notifier   Notifier // optional
	log        *zap.SugaredLogger
}

// New creates the dual-control gate. notifier may be nil.
func New(dir directory.Directory, trail *audit.Trail, adminGroup string, notifier Notifier, log *zap.SugaredLogger) *Approvals {
	return &Approvals{
		dir:        dir,
		trail:      trail,
		adminGroup: adminGroup,
		notifier:   notifier,
		log:        log.Named("approval"),
	}
}

// RequestApproval re-validates the supplied approver credentials and
// administrator membership. Every failure path yields a denial with a
// specific reason and exactly one audit event; no error ever escapes to the
// caller, so a failed approval can never crash the requesting flow.
func (a *Approvals) RequestApproval(ctx context.Context, req Request) Decision {
	valid, err := a.dir.ValidateCredentials(ctx, req.ApproverUsername, req.ApproverPassword)
	if err != nil {
		return a.deny(ctx, req, fmt.Sprintf("directory unavailable: %v", err))
	}
	if !valid {
		return a.deny(ctx, req, "invalid admin credentials")
	}

	isAdmin, err := a.dir.IsMemberOfGroup(ctx, req.ApproverUsername, a.adminGroup)
	if err != nil {
		if errors.Is(err, directory.ErrPrincipalNotFound) {
			return a.deny(ctx, req, "admin principal not found")
		}
		return a.deny(ctx, req, fmt.Sprintf("directory unavailable: %v", err))
	}
	if !isAdmin {
		return a.deny(ctx, req, fmt.Sprintf("user not member of '%s' group", a.adminGroup))
	}

	a.trail.ApprovalGranted(ctx, req.Requester, req.ApproverUsername, req.Account, req.Holder)
	metrics.ApprovalDecisions.WithLabelValues("granted").Inc()
	a.log.Infow("Administrator approval granted",
		"requester", req.Requester,
		"approver", req.ApproverUsername,
		"account", req.Account)

	if a.notifier != nil {
		a.notifier.ApprovalGranted(ctx, req.Requester, req.ApproverUsername, req.Account, req.Holder)
	}
	return Decision{Granted: true, Approver: req.ApproverUsername}
}

func (a *Approvals) deny(ctx context.Context, req Request, reason string) Decision {
	a.trail.ApprovalDenied(ctx, req.Requester, req.ApproverUsername, req.Account, reason)
	metrics.ApprovalDecisions.WithLabelValues("denied").Inc()
	a.log.Infow("Administrator approval denied",
		"requester", req.Requester,
		"approver", req.ApproverUsername,
		"account", req.Account,
		"reason", reason)

	if a.notifier != nil {
		a.notifier.ApprovalDenied(ctx, req.Requester, req.ApproverUsername, req.Account, reason)
	}
	return Decision{Granted: false, Reason: reason}
}
