package cli

import (
	"fmt"
	"net/http"

	"github.com/fincorehq/tellerguard/pkg/approval"
	"github.com/fincorehq/tellerguard/pkg/audit"
	"github.com/fincorehq/tellerguard/pkg/config"
	"github.com/fincorehq/tellerguard/pkg/directory"
	"github.com/fincorehq/tellerguard/pkg/metrics"
	"github.com/fincorehq/tellerguard/pkg/notify"
	"github.com/fincorehq/tellerguard/pkg/session"
	"github.com/fincorehq/tellerguard/pkg/vault"
)

// components wires the security core from configuration. Each command builds
// only what it needs.
type components struct {
	rt    *runtimeState
	cfg   *config.Config
	trail *audit.Trail
	dir   directory.Directory
}

func newComponents(rt *runtimeState) (*components, error) {
	cfg, err := rt.ensureConfig()
	if err != nil {
		return nil, err
	}

	c := &components{rt: rt, cfg: cfg}

	if cfg.Metrics.ListenAddress != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(cfg.Metrics.ListenAddress, mux); err != nil {
				rt.logger.Sugar().Warnw("Metrics endpoint stopped", "error", err)
			}
		}()
	}

	return c, nil
}

// auditTrail lazily builds the configured audit sink and trail.
func (c *components) auditTrail() (*audit.Trail, error) {
	if c.trail != nil {
		return c.trail, nil
	}

	var sink audit.Sink
	switch c.cfg.Audit.Sink {
	case "kafka":
		ks, err := audit.NewKafkaSink(*c.cfg.Audit.Kafka, c.rt.logger)
		if err != nil {
			return nil, fmt.Errorf("building kafka audit sink: %w", err)
		}
		sink = ks
	default:
		sink = audit.NewLogSink(c.rt.logger)
	}

	c.trail = audit.NewTrail(sink, c.rt.logger)
	return c.trail, nil
}

func (c *components) directory() directory.Directory {
	if c.dir == nil {
		c.dir = directory.NewKeycloak(c.cfg.Directory, c.cfg.DirectoryTimeout(), c.rt.logger.Sugar())
	}
	return c.dir
}

func (c *components) session() (*session.Session, error) {
	trail, err := c.auditTrail()
	if err != nil {
		return nil, err
	}
	return session.New(
		c.directory(),
		trail,
		c.cfg.Directory.TellerGroup,
		c.cfg.Directory.AdminGroup,
		c.rt.logger.Sugar(),
	), nil
}

func (c *components) approvals() (*approval.Approvals, error) {
	trail, err := c.auditTrail()
	if err != nil {
		return nil, err
	}
	var notifier approval.Notifier
	if c.cfg.MailEnabled() {
		notifier = notify.NewMailer(c.cfg.Mail, c.rt.logger.Sugar())
	}
	return approval.New(
		c.directory(),
		trail,
		c.cfg.Directory.AdminGroup,
		notifier,
		c.rt.logger.Sugar(),
	), nil
}

func (c *components) vault() (*vault.Vault, error) {
	return vault.New(c.cfg.Vault, c.rt.logger)
}

func (c *components) close() {
	if c.trail != nil {
		if err := c.trail.Close(); err != nil {
			c.rt.logger.Sugar().Warnw("Failed to close audit trail", "error", err)
		}
	}
}
