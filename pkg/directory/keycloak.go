package directory

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Nerzal/gocloak/v13"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"

	"github.com/fincorehq/tellerguard/pkg/config"
	"github.com/fincorehq/tellerguard/pkg/metrics"
)

// Keycloak implements Directory against a Keycloak realm. Credential checks
// use the resource-owner password grant; group lookups use the admin API via
// a confidential service-account client.
type Keycloak struct {
	client  *gocloak.GoCloak
	cfg     config.Directory
	timeout time.Duration
	log     *zap.SugaredLogger
}

// NewKeycloak creates a Directory backed by the configured Keycloak realm.
func NewKeycloak(cfg config.Directory, timeout time.Duration, log *zap.SugaredLogger) *Keycloak {
	client := gocloak.NewClient(cfg.BaseURL)
	if cfg.InsecureSkipVerify {
		client.RestyClient().SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec // test realms only
	}
	return &Keycloak{
		client:  client,
		cfg:     cfg,
		timeout: timeout,
		log:     log.Named("keycloak"),
	}
}

// ValidateCredentials performs a resource-owner password grant for the user.
// An invalid_grant answer means bad credentials; anything else that is not a
// clean success is ErrDirectoryUnavailable.
func (k *Keycloak) ValidateCredentials(ctx context.Context, username, password string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()

	token, err := k.client.Login(ctx, k.cfg.ClientID, k.cfg.ClientSecret, k.cfg.Realm, username, password)
	if err != nil {
		if isInvalidCredentials(err) {
			metrics.DirectoryRequests.WithLabelValues("validate_credentials", "rejected").Inc()
			return false, nil
		}
		metrics.DirectoryRequests.WithLabelValues("validate_credentials", "error").Inc()
		return false, fmt.Errorf("%w: realm %s: %v", ErrDirectoryUnavailable, k.cfg.Realm, err)
	}

	metrics.DirectoryRequests.WithLabelValues("validate_credentials", "success").Inc()
	k.log.Debugw("Credentials validated", "username", username, "subject", subjectClaim(token.AccessToken))
	return true, nil
}

// IsMemberOfGroup looks the user up through the admin API and matches the
// requested group name against the user's group memberships.
func (k *Keycloak) IsMemberOfGroup(ctx context.Context, username, group string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()

	token, err := k.client.LoginClient(ctx, k.cfg.ServiceClientID, k.cfg.ServiceClientSecret, k.cfg.Realm)
	if err != nil {
		metrics.DirectoryRequests.WithLabelValues("group_membership", "error").Inc()
		return false, fmt.Errorf("%w: service login: %v", ErrDirectoryUnavailable, err)
	}

	users, err := k.client.GetUsers(ctx, token.AccessToken, k.cfg.Realm, gocloak.GetUsersParams{
		Username: gocloak.StringP(username),
		Exact:    gocloak.BoolP(true),
	})
	if err != nil {
		metrics.DirectoryRequests.WithLabelValues("group_membership", "error").Inc()
		return false, fmt.Errorf("%w: user lookup: %v", ErrDirectoryUnavailable, err)
	}
	userID := ""
	for _, user := range users {
		if user.Username != nil && *user.Username == username && user.ID != nil {
			userID = *user.ID
			break
		}
	}
	if userID == "" {
		metrics.DirectoryRequests.WithLabelValues("group_membership", "not_found").Inc()
		return false, fmt.Errorf("%w: %s", ErrPrincipalNotFound, username)
	}

	groups, err := k.client.GetUserGroups(ctx, token.AccessToken, k.cfg.Realm, userID, gocloak.GetGroupsParams{})
	if err != nil {
		metrics.DirectoryRequests.WithLabelValues("group_membership", "error").Inc()
		return false, fmt.Errorf("%w: group lookup: %v", ErrDirectoryUnavailable, err)
	}

	metrics.DirectoryRequests.WithLabelValues("group_membership", "success").Inc()
	for _, g := range groups {
		if g.Name != nil && *g.Name == group {
			return true, nil
		}
	}
	return false, nil
}

// isInvalidCredentials distinguishes a rejected password grant from an
// unreachable or broken realm.
func isInvalidCredentials(err error) bool {
	apiErr := &gocloak.APIError{}
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusBadRequest
}

// subjectClaim extracts the sub claim from an access token for debug logging.
// The token is not verified locally; trust comes from the realm's answer.
func subjectClaim(accessToken string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return ""
	}
	if sub, ok := claims["sub"].(string); ok {
		return sub
	}
	return ""
}
