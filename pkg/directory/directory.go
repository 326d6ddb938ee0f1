package directory

import (
	"context"
	"errors"
)

var (
	// ErrDirectoryUnavailable reports that the identity provider could not
	// be reached or answered with a server-side failure. Callers treat it
	// as an authentication/approval failure, not a crash.
	ErrDirectoryUnavailable = errors.New("directory unavailable")

	// ErrPrincipalNotFound reports that the named principal does not exist
	// in the directory.
	ErrPrincipalNotFound = errors.New("principal not found")
)

// Directory is the capability interface over the external identity provider.
// Implementations authenticate credentials and answer group-membership
// questions against a single configured realm.
type Directory interface {
	// ValidateCredentials checks a username/password pair. A wrong password
	// is (false, nil); only infrastructure failures return an error.
	ValidateCredentials(ctx context.Context, username, password string) (bool, error)

	// IsMemberOfGroup reports whether the principal belongs to the named
	// group. Returns ErrPrincipalNotFound when the user does not exist.
	IsMemberOfGroup(ctx context.Context, username, group string) (bool, error)
}
