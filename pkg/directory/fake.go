package directory

import (
	"context"
	"sync"
)

// FakeUser is one account in a Fake directory.
type FakeUser struct {
	Password string
	Groups   []string
}

// Fake is an in-memory Directory for tests and local development.
type Fake struct {
	mu    sync.RWMutex
	users map[string]FakeUser

	// Unavailable forces every call to fail with ErrDirectoryUnavailable.
	Unavailable bool
}

// NewFake creates a Fake directory with the given users.
func NewFake(users map[string]FakeUser) *Fake {
	if users == nil {
		users = map[string]FakeUser{}
	}
	return &Fake{users: users}
}

// AddUser inserts or replaces a user.
func (f *Fake) AddUser(username string, user FakeUser) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = user
}

func (f *Fake) ValidateCredentials(_ context.Context, username, password string) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.Unavailable {
		return false, ErrDirectoryUnavailable
	}
	user, ok := f.users[username]
	return ok && user.Password == password, nil
}

func (f *Fake) IsMemberOfGroup(_ context.Context, username, group string) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.Unavailable {
		return false, ErrDirectoryUnavailable
	}
	user, ok := f.users[username]
	if !ok {
		return false, ErrPrincipalNotFound
	}
	for _, g := range user.Groups {
		if g == group {
			return true, nil
		}
	}
	return false, nil
}
