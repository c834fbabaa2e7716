package session

import (
	"context"
	"log/slog"

	"taskgate/internal/authority"
)

// Navigation targets after a successful operation.
const (
	dashboardPath = "/dashboard"
	landingPath   = "/landing"
)

// Authority is the full client-side contract with the credential authority.
// *authority.Client satisfies it.
type Authority interface {
	CurrentSession(ctx context.Context, credential string) (*authority.User, error)
	Login(ctx context.Context, email, password string) (*authority.LoginResult, error)
	Register(ctx context.Context, email, password, fullName string) (*authority.User, error)
	Logout(ctx context.Context, credential string) error
}

// Navigator moves the client to another path after an operation completes.
type Navigator interface {
	Navigate(path string)
}

// Operations implements the user-initiated authentication flows. The store is
// only updated after the authority confirms success; there is no optimistic
// update to roll back.
type Operations struct {
	store     *Store
	authority Authority
	nav       Navigator
	logger    *slog.Logger
}

// NewOperations wires the flows to their collaborators.
func NewOperations(store *Store, auth Authority, nav Navigator, logger *slog.Logger) *Operations {
	return &Operations{
		store:     store,
		authority: auth,
		nav:       nav,
		logger:    logger,
	}
}

// Login exchanges credentials for a session. The login response already
// carries the user record, so the store is populated without a second round
// trip. On success the client moves to the dashboard.
func (o *Operations) Login(ctx context.Context, email, password string) error {
	result, err := o.authority.Login(ctx, email, password)
	if err != nil {
		return err
	}

	o.store.SetCredential(result.Credential)
	user := result.User
	o.store.setUser(&user)
	o.nav.Navigate(dashboardPath)
	return nil
}

// Register creates an account and, on success, immediately logs in with the
// same credentials. The deployment has no separate verification step, so a
// fresh registration should land in an authenticated session without a second
// user action.
func (o *Operations) Register(ctx context.Context, email, password, fullName string) error {
	if _, err := o.authority.Register(ctx, email, password, fullName); err != nil {
		return err
	}
	return o.Login(ctx, email, password)
}

// Logout invalidates the session server-side on a best-effort basis, then
// unconditionally clears local state and moves to the landing page. A failed
// network call must never leave the client believing it is still signed in,
// so nothing here returns an error.
func (o *Operations) Logout(ctx context.Context) {
	if credential := o.store.Credential(); credential != "" {
		if err := o.authority.Logout(ctx, credential); err != nil {
			o.logger.WarnContext(ctx, "server-side logout failed, clearing local session anyway", "error", err)
		}
	}

	o.store.Clear()
	o.nav.Navigate(landingPath)
}
