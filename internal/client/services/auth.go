// Package services contains the application services of the Handluz client.
// This file defines the auth manager: the sole owner of the authenticated
// Identity, its persistence lifecycle, and the push-registration side effect
// of login.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/BrasserTech/handluz/internal/client/models"
	"github.com/BrasserTech/handluz/internal/client/push"
	"github.com/BrasserTech/handluz/internal/client/remote"
	"github.com/BrasserTech/handluz/internal/client/session"
	"github.com/BrasserTech/handluz/internal/common"
	"github.com/BrasserTech/handluz/internal/logging"
	"github.com/sethvargo/go-retry"
	"golang.org/x/crypto/bcrypt"
)

// State is the auth manager's lifecycle position.
type State string

const (
	StateBootstrapping   State = "bootstrapping"
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticated   State = "authenticated"
)

// MsgGenericFailure is shown for any unexpected fault during sign-in. It is
// deliberately step-agnostic.
const MsgGenericFailure = "unexpected error, please try again"

// Options tune the manager's remote-call behavior.
type Options struct {
	// RemoteTimeout bounds every remote call; zero means DefaultRemoteTimeout.
	RemoteTimeout time.Duration
	// MaxRetries caps the re-fetch attempts on the read paths (bootstrap,
	// refresh). Sign-in never retries.
	MaxRetries uint64
}

const (
	DefaultRemoteTimeout = 10 * time.Second
	defaultMaxRetries    = 2
	retryBaseDelay       = 250 * time.Millisecond
)

// AuthManager is the single source of truth for "who is logged in". It is
// constructed once at process start and shared by reference; all state
// transitions go through it, and overlapping transitions are rejected with
// common.ErrBusy rather than racing.
type AuthManager struct {
	remote   remote.Store
	sessions *session.Store
	push     push.Registrar
	log      logging.Logger
	opts     Options

	mu       sync.Mutex
	user     *models.Identity
	state    State
	loading  bool
	errMsg   string
	inFlight bool
}

func NewAuthManager(store remote.Store, sessions *session.Store, registrar push.Registrar, log logging.Logger, opts Options) *AuthManager {
	if opts.RemoteTimeout <= 0 {
		opts.RemoteTimeout = DefaultRemoteTimeout
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	return &AuthManager{
		remote:   store,
		sessions: sessions,
		push:     registrar,
		log:      log.With("component", "auth"),
		opts:     opts,
		state:    StateBootstrapping,
	}
}

// Snapshot returns what the UI layer is allowed to observe: the current
// identity (nil when signed out), whether a transition is in progress, and
// the user-facing error text of the last failed operation.
func (m *AuthManager) Snapshot() (user *models.Identity, loading bool, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user != nil {
		u := *m.user
		user = &u
	}
	return user, m.loading, m.errMsg
}

// State reports the current lifecycle state.
func (m *AuthManager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Permissions derives the capability view from the current role. It is
// recomputed on every call; a signed-out manager has no capabilities.
func (m *AuthManager) Permissions() models.Permissions {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return models.Permissions{}
	}
	return models.DerivePermissions(m.user.Role)
}

// begin claims the single transition slot and raises the loading flag.
func (m *AuthManager) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inFlight {
		return common.ErrBusy
	}
	m.inFlight = true
	m.loading = true
	m.errMsg = ""
	return nil
}

func (m *AuthManager) finish(errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight = false
	m.loading = false
	m.errMsg = errMsg
}

func (m *AuthManager) setUser(u *models.Identity, s State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = u
	m.state = s
}

func (m *AuthManager) currentUser() *models.Identity {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// classify maps low-level remote faults to boundary error kinds.
func classify(err error) error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", common.ErrTimeout, err)
	case errors.Is(err, common.ErrNotFound):
		return err
	default:
		return fmt.Errorf("%w: %v", common.ErrUnavailable, err)
	}
}

// Bootstrap restores a previously saved session, re-validating it against
// the remote profile. Called once at process start.
//
// Outcomes:
//   - nothing saved              -> Unauthenticated, silent
//   - profile row gone           -> stale session cleared, Unauthenticated, silent
//   - transient remote failure   -> keep the saved identity (last known good)
//   - profile found              -> identity rebuilt from fresh fields, push
//     token refreshed best-effort, session re-persisted, Authenticated
func (m *AuthManager) Bootstrap(ctx context.Context) error {
	if err := m.begin(); err != nil {
		return err
	}
	defer m.finish("")

	saved, ok := m.sessions.Load(ctx)
	if !ok {
		m.setUser(nil, StateUnauthenticated)
		return nil
	}

	profile, err := m.fetchProfileWithRetry(ctx, saved.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			m.log.Info(ctx, "saved session has no matching profile, signing out", "id", saved.ID)
			m.sessions.Clear(ctx)
			m.setUser(nil, StateUnauthenticated)
			return nil
		}
		// Transient: hold the last-known-good identity and stay usable.
		m.log.Warn(ctx, "profile re-validation failed, keeping saved session", "err", err)
		m.setUser(saved, StateAuthenticated)
		return nil
	}

	id := identityFromProfile(profile)
	m.registerPush(ctx, id)
	m.sessions.Save(ctx, id)
	m.setUser(id, StateAuthenticated)
	return nil
}

// SignIn verifies the submitted credentials against the profiles and
// passwords tables and, on success, installs and persists the new Identity.
//
// All three credential checks (unknown email, no password row, mismatch)
// fail with common.ErrInvalidCredentials and one shared user-facing message,
// so the caller cannot probe which emails exist. Any other fault surfaces as
// a generic failure kind and leaves the state untouched.
func (m *AuthManager) SignIn(ctx context.Context, email, password string) error {
	if err := m.begin(); err != nil {
		return err
	}

	email = strings.TrimSpace(email)

	cctx, cancel := context.WithTimeout(ctx, m.opts.RemoteTimeout)
	defer cancel()

	profile, err := m.remote.ProfileByEmail(cctx, email)
	if err != nil {
		return m.failSignIn(ctx, "profile lookup", err)
	}

	stored, err := m.remote.LatestPassword(cctx, profile.ID)
	if err != nil {
		return m.failSignIn(ctx, "password lookup", err)
	}

	if !verifyPassword(stored, password) {
		return m.failSignIn(ctx, "password check", common.ErrNotFound)
	}

	id := identityFromProfile(profile)
	m.registerPush(ctx, id)
	m.sessions.Save(ctx, id)
	m.setUser(id, StateAuthenticated)
	m.finish("")
	return nil
}

// failSignIn collapses a sign-in fault to its boundary kind, records the
// user-facing message, and leaves identity state unchanged.
func (m *AuthManager) failSignIn(ctx context.Context, step string, err error) error {
	kind := classify(err)
	if errors.Is(kind, common.ErrNotFound) {
		// Unknown email, missing password row, and mismatch are one flavor.
		m.log.Info(ctx, "sign-in rejected", "step", step)
		m.finish(common.ErrInvalidCredentials.Error())
		return common.ErrInvalidCredentials
	}
	m.log.Warn(ctx, "sign-in failed", "step", step, "err", err)
	m.finish(MsgGenericFailure)
	return kind
}

// SignOut drops the in-memory identity and clears the persisted session.
// It never fails the caller: a broken local store only logs.
func (m *AuthManager) SignOut(ctx context.Context) error {
	if err := m.begin(); err != nil {
		return err
	}
	defer m.finish("")

	m.sessions.Clear(ctx)
	m.setUser(nil, StateUnauthenticated)
	return nil
}

// RefreshProfile re-reads the remote profile and overwrites the identity's
// mutable fields, keeping the session blob in sync after an external change
// (e.g. a role update made by a board member elsewhere). A transient failure
// leaves the prior identity fully intact; a deleted profile forces sign-out.
func (m *AuthManager) RefreshProfile(ctx context.Context) error {
	if err := m.begin(); err != nil {
		return err
	}
	defer m.finish("")

	current := m.currentUser()
	if current == nil {
		return nil
	}

	profile, err := m.fetchProfileWithRetry(ctx, current.ID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			m.log.Info(ctx, "profile deleted remotely, signing out", "id", current.ID)
			m.sessions.Clear(ctx)
			m.setUser(nil, StateUnauthenticated)
			return nil
		}
		m.log.Warn(ctx, "profile refresh failed, keeping current identity", "err", err)
		return err
	}

	current.FullName = profile.FullName
	current.ApplyRole(models.ParseRole(profile.Role))
	m.sessions.Save(ctx, current)
	m.setUser(current, StateAuthenticated)
	return nil
}

// UpdateAvatar persists the uploaded photo URL on the remote profile.
// The caller obtains url from the media uploader.
func (m *AuthManager) UpdateAvatar(ctx context.Context, url string) error {
	current := m.currentUser()
	if current == nil {
		return common.ErrNotSignedIn
	}

	cctx, cancel := context.WithTimeout(ctx, m.opts.RemoteTimeout)
	defer cancel()

	if err := m.remote.UpdateAvatarURL(cctx, current.ID, url); err != nil {
		return classify(err)
	}
	return nil
}

// SetMemberRole changes another member's stored role. Only board members and
// administrators may call it; the target is addressed by email. When the
// caller changes their own role, the local identity and saved session are
// updated in place so the new capabilities apply without a re-login.
func (m *AuthManager) SetMemberRole(ctx context.Context, email, role string) error {
	current := m.currentUser()
	if current == nil {
		return common.ErrNotSignedIn
	}
	if !models.DerivePermissions(current.Role).IsBoardOrAdmin {
		return common.ErrForbidden
	}
	if !models.ValidRole(role) {
		return fmt.Errorf("unknown role %q", role)
	}

	cctx, cancel := context.WithTimeout(ctx, m.opts.RemoteTimeout)
	defer cancel()

	target, err := m.remote.ProfileByEmail(cctx, strings.TrimSpace(email))
	if err != nil {
		return classify(err)
	}
	if err := m.remote.UpdateRole(cctx, target.ID, role); err != nil {
		return classify(err)
	}

	m.log.Info(ctx, "member role changed", "target", target.ID, "role", role)

	if target.ID == current.ID {
		current.ApplyRole(models.Role(role))
		m.sessions.Save(ctx, current)
		m.setUser(current, StateAuthenticated)
	}
	return nil
}

// fetchProfileWithRetry re-reads a profile row, retrying transient faults a
// bounded number of times. Not-found is terminal and never retried.
func (m *AuthManager) fetchProfileWithRetry(ctx context.Context, id string) (*remote.Profile, error) {
	var profile *remote.Profile

	backoff := retry.WithMaxRetries(m.opts.MaxRetries, retry.NewFibonacci(retryBaseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		cctx, cancel := context.WithTimeout(ctx, m.opts.RemoteTimeout)
		defer cancel()

		p, err := m.remote.ProfileByID(cctx, id)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return err
			}
			return retry.RetryableError(err)
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return profile, nil
}

// registerPush requests a device push token and mirrors it to the remote
// profile. Strictly best-effort: every failure is logged and ignored, and an
// absent token (unsupported platform) is not a failure at all.
func (m *AuthManager) registerPush(ctx context.Context, id *models.Identity) {
	cctx, cancel := context.WithTimeout(ctx, m.opts.RemoteTimeout)
	defer cancel()

	token, err := m.push.Register(cctx)
	if err != nil {
		m.log.Warn(ctx, "push registration failed", "err", err)
		return
	}
	if token == "" {
		return
	}

	id.PushToken = token
	if err := m.remote.UpdatePushToken(cctx, id.ID, token); err != nil {
		m.log.Warn(ctx, "push token persist failed", "err", err)
	}
}

func identityFromProfile(p *remote.Profile) *models.Identity {
	id := &models.Identity{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		PushToken: p.PushToken,
	}
	id.ApplyRole(models.ParseRole(p.Role))
	return id
}

// verifyPassword checks the submitted password against the stored value.
// Rows migrated to bcrypt are compared as hashes; legacy rows still hold the
// raw secret and keep exact, constant-time equality.
func verifyPassword(stored, submitted string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(submitted)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
}
