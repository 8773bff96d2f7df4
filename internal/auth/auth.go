// Package auth is the single-session registry: sign-in and sign-out, the
// persisted current session, and synchronous notification of listeners on
// every transition.
//
// State is either signed out or signed in with one session. Listeners are
// called in subscription order before the triggering call returns.
package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mesh-intelligence/localbase/pkg/types"
)

// Messages surfaced in auth errors.
const (
	msgInvalidCredentials = "Invalid credentials"
	msgSessionMissing     = "Auth session missing!"
)

// DefaultUserID is the id of the bootstrap account named by
// Config.DefaultEmail when it has no profile row.
const DefaultUserID = "user-default"

// SessionStore is the persistence the service needs. internal/store.Store
// satisfies it.
type SessionStore interface {
	Load() (types.Snapshot, error)
	ReadSession() (*types.Session, bool)
	WriteSession(*types.Session) error
	ClearSession() error
}

// Credentials are the sign-in inputs.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionData is the Data of sign-in and GetSession results.
type SessionData struct {
	Session *types.Session `json:"session"`
	User    *types.User    `json:"user,omitempty"`
}

// UserData is the Data of a GetUser result.
type UserData struct {
	User types.User `json:"user"`
}

// Service manages the current session and its listeners.
type Service struct {
	store     SessionStore
	cfg       types.Config
	listeners registry
	tokens    tokens
	now       func() time.Time
	log       zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source for session expiry and token claims.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the service logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService returns a Service over store. When cfg.BootstrapSession is set
// and no live session is persisted, a session for cfg.DefaultEmail is
// created and persisted.
func NewService(store SessionStore, cfg types.Config, opts ...Option) (*Service, error) {
	cfg = cfg.WithDefaults()
	s := &Service{
		store: store,
		cfg:   cfg,
		now:   time.Now,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tokens = tokens{secret: []byte(cfg.JWTSecret), now: s.now}

	if cfg.BootstrapSession && s.Session() == nil {
		user := types.User{ID: DefaultUserID, Email: cfg.DefaultEmail, Role: "admin"}
		sess, err := s.newSession(user)
		if err != nil {
			return nil, fmt.Errorf("creating bootstrap session: %w", err)
		}
		if err := store.WriteSession(sess); err != nil {
			return nil, fmt.Errorf("persisting bootstrap session: %w", err)
		}
		s.log.Debug().Str("email", user.Email).Msg("bootstrap session created")
	}
	return s, nil
}

// SignInWithPassword looks up a profile by email, case-insensitively. A
// profile carrying password_hash must match the password; seeded profiles
// carry none. The configured default email is accepted without a profile.
// On success the session is persisted and listeners see SIGNED_IN before
// this returns. On failure nothing changes.
func (s *Service) SignInWithPassword(creds Credentials) types.Result {
	snap, err := s.store.Load()
	if err != nil {
		return types.Fail(&types.Error{Code: types.CodePersistence, Message: err.Error()})
	}
	user, ok := s.authenticate(snap.Table(types.TableProfiles), creds)
	if !ok {
		s.log.Debug().Str("email", creds.Email).Msg("sign-in rejected")
		return types.Fail(&types.Error{Code: types.CodeAuth, Message: msgInvalidCredentials})
	}

	sess, err := s.newSession(user)
	if err != nil {
		return types.Fail(&types.Error{Code: types.CodeInternal, Message: err.Error()})
	}
	if err := s.store.WriteSession(sess); err != nil {
		return types.Fail(&types.Error{Code: types.CodePersistence, Message: err.Error()})
	}
	s.log.Debug().Str("user", user.ID).Msg("signed in")

	s.notify(types.EventSignedIn, sess)
	return types.Result{Data: SessionData{Session: sess, User: &sess.User}}
}

// SignOut clears the persisted session and notifies listeners with
// SIGNED_OUT. Signing out while signed out still notifies.
func (s *Service) SignOut() types.Result {
	if err := s.store.ClearSession(); err != nil {
		return types.Fail(&types.Error{Code: types.CodePersistence, Message: err.Error()})
	}
	s.log.Debug().Msg("signed out")

	s.notify(types.EventSignedOut, nil)
	return types.Result{}
}

// Session returns the persisted session, or nil when there is none or it
// has expired. It has no side effects.
func (s *Service) Session() *types.Session {
	sess, ok := s.store.ReadSession()
	if !ok || sess.Expired(s.now()) {
		return nil
	}
	return sess
}

// GetSession wraps Session in a result. A missing session is not an error.
func (s *Service) GetSession() types.Result {
	return types.Result{Data: SessionData{Session: s.Session()}}
}

// GetUser verifies the current session's access token and returns its user.
func (s *Service) GetUser() types.Result {
	sess := s.Session()
	if sess == nil {
		return types.Fail(&types.Error{Code: types.CodeAuth, Message: msgSessionMissing})
	}
	claims, err := s.tokens.verify(sess.AccessToken)
	if err != nil {
		return types.Fail(&types.Error{Code: types.CodeAuth, Message: err.Error()})
	}
	return types.Result{Data: UserData{User: types.User{
		ID:    claims.Subject,
		Email: claims.Email,
		Role:  claims.Role,
	}}}
}

// OnAuthStateChange registers fn and immediately calls it once with
// INITIAL_SESSION and the current session.
func (s *Service) OnAuthStateChange(fn Listener) *Subscription {
	sub := s.listeners.add(fn)
	s.call(fn, types.EventInitialSession, s.Session())
	return sub
}

// Listeners returns the number of registered listeners.
func (s *Service) Listeners() int {
	return s.listeners.size()
}

func (s *Service) notify(event types.AuthEvent, sess *types.Session) {
	s.listeners.notify(event, sess, s.call)
}

// call invokes one listener and recovers a panic.
func (s *Service) call(fn Listener, event types.AuthEvent, sess *types.Session) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Str("event", string(event)).Msg("auth listener failed")
		}
	}()
	fn(event, sess)
}

// authenticate resolves creds to a user against profiles.
func (s *Service) authenticate(profiles types.Table, creds Credentials) (types.User, bool) {
	email := strings.TrimSpace(creds.Email)
	if email == "" {
		return types.User{}, false
	}

	for _, row := range profiles {
		rowEmail, _ := row["email"].(string)
		if !strings.EqualFold(rowEmail, email) {
			continue
		}
		if hash, _ := row["password_hash"].(string); hash != "" {
			if bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)) != nil {
				return types.User{}, false
			}
		}
		role, _ := row["role"].(string)
		if role == "" {
			role = "member"
		}
		return types.User{ID: row.ID(), Email: rowEmail, Role: role}, true
	}

	if strings.EqualFold(email, s.cfg.DefaultEmail) {
		return types.User{ID: DefaultUserID, Email: s.cfg.DefaultEmail, Role: "admin"}, true
	}
	return types.User{}, false
}

// newSession builds a session for user expiring SessionTTL from now.
func (s *Service) newSession(user types.User) (*types.Session, error) {
	now := s.now().UTC()
	expires := now.Add(s.cfg.SessionTTL)
	access, err := s.tokens.mint(user, now, expires)
	if err != nil {
		return nil, err
	}
	return &types.Session{
		AccessToken:  access,
		RefreshToken: uuid.New().String(),
		TokenType:    "bearer",
		ExpiresIn:    int64(s.cfg.SessionTTL / time.Second),
		ExpiresAt:    expires,
		User:         user,
	}, nil
}

// HashPassword returns a bcrypt hash suitable for a profile's password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}
