// Package identity is the authentication facade: credential sign-in,
// registration, email verification with a resend cooldown, and the
// auth-state stream the route guards watch.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/angkasa-id/angkasa/internal/auth"
	"github.com/angkasa-id/angkasa/internal/auth/providers"
	"github.com/angkasa-id/angkasa/internal/db"
	"github.com/angkasa-id/angkasa/internal/docstore"
	"github.com/angkasa-id/angkasa/internal/domain/member"
	"github.com/angkasa-id/angkasa/internal/email"
	"github.com/angkasa-id/angkasa/internal/metrics"
	"github.com/angkasa-id/angkasa/internal/session"
)

var (
	// ErrCooldownActive rejects a verification resend inside the throttle
	// window.
	ErrCooldownActive = errors.New("verification cooldown active")
	// ErrAlreadyVerified rejects verification traffic for verified accounts.
	ErrAlreadyVerified = errors.New("email already verified")
	// ErrInvalidToken rejects unknown or consumed verification tokens.
	ErrInvalidToken = errors.New("invalid verification token")
)

// Service owns the account lifecycle and fans auth-state events out to
// subscribers.
type Service struct {
	q         *db.Queries
	providers *providers.Registry
	mailer    email.Mailer
	docs      *docstore.Store
	logger    *slog.Logger

	baseURL          string
	registrationOpen bool
	cooldown         time.Duration
	now              func() time.Time

	mu        sync.Mutex
	nextSub   int
	listeners map[int]func(session.Event)
	cooldowns map[int64]email.Cooldown
}

// Options configure a Service.
type Options struct {
	BaseURL          string
	RegistrationOpen bool
	VerifyCooldown   time.Duration
	Logger           *slog.Logger
	// Now overrides the clock in tests.
	Now func() time.Time
}

// NewService wires the account lifecycle over the given stores and mailer.
func NewService(q *db.Queries, docs *docstore.Store, mailer email.Mailer, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.VerifyCooldown <= 0 {
		opts.VerifyCooldown = time.Minute
	}
	return &Service{
		q:                q,
		providers:        providers.NewRegistry(providers.NewPasswordProvider(q)),
		mailer:           mailer,
		docs:             docs,
		logger:           opts.Logger,
		baseURL:          opts.BaseURL,
		registrationOpen: opts.RegistrationOpen,
		cooldown:         opts.VerifyCooldown,
		now:              opts.Now,
		listeners:        map[int]func(session.Event){},
		cooldowns:        map[int64]email.Cooldown{},
	}
}

// OnAuthStateChange registers a listener for sign-in, sign-out and
// verification events. The returned function unsubscribes; calling it more
// than once is safe.
func (s *Service) OnAuthStateChange(fn func(session.Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
		})
	}
}

func (s *Service) emit(ev session.Event) {
	s.mu.Lock()
	fns := make([]func(session.Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func identityOf(p auth.Principal) session.Identity {
	return session.Identity{
		ID:            strconv.FormatInt(p.UserID, 10),
		DisplayName:   p.DisplayName,
		Email:         p.Email,
		EmailVerified: p.EmailVerified,
	}
}

// SignIn authenticates a password credential and records the login metadata.
func (s *Service) SignIn(ctx context.Context, emailAddr, password, remoteIP string) (auth.Principal, error) {
	return s.SignInWith(ctx, auth.MethodPassword, emailAddr, password, remoteIP)
}

// SignInWith authenticates through a named provider. Methods without a
// registered provider fail with auth.ErrProviderNotAvailable.
func (s *Service) SignInWith(ctx context.Context, method, emailAddr, password, remoteIP string) (auth.Principal, error) {
	provider, err := s.providers.Lookup(method)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("failure").Inc()
		return auth.Principal{}, err
	}

	principal, err := provider.Authenticate(ctx, emailAddr, password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("failure").Inc()
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Error("sign-in failed", "error", err)
		}
		return auth.Principal{}, err
	}

	err = s.q.UpdateAuthUserLoginMeta(ctx, db.UpdateAuthUserLoginMetaParams{
		ID:          principal.UserID,
		LastLoginAt: pgtype.Timestamptz{Time: s.now(), Valid: true},
		LastLoginIp: remoteIP,
	})
	if err != nil {
		s.logger.Error("recording login metadata failed", "user_id", principal.UserID, "error", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("success").Inc()
	s.emit(session.Event{Type: session.EventSignedIn, Identity: identityOf(principal)})
	return principal, nil
}

// RegisterParams carries a self-service registration.
type RegisterParams struct {
	Email       string
	Password    string
	DisplayName string
	// Role defaults to student; providers register through the same form.
	Role        string
	Institution string
}

// Register creates an account, its member profile and the first verification
// mail, and signs the new user in.
func (s *Service) Register(ctx context.Context, arg RegisterParams) (auth.Principal, error) {
	if !s.registrationOpen {
		return auth.Principal{}, auth.ErrRegistrationClosed
	}
	emailAddr := auth.NormalizeEmail(arg.Email)
	if emailAddr == "" {
		return auth.Principal{}, auth.ErrInvalidCredentials
	}
	if len(arg.Password) < auth.MinPasswordLength {
		return auth.Principal{}, auth.ErrWeakPassword
	}
	role := arg.Role
	if role == "" {
		role = auth.RoleStudent
	}
	if !auth.ValidRole(role) || role == auth.RoleAdmin {
		return auth.Principal{}, fmt.Errorf("role %q not open for registration", arg.Role)
	}

	hash, err := auth.HashPassword(arg.Password)
	if err != nil {
		return auth.Principal{}, err
	}

	user, err := s.q.CreateAuthUser(ctx, db.CreateAuthUserParams{
		Email:        emailAddr,
		DisplayName:  arg.DisplayName,
		PasswordHash: hash,
		Role:         role,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return auth.Principal{}, auth.ErrEmailTaken
		}
		return auth.Principal{}, err
	}

	profile := member.Member{
		ID:          strconv.FormatInt(user.ID, 10),
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Role:        user.Role,
		Institution: arg.Institution,
		Active:      true,
		JoinedAt:    s.now(),
	}
	if err := s.docs.SetDocument(ctx, member.Collection, profile.ID, profile.Document()); err != nil {
		s.logger.Error("member profile creation failed", "user_id", user.ID, "error", err)
	}

	principal := auth.Principal{
		UserID:        user.ID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		Method:        auth.MethodPassword,
	}

	if _, err := s.SendVerificationEmail(ctx, user.ID); err != nil {
		s.logger.Error("initial verification mail failed", "user_id", user.ID, "error", err)
	}

	s.emit(session.Event{Type: session.EventSignedIn, Identity: identityOf(principal)})
	return principal, nil
}

// SignOut emits the sign-out event. Session destruction is the transport
// layer's job.
func (s *Service) SignOut(userID int64) {
	s.emit(session.Event{Type: session.EventSignedOut})
	s.logger.Info("signed out", "user_id", userID)
}

// SendVerificationEmail issues a fresh token and mails the verification
// link. Repeated requests inside the cooldown window fail with
// ErrCooldownActive; the active cooldown is returned either way so callers
// can surface the remaining wait. The window only starts counting once the
// mail actually went out; a failed attempt may be retried immediately.
func (s *Service) SendVerificationEmail(ctx context.Context, userID int64) (email.Cooldown, error) {
	now := s.now()

	// The cooldown is armed up front so concurrent requests for the same
	// user throttle each other, and released again on every failure path.
	s.mu.Lock()
	cd := s.cooldowns[userID]
	if !cd.Expired(now) {
		s.mu.Unlock()
		metrics.VerificationMailsTotal.WithLabelValues("throttled").Inc()
		return cd, ErrCooldownActive
	}
	cd = email.StartCooldown(now, s.cooldown)
	s.cooldowns[userID] = cd
	s.mu.Unlock()

	release := func() {
		s.mu.Lock()
		delete(s.cooldowns, userID)
		s.mu.Unlock()
	}

	user, err := s.q.GetAuthUser(ctx, userID)
	if err != nil {
		release()
		return email.Cooldown{}, err
	}
	if user.EmailVerified {
		release()
		return email.Cooldown{}, ErrAlreadyVerified
	}

	token := uuid.NewString()
	err = s.q.SetAuthUserVerifyToken(ctx, db.SetAuthUserVerifyTokenParams{
		ID:           userID,
		VerifyToken:  token,
		VerifySentAt: pgtype.Timestamptz{Time: now, Valid: true},
	})
	if err != nil {
		release()
		return email.Cooldown{}, err
	}

	if err := s.mailer.Send(ctx, verificationMessage(user, s.baseURL, token)); err != nil {
		metrics.VerificationMailsTotal.WithLabelValues("failure").Inc()
		release()
		return email.Cooldown{}, err
	}
	metrics.VerificationMailsTotal.WithLabelValues("success").Inc()
	s.logger.Info("verification mail sent", "user_id", userID)
	return cd, nil
}

// VerificationCooldown returns the user's active resend cooldown, if any.
func (s *Service) VerificationCooldown(userID int64) email.Cooldown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cooldowns[userID]
}

// VerifyEmail consumes a verification token, marks the account and its
// member profile verified, and emits the verified event.
func (s *Service) VerifyEmail(ctx context.Context, token string) (auth.Principal, error) {
	if token == "" {
		return auth.Principal{}, ErrInvalidToken
	}
	user, err := s.q.GetAuthUserByVerifyToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Principal{}, ErrInvalidToken
		}
		return auth.Principal{}, err
	}
	if err := s.q.MarkAuthUserVerified(ctx, user.ID); err != nil {
		return auth.Principal{}, err
	}

	profileID := strconv.FormatInt(user.ID, 10)
	err = s.docs.UpdateDocument(ctx, member.Collection, profileID, map[string]any{"verified": true}, true)
	if err != nil && !errors.Is(err, docstore.ErrNotFound) {
		s.logger.Error("marking member profile verified failed", "user_id", user.ID, "error", err)
	}

	principal := auth.Principal{
		UserID:        user.ID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		Role:          user.Role,
		EmailVerified: true,
		Method:        auth.MethodPassword,
	}
	s.emit(session.Event{Type: session.EventVerified, Identity: identityOf(principal)})
	return principal, nil
}

// Principal reloads the stored principal, for session restoration.
func (s *Service) Principal(ctx context.Context, userID int64) (auth.Principal, error) {
	user, err := s.q.GetAuthUser(ctx, userID)
	if err != nil {
		return auth.Principal{}, err
	}
	if !user.IsActive {
		return auth.Principal{}, auth.ErrInvalidCredentials
	}
	return auth.Principal{
		UserID:        user.ID,
		Email:         user.Email,
		DisplayName:   user.DisplayName,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
		Method:        auth.MethodPassword,
	}, nil
}

func verificationMessage(user db.AuthUser, baseURL, token string) email.Message {
	link := baseURL + "/verify?token=" + token
	return email.Message{
		To:      user.Email,
		Subject: "Verifikasi email Angkasa kamu",
		Text: "Halo " + user.DisplayName + ",\n\n" +
			"Klik tautan berikut untuk memverifikasi email kamu:\n" + link + "\n\n" +
			"Abaikan email ini jika kamu tidak mendaftar di Angkasa.",
		HTML: "<p>Halo " + user.DisplayName + ",</p>" +
			"<p>Klik tautan berikut untuk memverifikasi email kamu:</p>" +
			`<p><a href="` + link + `">Verifikasi email</a></p>` +
			"<p>Abaikan email ini jika kamu tidak mendaftar di Angkasa.</p>",
	}
}
