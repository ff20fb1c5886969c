package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/platformteam/auth-service/internal/core/domain"
	"github.com/platformteam/auth-service/internal/core/ports"
	"github.com/platformteam/auth-service/internal/core/token"
	"github.com/platformteam/auth-service/internal/pkg/config"
)

// bcryptCost is deliberately above bcrypt.DefaultCost: password hashes must
// survive offline brute force if the users table ever leaks.
const bcryptCost = 12

// ReplayGuard abstracts the fast-path store remembering recently rotated
// refresh tokens (Redis). It is best effort: the atomic consume on the
// relational store is what actually guarantees single use.
type ReplayGuard interface {
	WasRotated(ctx context.Context, tokenString string) (bool, error)
	MarkRotated(ctx context.Context, tokenString string, ttl time.Duration) error
}

type authService struct {
	users    ports.UserRepository
	refresh  ports.RefreshTokenRepository
	codec    *token.Codec
	security config.SecurityConfig
	replay   ReplayGuard
	audit    ports.AuditRecorder
	log      zerolog.Logger
}

// NewAuthService wires the credential store, token codec and audit pipeline
// into an AuthService. replay and audit may be nil; both are optional
// side channels.
func NewAuthService(
	users ports.UserRepository,
	refresh ports.RefreshTokenRepository,
	codec *token.Codec,
	security config.SecurityConfig,
	replay ReplayGuard,
	audit ports.AuditRecorder,
	log zerolog.Logger,
) ports.AuthService {
	return &authService{
		users:    users,
		refresh:  refresh,
		codec:    codec,
		security: security,
		replay:   replay,
		audit:    audit,
		log:      log,
	}
}

// Login verifies the credentials and, on success, issues an access/refresh
// pair and persists the refresh record keyed to the user.
func (s *authService) Login(ctx context.Context, username, password string) (*domain.TokenPair, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.record(domain.AuditActionLogin, username, false, "unknown user")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.record(domain.AuditActionLogin, username, false, "wrong password")
		return nil, domain.ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.record(domain.AuditActionLogin, username, true, "")
	return pair, nil
}

// Refresh rotates a refresh token: the old record is consumed atomically, so
// a given token string can only ever be exchanged once, even under
// concurrent requests.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	if s.replay != nil {
		if rotated, err := s.replay.WasRotated(ctx, refreshToken); err != nil {
			s.log.Warn().Err(err).Msg("replay guard check failed, falling back to store")
		} else if rotated {
			s.record(domain.AuditActionRefresh, "", false, "replayed token")
			return nil, domain.ErrRefreshTokenInvalid
		}
	}

	consumed, err := s.refresh.Consume(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("refresh: consume: %w", err)
	}
	if !consumed {
		s.record(domain.AuditActionRefresh, "", false, "token not in store")
		return nil, domain.ErrRefreshTokenInvalid
	}

	if s.replay != nil {
		if err := s.replay.MarkRotated(ctx, refreshToken, s.security.RefreshLifetime()); err != nil {
			s.log.Warn().Err(err).Msg("failed to mark rotated token")
		}
	}

	username, err := s.codec.Subject(refreshToken, []byte(s.security.RefreshSecret))
	if err != nil {
		s.record(domain.AuditActionRefresh, "", false, "undecodable token")
		return nil, domain.ErrRefreshTokenInvalid
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.record(domain.AuditActionRefresh, username, false, "user gone")
			return nil, domain.ErrRefreshTokenInvalid
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	pair, err := s.issuePair(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	s.record(domain.AuditActionRefresh, username, true, "")
	return pair, nil
}

// Register validates the form, hashes the password and persists the user
// with the default role. The password/confirmation comparison happens before
// any storage access.
func (s *authService) Register(ctx context.Context, in ports.RegisterInput) (*domain.PublicUser, error) {
	if in.Password != in.ConfirmPassword {
		s.record(domain.AuditActionRegister, in.Username, false, "password mismatch")
		return nil, domain.ErrPasswordMismatch
	}

	if _, err := s.users.FindByUsername(ctx, in.Username); err == nil {
		s.record(domain.AuditActionRegister, in.Username, false, "username taken")
		return nil, domain.ErrUsernameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	role, err := s.users.FindRoleByName(ctx, domain.RoleUser)
	if err != nil {
		// The default role missing means the seed data is broken; nothing
		// the caller can do about it.
		return nil, fmt.Errorf("register: default role: %w", err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Roles:        []domain.Role{*role},
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		if errors.Is(err, domain.ErrUsernameTaken) {
			s.record(domain.AuditActionRegister, in.Username, false, "username taken")
			return nil, domain.ErrUsernameTaken
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.record(domain.AuditActionRegister, in.Username, true, "")
	public := created.Public()
	return &public, nil
}

// CurrentUser resolves the authenticated principal to its stored account.
func (s *authService) CurrentUser(ctx context.Context, principal domain.Principal) (*domain.PublicUser, error) {
	user, err := s.users.FindByUsername(ctx, principal.Username)
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	public := user.Public()
	return &public, nil
}

// issuePair mints an access and a refresh token for the user and persists
// the refresh record. Both tokens embed the user's persisted roles so the
// request filter can rebuild authorities without a storage round trip.
func (s *authService) issuePair(ctx context.Context, user *domain.User) (*domain.TokenPair, error) {
	authorities := user.Authorities()

	access, err := s.codec.Issue(user.Username, authorities,
		[]byte(s.security.AccessSecret), s.security.AccessLifetime())
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refresh, err := s.codec.Issue(user.Username, authorities,
		[]byte(s.security.RefreshSecret), s.security.RefreshLifetime())
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	if err := s.refresh.Save(ctx, &domain.RefreshToken{Token: refresh, UserID: user.ID}); err != nil {
		return nil, fmt.Errorf("save refresh token: %w", err)
	}

	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) record(action, username string, success bool, reason string) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		Username:  username,
		Action:    action,
		Success:   success,
		Reason:    reason,
		Timestamp: time.Now().UTC(),
	})
}
