package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	pkgauth "github.com/kavindu-dev/furnicraft-backend/pkg/auth"
	"github.com/kavindu-dev/furnicraft-backend/pkg/config"
	pkgerrors "github.com/kavindu-dev/furnicraft-backend/pkg/errors"
	"github.com/kavindu-dev/furnicraft-backend/pkg/logger"
	"github.com/kavindu-dev/furnicraft-backend/pkg/security"
)

// LoginInput is the admin login form.
type LoginInput struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=1,max=200"`
}

// LoginResult carries the minted session token and its lifetime.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Username  string
}

// Service authenticates the single configured admin principal and mints
// stateless session tokens for it.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Verify(tokenString string) (*pkgauth.SessionClaims, error)
}

type service struct {
	username     string
	passwordHash string
	session      config.SessionConfig
	logg         *logger.Logger
	now          func() time.Time
}

// ServiceParams carries the auth service dependencies.
type ServiceParams struct {
	Admin   config.AdminConfig
	Session config.SessionConfig
	Logger  *logger.Logger
	Now     func() time.Time
}

// NewService hashes the configured admin password once at startup so the
// plaintext never sits around for the life of the process.
func NewService(params ServiceParams) (Service, error) {
	if params.Admin.Username == "" || params.Admin.Password == "" {
		return nil, fmt.Errorf("admin credentials required")
	}
	if params.Session.Secret == "" {
		return nil, fmt.Errorf("session secret required")
	}
	hash, err := security.HashPassword(params.Admin.Password, security.DefaultArgonParams)
	if err != nil {
		return nil, fmt.Errorf("hashing admin password: %w", err)
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		username:     params.Admin.Username,
		passwordHash: hash,
		session:      params.Session,
		logg:         params.Logger,
		now:          now,
	}, nil
}

// Login validates credentials and mints a session token. Wrong username and
// wrong password produce the same error so the response never reveals which
// half failed.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	usernameMatch := subtle.ConstantTimeCompare(
		[]byte(strings.TrimSpace(input.Username)),
		[]byte(s.username),
	) == 1

	// Always run the hash comparison, even on a username miss, to keep
	// response timing uniform across both failure modes.
	passwordMatch, err := security.VerifyPassword(input.Password, s.passwordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}

	if !usernameMatch || !passwordMatch {
		if s.logg != nil {
			s.logg.Warn(ctx, "admin login rejected")
		}
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	issuedAt := s.now()
	token, err := pkgauth.MintSessionToken(s.session, issuedAt, s.username)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint session token")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithAdmin(ctx, s.username), "admin login accepted")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: issuedAt.Add(s.session.TTL()),
		Username:  s.username,
	}, nil
}

// Verify parses a session token string. Every failure reads as "no session".
func (s *service) Verify(tokenString string) (*pkgauth.SessionClaims, error) {
	claims, err := pkgauth.ParseSessionToken(s.session, tokenString)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session")
	}
	return claims, nil
}
