package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"blogcms/internal/metrics"
	"blogcms/internal/models"
	"blogcms/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	// MaxPasswordBytes is bcrypt's input limit; it counts bytes, not characters.
	MaxPasswordBytes = 72
)

var (
	// ErrInvalidCredentials covers every login failure. Callers must not
	// distinguish an unknown username from a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrSessionExpired     = errors.New("session expired or revoked")
	ErrInvalidToken       = errors.New("invalid token")
	ErrWeakPassword       = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrPasswordTooLong    = fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
	ErrInvalidUsername    = errors.New("username is required")
)

type AuthConfig struct {
	Secret     string
	SessionTTL time.Duration
	BcryptCost int
}

// Principal identifies the caller behind a verified token.
type Principal struct {
	AccountID uint
	Username  string
	SessionID string
	ExpiresAt time.Time
}

type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   *models.Account `json:"account"`
}

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type AuthService struct {
	accounts repository.AccountRepository
	sessions repository.SessionRepository
	secret   []byte
	ttl      time.Duration
	cost     int
	logger   *slog.Logger
	now      func() time.Time

	dummyOnce sync.Once
	dummyHash []byte
}

func NewAuthService(accounts repository.AccountRepository, sessions repository.SessionRepository, cfg AuthConfig, logger *slog.Logger) *AuthService {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		accounts: accounts,
		sessions: sessions,
		secret:   []byte(cfg.Secret),
		ttl:      cfg.SessionTTL,
		cost:     cfg.BcryptCost,
		logger:   logger,
		now:      time.Now,
	}
}

// Signup hashes the password and stores a new account. A taken username
// surfaces as repository.ErrUsernameTaken.
func (s *AuthService) Signup(ctx context.Context, username, password string) (*models.Account, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrInvalidUsername
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}
	if len(password) > MaxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &models.Account{Username: username, PasswordHash: string(hash)}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("account created", "account_id", account.ID, "username", account.Username)
	return account, nil
}

// Login checks the credentials, opens a session and returns a signed token
// bound to it.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)

	account, err := s.accounts.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, repository.ErrAccountNotFound) {
			metrics.RecordLogin("error")
			return nil, err
		}
		// keep the timing of unknown usernames close to wrong passwords
		_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
		metrics.RecordLogin("invalid_credentials")
		s.logger.Info("login rejected", "username", username)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		metrics.RecordLogin("invalid_credentials")
		s.logger.Info("login rejected", "username", username)
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	session := &models.Session{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		metrics.RecordLogin("error")
		return nil, err
	}

	token, err := s.sign(account.ID, session.ID, now, session.ExpiresAt)
	if err != nil {
		metrics.RecordLogin("error")
		return nil, err
	}

	metrics.RecordLogin("success")
	s.logger.Info("login succeeded", "account_id", account.ID, "session_id", session.ID)
	return &LoginResult{Token: token, ExpiresAt: session.ExpiresAt, Account: account}, nil
}

// Authenticate verifies the token and the session it names. Revoked or
// expired sessions are rejected even when the token itself is still valid.
func (s *AuthService) Authenticate(ctx context.Context, tokenString string) (*Principal, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	accountID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}

	session, err := s.sessions.FindByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	if session.AccountID != uint(accountID) {
		return nil, ErrInvalidToken
	}
	if session.Expired(s.now()) {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			s.logger.Warn("failed to drop expired session", "session_id", session.ID, "error", err)
		}
		return nil, ErrSessionExpired
	}

	account, err := s.accounts.FindByID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}

	return &Principal{
		AccountID: account.ID,
		Username:  account.Username,
		SessionID: session.ID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.logger.Info("session closed", "session_id", sessionID)
	return nil
}

// PurgeExpiredSessions removes sessions past their lifetime.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return s.sessions.DeleteExpired(ctx, s.now())
}

func (s *AuthService) sign(accountID uint, sessionID string, issuedAt, expiresAt time.Time) (string, error) {
	claims := sessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(accountID), 10),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) dummy() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("blogcms-placeholder-password"), s.cost)
		if err != nil {
			s.logger.Error("failed to build placeholder hash", "error", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
