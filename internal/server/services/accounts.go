// Package services contains the gateway server's business logic. This file
// implements AccountService: registration, password login, session secret
// verification and logout.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/campuslink/internal/common"
	"github.com/dmitrijs2005/campuslink/internal/logging"
	"github.com/dmitrijs2005/campuslink/internal/server/auth"
	"github.com/dmitrijs2005/campuslink/internal/server/config"
	"github.com/dmitrijs2005/campuslink/internal/server/models"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/campuslink/internal/server/repositories/users"
)

const (
	minPasswordLength = 8
	// bcrypt ignores input past 72 bytes.
	maxPasswordBytes = 72
)

// Grant is the result of a successful login.
type Grant struct {
	Session *models.Session
	Secret  string
}

type AccountService struct {
	repos           repomanager.RepositoryManager
	users           users.Repository
	sessions        sessions.Repository
	secretKey       []byte
	sessionValidity time.Duration
	bcryptCost      int
	log             logging.Logger
	now             func() time.Time

	// compared against when the email is unknown so both paths cost a bcrypt round
	dummyHash []byte
}

func NewAccountService(m repomanager.RepositoryManager, cfg *config.Config, log logging.Logger) *AccountService {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, _ := bcrypt.GenerateFromPassword(common.GenerateRandByteArray(16), cost)

	return &AccountService{
		repos:           m,
		users:           m.Users(),
		sessions:        m.Sessions(),
		secretKey:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
		bcryptCost:      cost,
		log:             log,
		now:             time.Now,
		dummyHash:       dummy,
	}
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and its empty profile document. A taken email
// yields common.ErrorConflict; a malformed email or a short password yields
// common.ErrorInvalidInput.
func (s *AccountService) Register(ctx context.Context, email, password, name string) (*models.Account, error) {
	email = NormalizeEmail(email)
	if !govalidator.IsEmail(email) {
		return nil, fmt.Errorf("%w: malformed email", common.ErrorInvalidInput)
	}
	if utf8.RuneCountInString(password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", common.ErrorInvalidInput, minPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password too long", common.ErrorInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.repos.CreateAccount(ctx, &models.Account{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	s.log.Info(ctx, "account registered", "user_id", account.ID)
	return account, nil
}

// Login verifies the password and opens a session. Unknown emails and wrong
// passwords both yield common.ErrorUnauthorized.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Grant, error) {
	account, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	if bcrypt.CompareHashAndPassword(account.PasswordHash, []byte(password)) != nil {
		return nil, common.ErrorUnauthorized
	}

	session, err := s.sessions.Create(ctx, account.ID, s.now().Add(s.sessionValidity))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	secret, err := auth.GenerateToken(session.ID, account.ID, s.secretKey, session.Expires)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}

	s.log.Info(ctx, "session created", "user_id", account.ID, "session_id", session.ID)
	return &Grant{Session: session, Secret: secret}, nil
}

// Authenticate resolves a session secret to its account and session. Any
// invalid, expired or revoked secret yields common.ErrorUnauthorized.
func (s *AccountService) Authenticate(ctx context.Context, secret string) (*models.Account, *models.Session, error) {
	claims, err := auth.ParseToken(secret, s.secretKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}

	session, err := s.sessions.Find(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, fmt.Errorf("%w: session revoked", common.ErrorUnauthorized)
		}
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	if session.UserID != claims.UserID() || !session.Expires.After(s.now()) {
		return nil, nil, fmt.Errorf("%w: session expired", common.ErrorUnauthorized)
	}

	account, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, fmt.Errorf("%w: account gone", common.ErrorUnauthorized)
		}
		return nil, nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	return account, session, nil
}

// Logout revokes the session.
func (s *AccountService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorInternal, err)
	}
	s.log.Info(ctx, "session deleted", "session_id", sessionID)
	return nil
}
