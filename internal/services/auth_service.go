package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/huyhoangtran00/portfolio/internal/mailer"
	"github.com/huyhoangtran00/portfolio/internal/models"
	"github.com/huyhoangtran00/portfolio/internal/repositories"
	"github.com/sirupsen/logrus"
)

const (
	TokenTypeBearer   = "bearer"
	MinPasswordLength = 6
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// PasswordHasher is the one-way credential transform used by the auth flows.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
}

// TokenPair is the login/refresh response.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// AuthTokens groups the signers for each token flavor. Each flavor uses its own
// secret, so a token minted for one purpose never verifies for another.
type AuthTokens struct {
	Access  *TokenService
	Refresh *TokenService
	Reset   *TokenService
}

type AuthConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	ResetTokenTTL   time.Duration
	FrontendURL     string
}

type AuthService struct {
	accountRepo  repositories.AccountRepository
	consumedRepo repositories.ConsumedTokenRepository
	hasher       PasswordHasher
	tokens       AuthTokens
	mailer       mailer.Mailer
	cfg          AuthConfig
	logger       logrus.FieldLogger
}

func NewAuthService(
	accountRepo repositories.AccountRepository,
	consumedRepo repositories.ConsumedTokenRepository,
	hasher PasswordHasher,
	tokens AuthTokens,
	mailer mailer.Mailer,
	cfg AuthConfig,
	logger logrus.FieldLogger,
) *AuthService {
	return &AuthService{
		accountRepo:  accountRepo,
		consumedRepo: consumedRepo,
		hasher:       hasher,
		tokens:       tokens,
		mailer:       mailer,
		cfg:          cfg,
		logger:       logger.WithField("component", "auth"),
	}
}

// Signup registers a new account with empty profile fields.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*models.AccountView, error) {
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	// Check if email already exists
	_, err := s.accountRepo.GetByEmail(ctx, email)
	if err == nil {
		return nil, Conflict(msgEmailRegistered)
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, Internal(msgInternal, fmt.Errorf("failed to check email: %w", err))
	}

	hashedPassword, err := s.hasher.Hash(password)
	if err != nil {
		return nil, Internal(msgInternal, fmt.Errorf("failed to hash password: %w", err))
	}

	account := &models.Account{
		Email:        email,
		PasswordHash: hashedPassword,
	}

	// The unique index settles concurrent signups for the same email.
	err = s.accountRepo.Create(ctx, account)
	if errors.Is(err, repositories.ErrEmailExists) {
		return nil, Conflict(msgEmailRegistered)
	}
	if err != nil {
		return nil, Internal(msgInternal, fmt.Errorf("failed to create account: %w", err))
	}

	s.logger.WithField("account_id", account.ID).Info("account created")

	return models.NewAccountView(account, nil), nil
}

// Login checks credentials and returns an access and a refresh token. Unknown
// email and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	account, err := s.accountRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, Unauthorized(msgBadCredentials)
	}
	if err != nil {
		return nil, Internal(msgInternal, fmt.Errorf("failed to get account: %w", err))
	}

	if !s.hasher.Check(password, account.PasswordHash) {
		return nil, Unauthorized(msgBadCredentials)
	}

	accessToken, err := s.tokens.Access.Issue(account.ID, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, Internal(msgInternal, fmt.Errorf("failed to generate access token: %w", err))
	}
	refreshToken, err := s.tokens.Refresh.Issue(account.ID, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, Internal(msgInternal, fmt.Errorf("failed to generate refresh token: %w", err))
	}

	return &TokenPair{
		AccessToken:  accessToken,
		TokenType:    TokenTypeBearer,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token. The refresh
// token itself is returned unchanged.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	accountID, err := s.tokens.Refresh.Verify(refreshToken)
	if err != nil {
		return nil, Unauthorized(msgInvalidRefresh)
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, Unauthorized(msgInvalidRefresh)
	}
	if err != nil {
		return nil, Internal(msgInternal, fmt.Errorf("failed to get account: %w", err))
	}

	accessToken, err := s.tokens.Access.Issue(account.ID, s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, Internal(msgInternal, fmt.Errorf("failed to generate access token: %w", err))
	}

	return &TokenPair{
		AccessToken:  accessToken,
		TokenType:    TokenTypeBearer,
		RefreshToken: refreshToken,
	}, nil
}

// ForgotPassword mails a reset link when the account exists. The returned
// message is the same whatever happened.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) string {
	log := s.logger.WithField("email", email)

	account, err := s.accountRepo.GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		return msgForgotPassword
	}
	if err != nil {
		log.WithError(err).Error("failed to look up account for password reset")
		return msgForgotPassword
	}

	resetToken, _, err := s.tokens.Reset.IssueWithID(account.ID, s.cfg.ResetTokenTTL)
	if err != nil {
		log.WithError(err).Error("failed to generate reset token")
		return msgForgotPassword
	}

	resetLink := s.resetLink(resetToken)
	sent := s.mailer.Send(ctx,
		account.Email,
		"Password Reset Request for User Portfolio App",
		fmt.Sprintf(`Click <a href="%s">here</a> to reset your password. This link will expire in %s.`,
			resetLink, humanizeDuration(s.cfg.ResetTokenTTL)),
	)
	if !sent {
		log.WithField("account_id", account.ID).Warn("password reset email was not sent")
	}

	return msgForgotPassword
}

// ResetPassword replaces the password of the token's subject. Each reset token
// is accepted once; replays fail as an invalid link even before expiry.
// Existing access and refresh tokens stay valid until they expire.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	claims, err := s.tokens.Reset.VerifyClaims(token)
	if errors.Is(err, ErrTokenExpired) {
		return "", BadRequest(msgResetExpired)
	}
	if err != nil || claims.ID == "" {
		return "", BadRequest(msgResetInvalid)
	}

	if err := ValidatePassword(newPassword); err != nil {
		return "", err
	}

	consumed, err := s.consumedRepo.IsConsumed(ctx, claims.ID)
	if err != nil {
		return "", Internal(msgInternal, err)
	}
	if consumed {
		return "", BadRequest(msgResetInvalid)
	}

	account, err := s.accountRepo.GetByID(ctx, claims.Subject)
	if errors.Is(err, repositories.ErrNotFound) {
		return "", NotFound(msgUserNotFound)
	}
	if err != nil {
		return "", Internal(msgInternal, fmt.Errorf("failed to get account: %w", err))
	}

	hashedPassword, err := s.hasher.Hash(newPassword)
	if err != nil {
		return "", Internal(msgInternal, fmt.Errorf("failed to hash password: %w", err))
	}

	// Consume wins exactly once even if the same link is submitted concurrently.
	err = s.consumedRepo.Consume(ctx, &models.ConsumedResetToken{
		ID:        claims.ID,
		AccountID: account.ID,
		ExpiresAt: claims.ExpiresAt,
	})
	if errors.Is(err, repositories.ErrTokenConsumed) {
		return "", BadRequest(msgResetInvalid)
	}
	if err != nil {
		return "", Internal(msgInternal, err)
	}

	if err := s.accountRepo.UpdatePassword(ctx, account.ID, hashedPassword); err != nil {
		// The password did not change, so the link stays usable.
		if releaseErr := s.consumedRepo.Release(ctx, claims.ID); releaseErr != nil {
			s.logger.WithError(releaseErr).WithField("account_id", account.ID).Warn("failed to release reset token")
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return "", NotFound(msgUserNotFound)
		}
		return "", Internal(msgInternal, err)
	}

	s.logger.WithField("account_id", account.ID).Info("password reset")

	return msgResetDone, nil
}

// ResolveIdentity turns a bearer token into the authenticated account.
func (s *AuthService) ResolveIdentity(ctx context.Context, bearer string) (*models.Account, error) {
	if bearer == "" {
		return nil, Unauthorized(msgCredentials)
	}

	accountID, err := s.tokens.Access.Verify(bearer)
	if err != nil {
		return nil, Unauthorized(msgCredentials)
	}

	account, err := s.accountRepo.GetByID(ctx, accountID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, Unauthorized(msgCredentials)
	}
	if err != nil {
		return nil, Internal(msgInternal, fmt.Errorf("failed to get account: %w", err))
	}
	return account, nil
}

func (s *AuthService) resetLink(token string) string {
	base := strings.TrimRight(s.cfg.FrontendURL, "/")
	return base + "/reset-password?token=" + url.QueryEscape(token)
}

func ValidateEmail(email string) error {
	if email == "" {
		return BadRequest("email is required")
	}
	if !emailRegex.MatchString(email) {
		return BadRequest("invalid email format")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return BadRequest(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	return nil
}

func humanizeDuration(d time.Duration) string {
	switch {
	case d == time.Hour:
		return "1 hour"
	case d%time.Hour == 0:
		return fmt.Sprintf("%d hours", int(d/time.Hour))
	case d%time.Minute == 0:
		return fmt.Sprintf("%d minutes", int(d/time.Minute))
	default:
		return d.String()
	}
}
