package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenMalformed = errors.New("token malformed")
)

// TokenClaims is the verified content of a token.
type TokenClaims struct {
	Subject   uuid.UUID
	ID        string
	ExpiresAt time.Time
}

// TokenService mints and verifies HS256 tokens carrying a subject and an expiry.
// It holds no state besides its secret, so tokens cannot be revoked individually.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(secret []byte, opts ...TokenOption) *TokenService {
	s := &TokenService{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue returns a token for subject that expires ttl from now.
func (s *TokenService) Issue(subject uuid.UUID, ttl time.Duration) (string, error) {
	return s.sign(jwt.RegisteredClaims{
		Subject:   subject.String(),
		ExpiresAt: jwt.NewNumericDate(s.now().Add(ttl)),
	})
}

// IssueWithID is Issue plus a random jti, so that two tokens minted for the
// same subject in the same second are still distinguishable.
func (s *TokenService) IssueWithID(subject uuid.UUID, ttl time.Duration) (string, string, error) {
	id := uuid.New().String()
	token, err := s.sign(jwt.RegisteredClaims{
		Subject:   subject.String(),
		ExpiresAt: jwt.NewNumericDate(s.now().Add(ttl)),
		ID:        id,
	})
	if err != nil {
		return "", "", err
	}
	return token, id, nil
}

// Verify returns the token subject, or ErrTokenExpired / ErrTokenMalformed.
func (s *TokenService) Verify(tokenString string) (uuid.UUID, error) {
	claims, err := s.VerifyClaims(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.Subject, nil
}

func (s *TokenService) VerifyClaims(tokenString string) (*TokenClaims, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		// Signature is checked before expiry, so an expired token here was genuinely ours.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if !token.Valid {
		return nil, ErrTokenMalformed
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenMalformed)
	}
	subject, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid subject", ErrTokenMalformed)
	}

	return &TokenClaims{
		Subject:   subject,
		ID:        claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *TokenService) sign(claims jwt.RegisteredClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
