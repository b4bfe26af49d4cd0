// Package session signs and verifies the token carried by the browser session
// cookie. The token names a durable session row; revocation is decided by the
// row, not the token.
package session

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/louisbranch/subtrack/internal/platform/id"
)

// MinKeyBytes is the shortest accepted HMAC key.
const MinKeyBytes = 32

var (
	// ErrInvalidToken indicates a token that is malformed, forged, or for
	// another issuer.
	ErrInvalidToken = errors.New("session token is invalid")
	// ErrExpiredToken indicates a well-formed token past its expiry.
	ErrExpiredToken = errors.New("session token is expired")
)

// Claims are the validated contents of a session token.
type Claims struct {
	UserID    string
	SessionID string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}

// Signer issues and verifies HS256 session tokens.
type Signer struct {
	key    []byte
	issuer string
	now    func() time.Time
	newID  func() (string, error)
}

// NewSigner returns a signer for key and issuer. now defaults to time.Now.
func NewSigner(key []byte, issuer string, now func() time.Time) (*Signer, error) {
	if len(key) < MinKeyBytes {
		return nil, fmt.Errorf("session key must be at least %d bytes", MinKeyBytes)
	}
	issuer = strings.TrimSpace(issuer)
	if issuer == "" {
		return nil, fmt.Errorf("session issuer is required")
	}
	if now == nil {
		now = time.Now
	}
	keyCopy := make([]byte, len(key))
	copy(keyCopy, key)
	return &Signer{key: keyCopy, issuer: issuer, now: now, newID: id.NewID}, nil
}

// DecodeKey decodes a standard or URL-safe base64 session key.
func DecodeKey(value string) ([]byte, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, fmt.Errorf("session key is required")
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
		if decoded, err := enc.DecodeString(value); err == nil {
			if len(decoded) < MinKeyBytes {
				return nil, fmt.Errorf("session key must be at least %d bytes", MinKeyBytes)
			}
			return decoded, nil
		}
	}
	return nil, fmt.Errorf("session key must be base64 encoded")
}

// Sign returns a token for the session row sessionID owned by userID.
func (s *Signer) Sign(userID string, sessionID string, expiresAt time.Time) (string, error) {
	userID = strings.TrimSpace(userID)
	sessionID = strings.TrimSpace(sessionID)
	if userID == "" || sessionID == "" {
		return "", fmt.Errorf("user id and session id are required")
	}
	tokenID, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}
	issuedAt := s.now().UTC()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt.UTC()),
		},
		SessionID: sessionID,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies token and returns its claims.
func (s *Signer) Parse(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	var parsed tokenClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if parsed.Issuer != s.issuer {
		return Claims{}, fmt.Errorf("%w: issuer mismatch", ErrInvalidToken)
	}
	if strings.TrimSpace(parsed.Subject) == "" || strings.TrimSpace(parsed.SessionID) == "" {
		return Claims{}, fmt.Errorf("%w: subject and session are required", ErrInvalidToken)
	}
	if parsed.ExpiresAt == nil {
		return Claims{}, fmt.Errorf("%w: exp is required", ErrInvalidToken)
	}
	expiresAt := parsed.ExpiresAt.Time.UTC()
	if !expiresAt.After(s.now().UTC()) {
		return Claims{}, ErrExpiredToken
	}

	claims := Claims{
		UserID:    parsed.Subject,
		SessionID: parsed.SessionID,
		TokenID:   parsed.ID,
		ExpiresAt: expiresAt,
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}
