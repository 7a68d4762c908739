package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/rp-admin-service/internal/domain"
)

// SessionTTL is the fixed lifetime of every session token.
const SessionTTL = 24 * time.Hour

var (
	// ErrMalformedToken is returned for tokens with a bad signature or structure.
	ErrMalformedToken = errors.New("malformed token")
	// ErrExpiredToken is returned once now >= expires-at.
	ErrExpiredToken = errors.New("token expired")
	// ErrMissingClaims is returned by Issue when principal key or kind is absent.
	ErrMissingClaims = errors.New("principal key and kind are required")
)

// Claims describes the session JWT payload. Subject carries the principal key:
// the username for credential accounts, the Discord user id for Discord identities.
type Claims struct {
	Kind    domain.PrincipalKind `json:"kind,omitempty"`
	Role    domain.AccountRole   `json:"role,omitempty"`
	IsAdmin bool                 `json:"is_admin,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager handles issuing and validating session tokens.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret), now: time.Now}
}

// WithClock replaces the time source, used by tests to move past expiry.
func (tm *TokenManager) WithClock(now func() time.Time) *TokenManager {
	tm.now = now
	return tm
}

// Issue stamps issued-at and expires-at on claims and signs them.
func (tm *TokenManager) Issue(claims Claims) (string, *Claims, error) {
	if claims.Subject == "" || claims.Kind == "" {
		return "", nil, ErrMissingClaims
	}
	issuedAt := tm.now().Truncate(time.Second)
	claims.IssuedAt = jwt.NewNumericDate(issuedAt)
	claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(SessionTTL))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", nil, err
	}
	return tokenString, &claims, nil
}

// Verify validates signature and expiry and returns the decoded claims.
func (tm *TokenManager) Verify(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	},
		jwt.WithTimeFunc(tm.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrMalformedToken
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrMalformedToken
	}
	return claims, nil
}
