package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/auth-service/internal/domain"
	apperrors "github.com/spec-kit/auth-service/pkg/util"
)

// TokenManager issues and verifies signed HS256 tokens.
//
// The signing secret is fixed at construction and never mutated, so a single
// manager is shared by all requests without locking. Verification is a pure
// function of the token, the secret and the clock.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	skew   time.Duration
	now    func() time.Time
}

// NewTokenManager builds a manager with the default TTL and clock-skew
// tolerance for verification. A skew of zero means expiry is enforced
// exactly.
func NewTokenManager(secret string, ttl, skew time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = 60 * time.Minute
	}
	if skew < 0 {
		skew = 0
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, skew: skew, now: time.Now}
}

// NewTokenManagerWithClock is NewTokenManager with an injected clock, for
// deterministic verification in tests.
func NewTokenManagerWithClock(secret string, ttl, skew time.Duration, now func() time.Time) *TokenManager {
	tm := NewTokenManager(secret, ttl, skew)
	if now != nil {
		tm.now = now
	}
	return tm
}

// Claims describes the signed token payload.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TTL returns the default token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Issue builds and signs a token for the subject. ttl must be positive.
func (tm *TokenManager) Issue(subject string, role domain.Role, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		return "", time.Time{}, apperrors.NewInvalidTTL("token ttl must be positive")
	}

	now := tm.now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return tokenString, expiresAt, nil
}

// Verify validates encoding, signature and expiry, in that order, and
// returns the identity carried by the token. Each failure mode surfaces as
// its own taxonomy code so callers can log the precise cause.
func (tm *TokenManager) Verify(tokenStr string) (domain.Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	}, jwt.WithTimeFunc(tm.now), jwt.WithLeeway(tm.skew))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return domain.Identity{}, apperrors.NewMalformedToken()
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return domain.Identity{}, apperrors.NewInvalidSignature()
		case errors.Is(err, jwt.ErrTokenExpired):
			return domain.Identity{}, apperrors.NewTokenExpired()
		default:
			return domain.Identity{}, apperrors.NewMalformedToken()
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return domain.Identity{}, apperrors.NewMalformedToken()
	}
	return domain.Identity{Subject: claims.Subject, Role: claims.Role}, nil
}
