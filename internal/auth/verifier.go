package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Token verification errors
var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// Known roles carried in token claims
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Claims are the verified fields of an access token
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Verifier validates HS256 access tokens. Verified tokens are cached
// keyed by the raw token string so hot clients skip signature checks;
// expiry is still enforced on every lookup.
type Verifier struct {
	secret []byte
	cache  *expirable.LRU[string, Claims]
}

// NewVerifier creates a token verifier with an expiring LRU cache of
// verified claims.
func NewVerifier(secret string, cacheSize int, cacheTTL time.Duration) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		cache:  expirable.NewLRU[string, Claims](cacheSize, nil, cacheTTL),
	}
}

// Verify parses and validates a raw token and returns its claims
func (v *Verifier) Verify(raw string) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrMissingToken
	}

	if claims, ok := v.cache.Get(raw); ok {
		// Cached entries can outlive the token's own expiry
		if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
			v.cache.Remove(raw)
			return Claims{}, ErrTokenExpired
		}
		return claims, nil
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		// Prevent alg confusion
		if t.Method == nil || t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, ErrTokenInvalid
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithLeeway(30*time.Second))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}
	if !parsed.Valid {
		return Claims{}, ErrTokenInvalid
	}
	if claims.UserID == "" {
		return Claims{}, ErrTokenInvalid
	}
	if claims.Role == "" {
		claims.Role = RoleUser
	}

	v.cache.Add(raw, *claims)
	return *claims, nil
}
