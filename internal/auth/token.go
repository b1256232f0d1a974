// Package auth provides JWT token issuance and validation plus the bearer
// middleware guarding the task routes.
//
// Tokens are stateless: everything needed to authorize a request (the user
// id, the validity window) travels inside the signed token, so validation
// never touches the user directory. The signature is HMAC-SHA256 over the
// usual compact form, three dot-separated base64url segments.
//
// Claims carried on the wire:
//
//	uid  subject, the decimal form of the user id
//	jti  fresh random id per token (UUIDv4)
//	iat  issue time, seconds since epoch
//	exp  expiry, always iat + 24h
//
// jti is issued but never checked against anything; revocation is out of
// scope, the field exists for wire compatibility with future support.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenLifetime is the fixed validity window of every issued token.
const TokenLifetime = 24 * time.Hour

// Claims is the JWT payload. RegisteredClaims contributes jti, iat and exp;
// the user id rides in a dedicated "uid" claim rather than "sub", which is
// the shape existing clients expect.
type Claims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// UserID parses the uid claim as an unsigned integer. A token with a
// non-numeric uid is an authorization failure, not a server error.
func (c *Claims) UserID() (uint32, error) {
	id, err := strconv.ParseUint(c.UID, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("auth: non-numeric uid claim %q", c.UID)
	}
	return uint32(id), nil
}

// TokenService signs and verifies bearer tokens. It holds the HMAC secret
// and a clock; it has no mutable state, so concurrent Issue/Validate calls
// need no synchronization.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

// NewTokenService creates a TokenService with the given secret.
// The secret should be at least 32 bytes of random data in production.
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	return &TokenService{secret: []byte(secret), now: time.Now}, nil
}

// Issue creates and signs a token for the given user id with a fresh jti,
// iat = now and exp = now + TokenLifetime.
func (s *TokenService) Issue(userID uint32) (string, error) {
	now := s.now()

	c := Claims{
		UID: strconv.FormatUint(uint64(userID), 10),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Validate parses and verifies a token string and returns its claims.
//
// Beyond the signature and algorithm checks, the validity window is
// re-checked explicitly: exp >= now and iat <= now, both at second
// precision. The library's own time checks run with a leeway so the
// explicit window check is what decides the boundary. A token presented
// exactly at its exp second is still valid; one second later it is not.
func (s *TokenService) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			// Reject tokens that aren't signed with HMAC. Combined with
			// WithValidMethods this blocks algorithm confusion, e.g. "none".
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(s.now),
		// Without leeway the library rejects a token at exactly its exp
		// second; the explicit window check below owns the boundary.
		jwt.WithLeeway(time.Minute),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("auth: token expired")
		}
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("auth: invalid token claims")
	}
	if c.ExpiresAt == nil || c.IssuedAt == nil {
		return nil, errors.New("auth: token missing exp or iat")
	}

	now := s.now().Unix()
	if c.ExpiresAt.Unix() < now || c.IssuedAt.Unix() > now {
		return nil, errors.New("auth: token outside its validity window")
	}

	return c, nil
}
