// Package utils provides helpers for issuing and checking tokens and
// hashing passwords.
package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenConfig carries the signing parameters shared by issuing and parsing.
type TokenConfig struct {
	Secret    string
	Issuer    string
	Audience  string
	AccessTTL time.Duration
}

// AccessToken is a signed JWT together with its expiry. Access tokens are
// short-lived and sent in the Authorization header of protected calls.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// RefreshToken is a long-lived random token used to obtain new access
// tokens. Only the SHA-256 hash of Raw is stored in the database.
type RefreshToken struct {
	Raw string
	Exp time.Time
}

// Claims is the identity extracted from a valid access token.
type Claims struct {
	UserID string
	Email  string
	Role   string
	ID     string // jti
}

var ErrInvalidToken = errors.New("invalid token")

// NewAccessToken builds and signs an HS256 JWT with the standard claims
// (sub, jti, iss, aud, exp, iat) plus email and role.
func NewAccessToken(cfg TokenConfig, userID, email, role string) (AccessToken, error) {
	now := time.Now().UTC()
	exp := now.Add(cfg.AccessTTL)
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"jti":   uuid.NewString(),
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	if cfg.Issuer != "" {
		claims["iss"] = cfg.Issuer
	}
	if cfg.Audience != "" {
		claims["aud"] = cfg.Audience
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(cfg.Secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies signature, expiry, issuer and audience and
// returns the caller's identity.
func ParseAccessToken(cfg TokenConfig, raw string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	out := Claims{}
	out.UserID, _ = mc["sub"].(string)
	out.Email, _ = mc["email"].(string)
	out.Role, _ = mc["role"].(string)
	out.ID, _ = mc["jti"].(string)
	if out.UserID == "" {
		return Claims{}, ErrInvalidToken
	}
	return out, nil
}

// NewRefreshToken returns a random 96-character token valid for ttl.
func NewRefreshToken(ttl time.Duration) (RefreshToken, error) {
	raw, err := randomHex(48)
	if err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{Raw: raw, Exp: time.Now().UTC().Add(ttl)}, nil
}

// HashRefreshRaw returns the hex SHA-256 of a raw refresh token.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
