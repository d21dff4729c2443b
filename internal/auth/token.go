package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/zerowaste/connect/internal/model"
)

// ErrInvalidToken is returned for any token that fails signature,
// expiry or claim checks.
var ErrInvalidToken = errors.New("invalid token")

// Claims is what the server recovers from a verified access token.
type Claims struct {
	AccountID uint64
	Role      model.Role
}

// NewAccessToken builds and signs an HS256 JWT for an account. The JWT
// carries the standard subject (sub), role, expiration (exp) and issued
// at (iat) claims. It returns the serialized token and its expiry.
func NewAccessToken(secret string, accountID uint64, role model.Role, ttlMin int) (string, time.Time, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  accountID,
		"role": string(role),
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseAccessToken verifies a raw bearer token and extracts its claims.
// It is a pure function of the secret and the token; handlers receive it
// through middleware rather than reading ambient state.
func ParseAccessToken(secret, raw string) (Claims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Claims{}, ErrInvalidToken
	}
	mc, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	var c Claims
	switch sub := mc["sub"].(type) {
	case float64:
		c.AccountID = uint64(sub)
	case string:
		n, err := strconv.ParseUint(sub, 10, 64)
		if err != nil {
			return Claims{}, ErrInvalidToken
		}
		c.AccountID = n
	default:
		return Claims{}, ErrInvalidToken
	}
	role, ok := mc["role"].(string)
	if !ok || !model.Role(role).Valid() {
		return Claims{}, ErrInvalidToken
	}
	c.Role = model.Role(role)
	if c.AccountID == 0 {
		return Claims{}, ErrInvalidToken
	}
	return c, nil
}
