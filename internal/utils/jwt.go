package utils // package utils provides helpers for token creation

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken represents a signed JWT access token along with its
// expiry.  Tokens are issued once, at claim time, and are long-lived:
// the chat account linkage is permanent until an admin unlinks it.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for an employee.  It
// takes the signing secret, the employee id, the role ("EMPLOYEE" or
// "ADMIN") and a TTL in minutes.  The JWT carries standard claims:
// subject (sub), role, expiration (exp) and issued-at (iat).
func NewAccessToken(secret string, employeeID uint64, role string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":  employeeID,
		"role": role,
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}
