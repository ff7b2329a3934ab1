package utils // package utils provides helpers for token creation and password hashing

import (
    "errors"
    "time"

    "github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// RoleCoach is the only role allowed to change the lineup.
const RoleCoach = "COACH"

// AccessToken is a signed JWT along with its expiry.
type AccessToken struct {
    Token string    `json:"token"`
    Exp   time.Time `json:"expires"`
}

// NewAccessToken builds and signs an HS256 JWT with sub, role, exp and iat
// claims.  ttlMin must be positive.
func NewAccessToken(secret, subject, role string, ttlMin int) (AccessToken, error) {
    if secret == "" {
        return AccessToken{}, errors.New("empty signing secret")
    }
    if ttlMin <= 0 {
        return AccessToken{}, errors.New("token ttl must be positive")
    }
    now := time.Now().UTC()
    exp := now.Add(time.Duration(ttlMin) * time.Minute)
    claims := jwt.MapClaims{
        "sub":  subject,
        "role": role,
        "exp":  exp.Unix(),
        "iat":  now.Unix(),
    }
    signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
    if err != nil {
        return AccessToken{}, err
    }
    return AccessToken{Token: signed, Exp: exp}, nil
}
