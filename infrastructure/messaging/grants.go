package messaging

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

// GrantSigner mints and verifies channel access tokens. Tokens are HS256 JWTs
// whose claims name the channels they grant read/write on; both broker
// implementations delegate grant issuance here.
type GrantSigner struct {
	secret []byte
}

func NewGrantSigner(secret string) *GrantSigner {
	return &GrantSigner{secret: []byte(secret)}
}

type grantClaims struct {
	Channels []string `json:"channels"`
	jwt.StandardClaims
}

// Sign issues a token for the given channels, expiring ttl from now (UTC).
func (s *GrantSigner) Sign(channels []string, ttl time.Duration) (string, time.Time, error) {
	if len(channels) == 0 {
		return "", time.Time{}, errors.New("no channels requested")
	}
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)
	claims := grantClaims{
		Channels: channels,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Verify checks the token signature and expiry and returns the channels it
// grants access to.
func (s *GrantSigner) Verify(token string) ([]string, error) {
	var claims grantClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, errors.New("invalid grant token")
	}
	return claims.Channels, nil
}
