package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Claims carried by access tokens. FranchiseID is nil for
// franqueadora-level admins; franchise-scoped admins carry the id of
// the one franchise they administer.
type Claims struct {
	Sub            string  `json:"sub"`
	Role           string  `json:"role"`
	Email          string  `json:"email"`
	Name           string  `json:"name"`
	FranchiseID    *string `json:"franchise_id,omitempty"`
	FranqueadoraID string  `json:"franqueadora_id,omitempty"`
	jwt.RegisteredClaims
}

func CreateAccessToken(secret string, claims Claims, ttl time.Duration) (string, error) {
	claims.RegisteredClaims = jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl))}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseValidate(secret, tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, errors.New("invalid token")
	}
	return c, nil
}
