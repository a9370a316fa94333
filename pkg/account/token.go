package account

import (
	"time"

	"github.com/example/retailshop/pkg/apperr"
	"github.com/example/retailshop/pkg/config"
	"github.com/example/retailshop/pkg/models"
	"github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"name"`
	Admin    bool   `json:"admin"`
	jwt.RegisteredClaims
}

// Tokens issues and verifies HS256 session tokens.
type Tokens struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(cfg config.AuthConfig) *Tokens {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Tokens{secret: []byte(cfg.JWTSecret), issuer: cfg.Issuer, ttl: ttl, now: time.Now}
}

func (t *Tokens) Issue(user *models.User) (string, error) {
	now := t.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Admin:    user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", apperr.AuthFailure("cannot sign token: %v", err)
	}
	return signed, nil
}

func (t *Tokens) Parse(raw string) (*Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(tok *jwt.Token) (any, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithLeeway(30*time.Second),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, apperr.AuthFailure("invalid token")
	}
	if claims.UserID == "" {
		return nil, apperr.AuthFailure("token has no user")
	}
	return &claims, nil
}
