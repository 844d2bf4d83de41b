package tokens

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/varshinivarma16/booksbackend/internal/config"
	"github.com/varshinivarma16/booksbackend/pkg/middleware"
)

// Token types carried in the "typ" claim. A token is only accepted by the
// parser for its own type, even when both types share a secret.
const (
	typeAccess  = "access"
	typeRefresh = "refresh"
)

// Issuer signs and verifies HS256 access and refresh tokens.
type Issuer struct {
	secret        []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewIssuer(cfg config.JWTConfig) *Issuer {
	refresh := cfg.RefreshSecret
	if refresh == "" {
		refresh = cfg.Secret
	}
	access, rt := cfg.AccessTokenTTL, cfg.RefreshTokenTTL
	if access <= 0 {
		access = time.Hour
	}
	if rt <= 0 {
		rt = 7 * 24 * time.Hour
	}
	return &Issuer{secret: []byte(cfg.Secret), refreshSecret: []byte(refresh), accessTTL: access, refreshTTL: rt}
}

func (i *Issuer) AccessTTL() time.Duration  { return i.accessTTL }
func (i *Issuer) RefreshTTL() time.Duration { return i.refreshTTL }

// AccessToken creates a signed access token for the user.
func (i *Issuer) AccessToken(userID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    userID,
		"userID": userID,
		"role":   role,
		"typ":    typeAccess,
		"iat":    now.Unix(),
		"exp":    now.Add(i.accessTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// RefreshToken creates a refresh token bound to the session id jti.
func (i *Issuer) RefreshToken(userID, jti string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    userID,
		"userID": userID,
		"jti":    jti,
		"typ":    typeRefresh,
		"iat":    now.Unix(),
		"exp":    now.Add(i.refreshTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.refreshSecret)
}

// ParseAccess validates an access token and returns its claims.
func (i *Issuer) ParseAccess(raw string) (jwt.MapClaims, error) {
	return parse(raw, i.secret, typeAccess)
}

// ParseRefresh validates a refresh token and returns its claims.
func (i *Issuer) ParseRefresh(raw string) (jwt.MapClaims, error) {
	claims, err := parse(raw, i.refreshSecret, typeRefresh)
	if err != nil {
		return nil, err
	}
	if _, ok := claims["jti"].(string); !ok {
		return nil, errors.New("refresh token has no session id")
	}
	return claims, nil
}

func parse(raw string, secret []byte, typ string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if got, _ := claims["typ"].(string); got != typ {
		return nil, fmt.Errorf("expected %s token, got %q", typ, got)
	}
	return claims, nil
}

type claimsToken struct{ claims jwt.MapClaims }

func (t claimsToken) Claims(v interface{}) error {
	m, ok := v.(*map[string]interface{})
	if !ok {
		return fmt.Errorf("unsupported claims target %T", v)
	}
	*m = map[string]interface{}(t.claims)
	return nil
}

// Verify lets the issuer back middleware.AuthMiddleware.
func (i *Issuer) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	claims, err := i.ParseAccess(raw)
	if err != nil {
		return nil, err
	}
	return claimsToken{claims: claims}, nil
}

// ExpiresAt reads the exp claim without verifying the signature. Used to size
// blacklist entries at logout.
func ExpiresAt(raw string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return time.Time{}, err
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, errors.New("exp claim not present")
	}
	return exp.Time, nil
}
