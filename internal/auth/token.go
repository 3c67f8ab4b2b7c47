package auth

import (
	"errors"
	"fmt"
	"time"

	"anoa.com/unimanage/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultTTL is how long an issued session token stays valid.
const DefaultTTL = 7 * 24 * time.Hour

var (
	ErrMissingToken = apperror.Unauthorized("Missing token")
	ErrInvalidToken = apperror.Unauthorized("Invalid token")
)

// iat carries milliseconds so a revocation does not swallow tokens issued
// later in the same second.
func init() {
	jwt.TimePrecision = time.Millisecond
}

// Claims is the payload of a session token. Subject carries the user id.
type Claims struct {
	Role string `json:"role"`
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret, issuer string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, errors.New("token signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenIssuer{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// SetClock overrides the time source used for issuing and verifying.
func (i *TokenIssuer) SetClock(now func() time.Time) {
	i.now = now
}

func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for the given identity and returns it with its expiry.
func (i *TokenIssuer) Issue(userID uuid.UUID, role, name string) (string, time.Time, error) {
	now := i.now()
	expiresAt := now.Add(i.ttl)

	jti, err := uuid.NewV7()
	if err != nil {
		return "", time.Time{}, err
	}

	claims := Claims{
		Role: role,
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			Subject:   userID.String(),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks signature, algorithm, issuer and expiry, returning the claims.
func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if _, err := claims.UserID(); err != nil || claims.Role == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
