// Package auth verifies bearer session tokens issued by the identity gateway.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wellnest/messaging/internal/domain"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
)

// Verifier turns a bearer token into a verified session.
type Verifier interface {
	Verify(tokenString string) (domain.Session, error)
}

// Claims carried by a session token.
type Claims struct {
	Role     string `json:"role"`
	OrgScope string `json:"org,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier implements Verifier using HS256 signed JWTs.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a new JWT verifier with the given secret.
func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

// Verify validates the token and extracts participant id, role and
// organization scope.
func (v *JWTVerifier) Verify(tokenString string) (domain.Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Session{}, ErrExpiredToken
		}
		return domain.Session{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return domain.Session{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return domain.Session{}, fmt.Errorf("%w: sub", ErrMissingClaim)
	}
	if claims.Role == "" {
		return domain.Session{}, fmt.Errorf("%w: role", ErrMissingClaim)
	}

	return domain.Session{
		ParticipantID: claims.Subject,
		Role:          domain.Role(claims.Role),
		OrgScopeID:    claims.OrgScope,
	}, nil
}

// Generate signs a token for session valid for expiresIn.
func (v *JWTVerifier) Generate(session domain.Session, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Role:     string(session.Role),
		OrgScope: session.OrgScopeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.ParticipantID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}
