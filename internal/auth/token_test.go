package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellnest/messaging/internal/domain"
)

var testSession = domain.Session{ParticipantID: "s1", Role: domain.RoleStudent, OrgScopeID: "uni-1"}

func TestGenerateAndVerify(t *testing.T) {
	v := NewJWTVerifier([]byte("secret"))
	token, err := v.Generate(testSession, time.Hour)
	require.NoError(t, err)

	got, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, testSession, got)
}

func TestVerifyExpired(t *testing.T) {
	v := NewJWTVerifier([]byte("secret"))
	token, err := v.Generate(testSession, -time.Minute)
	require.NoError(t, err)

	_, err = v.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewJWTVerifier([]byte("other")).Generate(testSession, time.Hour)
	require.NoError(t, err)

	_, err = NewJWTVerifier([]byte("secret")).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMissingRole(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "s1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTVerifier([]byte("secret")).Verify(signed)
	assert.ErrorIs(t, err, ErrMissingClaim)
}

func TestMiddleware(t *testing.T) {
	v := NewJWTVerifier([]byte("secret"))
	token, err := v.Generate(testSession, time.Hour)
	require.NoError(t, err)

	e := echo.New()
	var seen domain.Session
	handler := Middleware(v)(func(c echo.Context) error {
		seen, _ = SessionFrom(c)
		return c.NoContent(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"valid", "Bearer " + token, http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			require.NoError(t, handler(e.NewContext(req, rec)))
			assert.Equal(t, tt.code, rec.Code)
		})
	}
	assert.Equal(t, testSession, seen)
}
