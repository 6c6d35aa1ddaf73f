package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestParseValidToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":    "runner-1",
		"iss":    "workoutlog",
		"exp":    time.Now().Add(time.Hour).Unix(),
		"scopes": []string{ScopeWorkoutsRead, ScopeWorkoutsWrite},
	})

	claims, err := Parse(token, Config{Secret: testSecret, Issuer: "workoutlog"})
	require.NoError(t, err)
	require.Equal(t, "runner-1", claims.Subject)
	require.True(t, claims.HasScope(ScopeWorkoutsRead))
	require.True(t, claims.HasScope(ScopeWorkoutsWrite))
}

func TestParseSpaceSeparatedScopes(t *testing.T) {
	token := signToken(t, jwt.MapClaims{
		"sub":    "runner-1",
		"exp":    time.Now().Add(time.Hour).Unix(),
		"scopes": "workouts:read other",
	})

	claims, err := Parse(token, Config{Secret: testSecret})
	require.NoError(t, err)
	require.True(t, claims.HasScope(ScopeWorkoutsRead))
	require.False(t, claims.HasScope(ScopeWorkoutsWrite))
}

func TestParseRejectsBadTokens(t *testing.T) {
	cases := map[string]string{
		"expired": signToken(t, jwt.MapClaims{"sub": "x", "exp": time.Now().Add(-time.Hour).Unix()}),
		"no exp":  signToken(t, jwt.MapClaims{"sub": "x"}),
		"no sub":  signToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}),
		"issuer":  signToken(t, jwt.MapClaims{"sub": "x", "iss": "other", "exp": time.Now().Add(time.Hour).Unix()}),
		"garbage": "not-a-jwt",
	}
	for name, token := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(token, Config{Secret: testSecret, Issuer: "workoutlog"})
			require.ErrorIs(t, err, ErrInvalidToken)
		})
	}

	_, err := Parse("  ", Config{Secret: testSecret})
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestMiddleware(t *testing.T) {
	var got *Claims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	mw := NewMiddleware(Config{Secret: testSecret})

	rr := httptest.NewRecorder()
	mw.Wrap(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/workouts", nil))
	require.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	mw.Wrap(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	token := signToken(t, jwt.MapClaims{"sub": "runner-2", "exp": time.Now().Add(time.Hour).Unix()})
	req := httptest.NewRequest(http.MethodGet, "/v1/workouts", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	mw.Wrap(next).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "runner-2", got.Subject)

	disabled := NewMiddleware(Config{Disabled: true})
	rr = httptest.NewRecorder()
	disabled.Wrap(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/workouts", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, got.HasScope(ScopeWorkoutsWrite))
}
