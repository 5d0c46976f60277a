package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/hairbystephanie/site/backend/go-services/internal/sessions"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// mapToken implements Token over a fixed claim set
type mapToken map[string]interface{}

func (t mapToken) Claims(v interface{}) error {
	mm, ok := v.(*map[string]interface{})
	if !ok {
		return fmt.Errorf("unsupported claims type %T", v)
	}
	*mm = t
	return nil
}

// staticVerifier accepts exactly one raw token
type staticVerifier struct {
	raw    string
	claims mapToken
}

func (s staticVerifier) Verify(_ context.Context, raw string) (Token, error) {
	if raw != s.raw {
		return nil, fmt.Errorf("token not recognised")
	}
	return s.claims, nil
}

var adminVerifier = staticVerifier{raw: "admin-token", claims: mapToken{"sub": "admin"}}

// protected serves GET /content/private behind AuthMiddleware and echoes
// the username the middleware stored.
func protected(t *testing.T, ver Verifier, header string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.GET("/content/private", AuthMiddleware(ver), func(c *gin.Context) {
		_, ok := c.Get(ClaimsKey)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"token": c.GetString(TokenKey), "username": c.GetString(UsernameKey)})
	})
	req := httptest.NewRequest(http.MethodGet, "/content/private", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rw := httptest.NewRecorder()
	r.ServeHTTP(rw, req)
	return rw
}

func TestAuthMiddleware(t *testing.T) {
	cases := []struct {
		name   string
		header string
		code   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic YWRtaW46eA==", http.StatusUnauthorized},
		{"bearer without token", "Bearer", http.StatusUnauthorized},
		{"unknown token", "Bearer someone-else", http.StatusUnauthorized},
		{"valid token", "Bearer admin-token", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rw := protected(t, adminVerifier, tc.header)
			require.Equal(t, tc.code, rw.Code, rw.Body.String())
		})
	}
}

func TestAuthMiddleware_SetsUsername(t *testing.T) {
	rw := protected(t, adminVerifier, "Bearer admin-token")
	require.Equal(t, http.StatusOK, rw.Code)
	require.JSONEq(t, `{"token":"admin-token","username":"admin"}`, rw.Body.String())
}

func TestAuthMiddleware_RejectsRevokedToken(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	sessions.SetBlacklistClient(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	defer sessions.SetBlacklistClient(nil)

	require.NoError(t, sessions.BlacklistAccessToken(context.Background(), "admin-token", time.Minute))

	rw := protected(t, adminVerifier, "Bearer admin-token")
	require.Equal(t, http.StatusUnauthorized, rw.Code)
	require.Contains(t, rw.Body.String(), "token revoked")
}

func TestAuthMiddleware_RevocationStoreDownFailsClosed(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	sessions.SetBlacklistClient(redis.NewClient(&redis.Options{Addr: m.Addr(), MaxRetries: -1}))
	defer sessions.SetBlacklistClient(nil)
	m.Close()

	rw := protected(t, adminVerifier, "Bearer admin-token")
	require.Equal(t, http.StatusServiceUnavailable, rw.Code)
}

func TestFirstOf(t *testing.T) {
	v := FirstOf(nil,
		staticVerifier{raw: "a", claims: mapToken{"sub": "alice"}},
		staticVerifier{raw: "b", claims: mapToken{"sub": "bob"}},
	)

	tok, err := v.Verify(context.Background(), "b")
	require.NoError(t, err)
	var claims map[string]interface{}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "bob", claims["sub"])

	_, err = v.Verify(context.Background(), "c")
	require.Error(t, err)

	_, err = FirstOf().Verify(context.Background(), "a")
	require.Error(t, err)
}

func TestUsernameFromClaims(t *testing.T) {
	require.Equal(t, "steph", usernameFromClaims(map[string]interface{}{"sub": "abc-123", "preferred_username": "steph"}))
	require.Equal(t, "admin", usernameFromClaims(map[string]interface{}{"sub": "admin"}))
	require.Equal(t, "", usernameFromClaims(map[string]interface{}{}))
}
