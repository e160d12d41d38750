package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionAuth_RoundTrip(t *testing.T) {
	auth := NewSessionAuth([]byte("test-secret"), time.Hour, false)

	token, err := auth.GenerateToken(Claims{UserID: "u-1", Email: "a@example.com", Role: "judge"})
	require.NoError(t, err)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, Claims{UserID: "u-1", Email: "a@example.com", Role: "judge"}, claims)
}

func TestSessionAuth_RejectsForeignSignature(t *testing.T) {
	issuer := NewSessionAuth([]byte("secret-a"), time.Hour, false)
	verifier := NewSessionAuth([]byte("secret-b"), time.Hour, false)

	token, err := issuer.GenerateToken(Claims{UserID: "u-1", Role: "admin"})
	require.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestSessionAuth_RejectsExpired(t *testing.T) {
	auth := NewSessionAuth([]byte("test-secret"), time.Hour, false)
	auth.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := auth.GenerateToken(Claims{UserID: "u-1", Role: "student"})
	require.NoError(t, err)

	_, err = auth.ParseToken(token)
	assert.Error(t, err)
}

func TestSessionAuth_RejectsGarbage(t *testing.T) {
	auth := NewSessionAuth([]byte("test-secret"), time.Hour, false)
	_, err := auth.ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestSessionAuth_Cookies(t *testing.T) {
	auth := NewSessionAuth([]byte("test-secret"), 7*24*time.Hour, true)

	rec := httptest.NewRecorder()
	auth.SetCookie(rec, "tok")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, SessionCookieName, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 7*24*60*60, c.MaxAge)

	rec = httptest.NewRecorder()
	auth.ClearCookie(rec)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestTokenFromCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, TokenFromCookie(req))

	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "abc"})
	assert.Equal(t, "abc", TokenFromCookie(req))
}

func TestClaimsFromMap(t *testing.T) {
	_, err := ClaimsFromMap(map[string]interface{}{"role": "admin"})
	assert.Error(t, err)

	_, err = ClaimsFromMap(map[string]interface{}{"id": "u-1"})
	assert.Error(t, err)

	c, err := ClaimsFromMap(map[string]interface{}{"id": "u-1", "role": "admin"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.UserID)
}
