package security

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

const SessionCookieName = "user_session"

// Claims is the identity carried in the session cookie.
type Claims struct {
	UserID string
	Email  string
	Role   string
}

// SessionAuth issues and verifies signed session tokens and manages the
// cookie that carries them.
type SessionAuth struct {
	tokenAuth *jwtauth.JWTAuth
	ttl       time.Duration
	secure    bool
	now       func() time.Time
}

func NewSessionAuth(secret []byte, ttl time.Duration, secure bool) *SessionAuth {
	return &SessionAuth{
		tokenAuth: jwtauth.New("HS256", secret, nil),
		ttl:       ttl,
		secure:    secure,
		now:       time.Now,
	}
}

// TokenAuth exposes the verifier for jwtauth middleware.
func (s *SessionAuth) TokenAuth() *jwtauth.JWTAuth { return s.tokenAuth }

func (s *SessionAuth) GenerateToken(c Claims) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"id":    c.UserID,
		"email": c.Email,
		"role":  c.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(s.ttl).Unix(),
	}
	_, tokenString, err := s.tokenAuth.Encode(claims)
	if err != nil {
		return "", fmt.Errorf("security.GenerateToken: %w", err)
	}
	return tokenString, nil
}

// ParseToken verifies signature and expiry and returns the identity.
func (s *SessionAuth) ParseToken(tokenString string) (Claims, error) {
	token, err := jwtauth.VerifyToken(s.tokenAuth, tokenString)
	if err != nil {
		return Claims{}, err
	}
	m, err := token.AsMap(context.Background())
	if err != nil {
		return Claims{}, err
	}
	return ClaimsFromMap(m)
}

// ClaimsFromMap extracts the identity from decoded token claims.
func ClaimsFromMap(m map[string]interface{}) (Claims, error) {
	id, ok := m["id"].(string)
	if !ok || id == "" {
		return Claims{}, errors.New("id claim is missing or not a string")
	}
	email, _ := m["email"].(string)
	role, ok := m["role"].(string)
	if !ok {
		return Claims{}, errors.New("role claim is missing or not a string")
	}
	return Claims{UserID: id, Email: email, Role: role}, nil
}

func (s *SessionAuth) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *SessionAuth) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// TokenFromCookie is a jwtauth token finder for the session cookie.
func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
