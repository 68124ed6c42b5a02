package auth

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"
)

// The backend bearer token lives in its own encoded cookie, separate from
// the session, so rotating the token does not invalidate the session and
// the session cookie stays small.
const tokenCookieName = "merchdesk-token"

// TokenCodec encodes the backend API token into a tamper-proof cookie.
type TokenCodec struct {
	sc     *securecookie.SecureCookie
	secure bool
}

// NewTokenCodec builds a TokenCodec from the shared session key.
func NewTokenCodec(sessionKey string, secure bool) *TokenCodec {
	hashKey := []byte(sessionKey)
	return &TokenCodec{sc: securecookie.New(hashKey, nil), secure: secure}
}

// Set stores the bearer token for subsequent requests.
func (c *TokenCodec) Set(w http.ResponseWriter, token string, ttl time.Duration) error {
	encoded, err := c.sc.Encode(tokenCookieName, token)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Secure:   c.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Get returns the bearer token from the request, or "" when absent or
// invalid.
func (c *TokenCodec) Get(r *http.Request) string {
	cookie, err := r.Cookie(tokenCookieName)
	if err != nil {
		return ""
	}
	var token string
	if err := c.sc.Decode(tokenCookieName, cookie.Value, &token); err != nil {
		return ""
	}
	return token
}

// Clear removes the token cookie.
func (c *TokenCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     tokenCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   c.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
