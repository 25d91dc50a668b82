package auth

import (
	"net/http"
)

// SessionCookieName is the cookie carrying the identity provider's session secret.
const SessionCookieName = "session-token"

// SessionCookie builds the session cookie. The secret is opaque and
// provider-managed, so there is no local expiry: the cookie lives until the
// provider invalidates the session or the browser closes it out.
func SessionCookie(secret string) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    secret,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   true,
	}
}

// ClearSessionCookie returns a cookie that removes the session cookie.
func ClearSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Secure:   true,
		MaxAge:   -1,
	}
}
