package auth

import "net/http"

// SessionCookieName is the cookie that carries the session token.
const SessionCookieName = "jwtToken"

// Extractor pulls a raw token out of a request. The boolean is false when the
// request carries no token, which is the ordinary unauthenticated case.
type Extractor func(r *http.Request) (string, bool)

// CookieExtractor reads the token from the named cookie.
func CookieExtractor(name string) Extractor {
	return func(r *http.Request) (string, bool) {
		cookie, err := r.Cookie(name)
		if err != nil || cookie.Value == "" {
			return "", false
		}
		return cookie.Value, true
	}
}
