package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"OrderDesk/internal/apiclient"
)

// requestTokens reads the auth cookies from the request on every lookup;
// nothing is cached between calls.
type requestTokens struct {
	r *http.Request
}

func Tokens(r *http.Request) apiclient.TokenSource {
	return requestTokens{r: r}
}

func (t requestTokens) Token(s apiclient.Scope) (string, bool) {
	var name string
	switch s {
	case apiclient.ScopeAdmin:
		name = CookieAdminToken
	case apiclient.ScopeClient:
		name = CookieClientToken
	default:
		return "", false
	}
	v := cookieValue(t.r, name)
	return v, v != ""
}

// tokenExpiry caps the default cookie lifetime by the token's own exp claim
// when the backend hands out JWTs. The signature is not checked: the BFF
// cannot verify backend tokens and only uses exp for cookie bookkeeping.
func tokenExpiry(token string, now time.Time, ttl time.Duration) time.Time {
	def := now.Add(ttl)

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return def
	}
	if claims.ExpiresAt == nil {
		return def
	}
	if exp := claims.ExpiresAt.Time; exp.Before(def) {
		return exp
	}
	return def
}
