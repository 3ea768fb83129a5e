package session

import (
	"net/http"
	"time"

	"OrderDesk/internal/apiclient"
)

const (
	CookieAdminToken  = "authToken"
	CookieClientToken = "clientAuthToken"
	CookieUserRole    = "userRole"
	CookieUserName    = "userName"
	CookieUserEmail   = "userEmail"
	CookieSessionID   = "sid"
)

const (
	ClientTokenTTL = 7 * 24 * time.Hour
	AdminTokenTTL  = 30 * 24 * time.Hour
	sessionIDTTL   = 365 * 24 * time.Hour
)

type CookieConfig struct {
	// Secure is turned off only for plain-http local development.
	Secure bool
	Domain string
}

type Profile struct {
	Role  string `json:"role"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Cookies struct {
	cfg CookieConfig
	now func() time.Time
}

func NewCookies(cfg CookieConfig) *Cookies {
	return &Cookies{cfg: cfg, now: time.Now}
}

// SetLogin stores the token for scope plus the profile cookies.
func (c *Cookies) SetLogin(w http.ResponseWriter, scope apiclient.Scope, token string, p Profile) {
	name, ttl := CookieClientToken, ClientTokenTTL
	if scope == apiclient.ScopeAdmin {
		name, ttl = CookieAdminToken, AdminTokenTTL
	}

	exp := tokenExpiry(token, c.now(), ttl)
	c.set(w, name, token, exp)
	c.set(w, CookieUserRole, p.Role, exp)
	c.set(w, CookieUserName, p.Name, exp)
	c.set(w, CookieUserEmail, p.Email, exp)
}

func (c *Cookies) ClearLogin(w http.ResponseWriter) {
	for _, name := range []string{CookieAdminToken, CookieClientToken, CookieUserRole, CookieUserName, CookieUserEmail} {
		http.SetCookie(w, c.cookie(name, "", -1))
	}
}

func (c *Cookies) SetSessionID(w http.ResponseWriter, id string) {
	c.set(w, CookieSessionID, id, c.now().Add(sessionIDTTL))
}

func (c *Cookies) set(w http.ResponseWriter, name, value string, exp time.Time) {
	if value == "" {
		return
	}
	maxAge := int(exp.Sub(c.now()).Seconds())
	if maxAge <= 0 {
		maxAge = -1
	}
	ck := c.cookie(name, value, maxAge)
	ck.Expires = exp
	http.SetCookie(w, ck)
}

func (c *Cookies) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.cfg.Domain,
		MaxAge:   maxAge,
		Secure:   c.cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func ProfileFromRequest(r *http.Request) Profile {
	return Profile{
		Role:  cookieValue(r, CookieUserRole),
		Name:  cookieValue(r, CookieUserName),
		Email: cookieValue(r, CookieUserEmail),
	}
}

func cookieValue(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}
