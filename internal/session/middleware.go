package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"OrderDesk/internal/apiclient"
	"OrderDesk/pkg/kit"
)

type ctxKey string

const (
	sidKey   ctxKey = "sid"
	prefsKey ctxKey = "prefs"
)

func SessionID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(sidKey).(string)
	return v, ok && v != ""
}

func WithPreferences(ctx context.Context, p Preferences) context.Context {
	return context.WithValue(ctx, prefsKey, p)
}

func PreferencesFromContext(ctx context.Context) Preferences {
	p, _ := ctx.Value(prefsKey).(Preferences)
	return p
}

// Middleware attaches the cookie token source, the anonymous session id and
// its stored preferences to the request context.
func Middleware(store PrefStore, cookies *Cookies, log *zap.Logger) func(http.Handler) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := cookieValue(r, CookieSessionID)
			if _, err := uuid.Parse(sid); err != nil {
				sid = uuid.NewString()
				cookies.SetSessionID(w, sid)
			}

			prefs, err := store.Load(r.Context(), sid)
			if err != nil {
				log.Warn("load preferences failed", zap.Error(err))
				prefs = Preferences{}
			}

			ctx := context.WithValue(r.Context(), sidKey, sid)
			ctx = WithPreferences(ctx, prefs)
			ctx = apiclient.ContextWithTokens(ctx, Tokens(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := Tokens(r).Token(apiclient.ScopeAdmin); !ok {
			kit.WriteError(w, r, http.StatusUnauthorized, "admin login required", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
