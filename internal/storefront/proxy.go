package storefront

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"

	"OrderDesk/internal/apiclient"
	"OrderDesk/pkg/kit"
)

const adminAPIPrefix = "/admin/api"

// NewAdminProxy forwards /admin/api/* to the backend for the analytics
// dashboard. Browser cookies never leave the BFF; the admin token travels as
// an Authorization header instead.
func NewAdminProxy(target string, log *zap.Logger) (http.Handler, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}

	rp := &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(u)
			pr.SetXForwarded()
			InjectToken(pr, apiclient.ScopeAdmin)
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Warn("admin proxy failed", zap.String("path", r.URL.Path), zap.Error(err))
			kit.WriteError(w, r, http.StatusBadGateway, "upstream unavailable", nil)
		},
	}

	return http.StripPrefix(adminAPIPrefix, rp), nil
}

func InjectToken(pr *httputil.ProxyRequest, scope apiclient.Scope) {
	pr.Out.Header.Del("Cookie")
	pr.Out.Header.Del("Authorization")

	ts, ok := apiclient.TokensFromContext(pr.In.Context())
	if !ok {
		return
	}
	if tok, ok := ts.Token(scope); ok {
		pr.Out.Header.Set("Authorization", "Token "+tok)
	}
}
