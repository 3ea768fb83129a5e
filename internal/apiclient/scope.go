package apiclient

import (
	"context"
	"strings"
)

// Scope selects which auth token a request carries.
type Scope int

const (
	// ScopeAuto infers the scope from the request path.
	ScopeAuto Scope = iota
	ScopeNone
	ScopeAdmin
	ScopeClient
)

func (s Scope) String() string {
	switch s {
	case ScopeNone:
		return "none"
	case ScopeAdmin:
		return "admin"
	case ScopeClient:
		return "client"
	default:
		return "auto"
	}
}

var adminPathFamilies = []string{"/client/owner/", "/menu/", "/management/"}

const clientPathFamily = "/client/customer/"

func ScopeFromPath(url string) Scope {
	for _, p := range adminPathFamilies {
		if strings.Contains(url, p) {
			return ScopeAdmin
		}
	}
	if strings.Contains(url, clientPathFamily) {
		return ScopeClient
	}
	return ScopeNone
}

// TokenSource yields the token for a scope. Implementations are expected to
// read the underlying cookie on every call.
type TokenSource interface {
	Token(Scope) (string, bool)
}

// StaticTokens is a fixed TokenSource.
type StaticTokens struct {
	Admin  string
	Client string
}

func (t StaticTokens) Token(s Scope) (string, bool) {
	switch s {
	case ScopeAdmin:
		return t.Admin, t.Admin != ""
	case ScopeClient:
		return t.Client, t.Client != ""
	default:
		return "", false
	}
}

type ctxKey string

const tokensKey ctxKey = "tokens"

func ContextWithTokens(ctx context.Context, ts TokenSource) context.Context {
	return context.WithValue(ctx, tokensKey, ts)
}

func TokensFromContext(ctx context.Context) (TokenSource, bool) {
	ts, ok := ctx.Value(tokensKey).(TokenSource)
	return ts, ok && ts != nil
}

func tokenFor(ctx context.Context, s Scope) (string, bool) {
	if s == ScopeNone {
		return "", false
	}
	ts, ok := TokensFromContext(ctx)
	if !ok {
		return "", false
	}
	return ts.Token(s)
}
