package storefront

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"OrderDesk/internal/apiclient"
	"OrderDesk/internal/cart"
	"OrderDesk/internal/menu"
	"OrderDesk/internal/offers"
	"OrderDesk/internal/order"
	"OrderDesk/internal/session"
	"OrderDesk/pkg/kit"
)

// badInput are caller mistakes caught before reaching the backend.
var badInput = []error{
	cart.ErrBadItem,
	cart.ErrBadQuantity,
	offers.ErrRefRequired,
	offers.ErrOrderIDRequired,
	order.ErrOrderIDRequired,
	menu.ErrUnknownSize,
	menu.ErrUnknownExtra,
	session.ErrContactRequired,
	session.ErrOTPRequired,
	session.ErrCredentialsRequired,
	session.ErrNoSession,
}

// writeErr maps client-library errors onto the HTTP response.
func (s *Server) writeErr(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apiclient.APIError

	switch {
	case errors.Is(err, apiclient.ErrAuthRequired):
		kit.WriteError(w, r, http.StatusUnauthorized, "login required", nil)
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		kit.WriteError(w, r, status, apiErr.Error(), nil)
	case errors.Is(err, apiclient.ErrUnavailable):
		kit.WriteError(w, r, http.StatusBadGateway, "upstream unavailable", nil)
	case errors.Is(err, session.ErrNoToken):
		s.Log.Error("login without token", zap.Error(err))
		kit.WriteError(w, r, http.StatusBadGateway, "upstream returned no token", nil)
	case isBadInput(err):
		kit.WriteError(w, r, http.StatusBadRequest, err.Error(), nil)
	default:
		s.Log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
	}
}

func isBadInput(err error) bool {
	for _, e := range badInput {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}
