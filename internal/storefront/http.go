package storefront

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"OrderDesk/internal/apiclient"
	"OrderDesk/internal/cart"
	"OrderDesk/internal/menu"
	"OrderDesk/internal/offers"
	"OrderDesk/internal/order"
	"OrderDesk/internal/session"
	"OrderDesk/pkg/kit"
)

type Server struct {
	Log     *zap.Logger
	API     *apiclient.Client
	Menu    *menu.Client
	Cart    *cart.Client
	Offers  *offers.Client
	Orders  *order.Client
	Login   *session.Client
	Prefs   session.PrefStore
	Cookies *session.Cookies
}

// auth

func (s *Server) handleOTPRequest(w http.ResponseWriter, r *http.Request) {
	var req session.OTPRequest
	if !kit.DecodeJSON(w, r, &req) {
		return
	}

	if err := s.Login.RequestOTP(r.Context(), req); err != nil {
		s.writeErr(w, r, err)
		return
	}

	kit.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (s *Server) handleOTPVerify(w http.ResponseWriter, r *http.Request) {
	var req session.OTPVerify
	if !kit.DecodeJSON(w, r, &req) {
		return
	}

	login, err := s.Login.VerifyOTP(r.Context(), req)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	s.Cookies.SetLogin(w, apiclient.ScopeClient, login.Token, login.Profile)
	kit.WriteJSON(w, http.StatusOK, map[string]any{"user": login.Profile})
}

func (s *Server) handleOwnerLogin(w http.ResponseWriter, r *http.Request) {
	var req session.OwnerCredentials
	if !kit.DecodeJSON(w, r, &req) {
		return
	}

	login, err := s.Login.OwnerLogin(r.Context(), req)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	s.Cookies.SetLogin(w, apiclient.ScopeAdmin, login.Token, login.Profile)
	kit.WriteJSON(w, http.StatusOK, map[string]any{"user": login.Profile})
}

// handleLogout drops the auth cookies. The response cache only holds public
// reads, so it is left alone.
func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.Cookies.ClearLogin(w)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	ts, ok := apiclient.TokensFromContext(r.Context())
	if !ok {
		ts = apiclient.StaticTokens{}
	}
	_, client := ts.Token(apiclient.ScopeClient)
	_, admin := ts.Token(apiclient.ScopeAdmin)

	kit.WriteJSON(w, http.StatusOK, map[string]any{
		"user":   session.ProfileFromRequest(r),
		"client": client,
		"admin":  admin,
	})
}

// menu

func (s *Server) handleRestaurantInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.Menu.RestaurantInfo(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, info)
}

func (s *Server) handleMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.Menu.MenuItems(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if items == nil {
		items = []menu.MenuItem{}
	}
	kit.WriteJSON(w, http.StatusOK, items)
}

type quoteReq struct {
	BasePrice menu.Amount `json:"base_price"`
	Size      menu.Size   `json:"size,omitempty"`
	Extras    []string    `json:"extras,omitempty"`
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteReq
	if !kit.DecodeJSON(w, r, &req) {
		return
	}

	sel, err := configure(menu.MenuItem{BasePrice: req.BasePrice}, req.Size, req.Extras, "")
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	kit.WriteJSON(w, http.StatusOK, map[string]string{"total": sel.Total()})
}

// configure replays the options dialog: open, pick size, tick extras once
// each, add notes.
func configure(item menu.MenuItem, size menu.Size, extras []string, notes string) (*menu.Selection, error) {
	sel := menu.NewSelection(item)
	sel.Open()

	if size != "" {
		if err := sel.SetSize(size); err != nil {
			return nil, err
		}
	}

	seen := make(map[string]bool, len(extras))
	for _, id := range extras {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := sel.ToggleExtra(id); err != nil {
			return nil, err
		}
	}

	if err := sel.SetNotes(notes); err != nil {
		return nil, err
	}
	return sel, nil
}

// cart

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	c, err := s.Cart.Get(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, c)
}

// addItemReq is a plain cart line, or a configured one when size or extras
// are present.
type addItemReq struct {
	cart.AddItem
	Size   menu.Size `json:"size,omitempty"`
	Extras []string  `json:"extras,omitempty"`
}

func (s *Server) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemReq
	if !kit.DecodeJSON(w, r, &req) {
		return
	}

	item := req.AddItem
	if req.Size != "" || len(req.Extras) > 0 {
		sel, err := configure(menu.MenuItem{ID: req.MenuItemID}, req.Size, req.Extras, req.SpecialInstructions)
		if err != nil {
			s.writeErr(w, r, err)
			return
		}
		picked, err := sel.AddToCart()
		if err != nil {
			s.writeErr(w, r, err)
			return
		}
		picked.Quantity = req.Quantity

		item = cart.FromSelection(picked)
		item.VariationID = req.VariationID
		item.OptionIDs = req.OptionIDs
	}

	c, err := s.Cart.Add(r.Context(), item)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, c)
}

type quantityReq struct {
	Quantity int `json:"quantity"`
}

func (s *Server) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var req quantityReq
	if !kit.DecodeJSON(w, r, &req) {
		return
	}

	c, err := s.Cart.UpdateQuantity(r.Context(), id, req.Quantity)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, c)
}

func (s *Server) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id, ok := itemID(w, r)
	if !ok {
		return
	}

	var opts []cart.RemoveOption
	if v, _ := strconv.ParseBool(r.URL.Query().Get("body_only")); v {
		opts = append(opts, cart.WithBodyOnly())
	}

	c, err := s.Cart.Remove(r.Context(), id, opts...)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, c)
}

func itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "itemID"), 10, 64)
	if err != nil || id <= 0 {
		kit.WriteError(w, r, http.StatusBadRequest, "bad cart item id", nil)
		return 0, false
	}
	return id, true
}

// offers

func (s *Server) handlePublicOffers(w http.ResponseWriter, r *http.Request) {
	list, err := s.Offers.FetchPublic(r.Context())
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeOffers(w, list)
}

func (s *Server) handleEligibleOffers(w http.ResponseWriter, r *http.Request) {
	list, err := s.Offers.FetchEligible(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeOffers(w, list)
}

func writeOffers(w http.ResponseWriter, list []offers.Offer) {
	if list == nil {
		list = []offers.Offer{}
	}
	kit.WriteJSON(w, http.StatusOK, list)
}

func (s *Server) handleApplyOffer(w http.ResponseWriter, r *http.Request) {
	var req offers.ApplyRequest
	if !kit.DecodeJSON(w, r, &req) {
		return
	}

	res, err := s.Offers.Apply(r.Context(), chi.URLParam(r, "orderID"), req)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, res)
}

// handleRemoveOffer takes the offer from ?offer_code= / ?offer_id= and falls
// back to a JSON body.
func (s *Server) handleRemoveOffer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ref := offers.Ref{Code: strings.TrimSpace(q.Get("offer_code"))}
	if v := q.Get("offer_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			kit.WriteError(w, r, http.StatusBadRequest, "bad offer_id", nil)
			return
		}
		ref.ID = &id
	}
	if ref.Code == "" && ref.ID == nil && !kit.DecodeJSON(w, r, &ref) {
		return
	}

	res, err := s.Offers.Remove(r.Context(), chi.URLParam(r, "orderID"), ref)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, res)
}

// orders

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.Orders.Get(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, o)
}

func (s *Server) handleConfirmOrder(w http.ResponseWriter, r *http.Request) {
	o, err := s.Orders.Confirm(r.Context(), chi.URLParam(r, "orderID"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	kit.WriteJSON(w, http.StatusOK, o)
}

// preferences

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	kit.WriteJSON(w, http.StatusOK, session.PreferencesFromContext(r.Context()))
}

func (s *Server) handlePutPreferences(w http.ResponseWriter, r *http.Request) {
	var p session.Preferences
	if !kit.DecodeJSON(w, r, &p) {
		return
	}

	sid, _ := session.SessionID(r.Context())
	if err := s.Prefs.Save(r.Context(), sid, p); err != nil {
		s.writeErr(w, r, err)
		return
	}

	kit.WriteJSON(w, http.StatusOK, p)
}

// admin

func (s *Server) handleClearCache(w http.ResponseWriter, r *http.Request) {
	match := r.URL.Query().Get("match")

	n, err := s.API.Cache.Clear(r.Context(), match)
	if err != nil {
		s.Log.Error("cache clear failed", zap.String("match", match), zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "cache clear failed", nil)
		return
	}

	s.Log.Info("cache cleared", zap.String("match", match), zap.Int("entries", n))
	kit.WriteJSON(w, http.StatusOK, map[string]int{"cleared": n})
}
