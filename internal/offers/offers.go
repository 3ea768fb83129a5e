package offers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"OrderDesk/internal/apiclient"
	"OrderDesk/internal/menu"
	"OrderDesk/internal/session"
)

const (
	TypePercentage = "percentage"
	TypeFlat       = "flat"
	TypeFreeItem   = "free_item"
	TypeBOGO       = "bogo"
)

// Offer is a backend discount rule, mirrored without interpretation.
type Offer struct {
	ID             int64       `json:"id"`
	Code           string      `json:"code,omitempty"`
	Title          string      `json:"title"`
	Description    string      `json:"description,omitempty"`
	OfferType      string      `json:"offer_type"`
	DiscountValue  menu.Amount `json:"discount_value"`
	MinQuantity    int         `json:"min_quantity,omitempty"`
	MinOrderValue  menu.Amount `json:"min_order_value,omitempty"`
	StartDate      string      `json:"start_date,omitempty"`
	EndDate        string      `json:"end_date,omitempty"`
	FreeMenuItemID *int64      `json:"free_menu_item,omitempty"`
	IsActive       bool        `json:"is_active"`
}

type Result struct {
	Message        string      `json:"message,omitempty"`
	DiscountAmount menu.Amount `json:"discount_amount,omitempty"`
	NewTotal       menu.Amount `json:"new_total,omitempty"`
	Offer          *Offer      `json:"offer,omitempty"`
}

// Ref names an offer by code or id; the code wins when both are set.
type Ref struct {
	Code string `json:"offer_code,omitempty"`
	ID   *int64 `json:"offer_id,omitempty"`
}

type ApplyRequest struct {
	Ref
	VariationID    *int64  `json:"variation_id,omitempty"`
	OptionIDs      []int64 `json:"option_ids,omitempty"`
	FreeMenuItemID *int64  `json:"free_menu_item_id,omitempty"`
}

var (
	ErrRefRequired     = errors.New("offer code or offer id required")
	ErrOrderIDRequired = errors.New("order id required")
)

type Client struct {
	API *apiclient.Client
}

func (c *Client) FetchEligible(ctx context.Context, orderID string) ([]Offer, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, ErrOrderIDRequired
	}
	var out []Offer
	err := c.API.Do(ctx, request(http.MethodGet, fmt.Sprintf("/offers/eligible/%s/", url.PathEscape(orderID)), nil), &out)
	if err != nil {
		return nil, apiclient.WithFallback(err, "failed to fetch eligible offers")
	}
	return out, nil
}

// FetchPublic scopes the listing to the session's selected branch when one
// is stored.
func (c *Client) FetchPublic(ctx context.Context) ([]Offer, error) {
	req := request(http.MethodGet, "/offers/public/", nil)
	if branch := session.PreferencesFromContext(ctx).SelectedBranchID; branch != "" {
		req.Query = url.Values{"branch_id": {branch}}
	}

	var out []Offer
	if err := c.API.Do(ctx, req, &out); err != nil {
		return nil, apiclient.WithFallback(err, "failed to fetch offers")
	}
	return out, nil
}

func (c *Client) Apply(ctx context.Context, orderID string, in ApplyRequest) (Result, error) {
	if strings.TrimSpace(orderID) == "" {
		return Result{}, ErrOrderIDRequired
	}
	payload, err := applyPayload(in)
	if err != nil {
		return Result{}, err
	}

	var out Result
	err = c.API.Do(ctx, request(http.MethodPost, fmt.Sprintf("/offers/apply/%s/", url.PathEscape(orderID)), payload), &out)
	if err != nil {
		return Result{}, apiclient.WithFallback(err, "failed to apply offer")
	}
	return out, nil
}

func (c *Client) Remove(ctx context.Context, orderID string, ref Ref) (Result, error) {
	if strings.TrimSpace(orderID) == "" {
		return Result{}, ErrOrderIDRequired
	}
	payload, err := refPayload(ref)
	if err != nil {
		return Result{}, err
	}

	var out Result
	err = c.API.Do(ctx, request(http.MethodDelete, fmt.Sprintf("/offers/remove/%s/", url.PathEscape(orderID)), payload), &out)
	if err != nil {
		return Result{}, apiclient.WithFallback(err, "failed to remove offer")
	}
	return out, nil
}

func refPayload(ref Ref) (map[string]any, error) {
	code := strings.TrimSpace(ref.Code)
	switch {
	case code != "":
		return map[string]any{"offer_code": code}, nil
	case ref.ID != nil:
		return map[string]any{"offer_id": *ref.ID}, nil
	default:
		return nil, ErrRefRequired
	}
}

// applyPayload includes only the fields the caller set.
func applyPayload(in ApplyRequest) (map[string]any, error) {
	p, err := refPayload(in.Ref)
	if err != nil {
		return nil, err
	}
	if in.VariationID != nil {
		p["variation_id"] = *in.VariationID
	}
	if in.OptionIDs != nil {
		p["option_ids"] = in.OptionIDs
	}
	if in.FreeMenuItemID != nil {
		p["free_menu_item_id"] = *in.FreeMenuItemID
	}
	return p, nil
}

func request(method, path string, body any) apiclient.Request {
	req := apiclient.Request{
		Method:      method,
		Path:        path,
		Scope:       apiclient.ScopeClient,
		RequireAuth: true,
	}
	if body != nil {
		req.Body = body
	}
	return req
}
