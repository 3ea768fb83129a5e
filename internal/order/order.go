package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"OrderDesk/internal/apiclient"
	"OrderDesk/internal/menu"
)

const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

type Item struct {
	MenuItemID   int64       `json:"menu_item_id"`
	MenuItemName string      `json:"menu_item_name,omitempty"`
	Quantity     int         `json:"quantity"`
	UnitPrice    menu.Amount `json:"unit_price"`
	TotalPrice   menu.Amount `json:"total_price"`
}

type Invoice struct {
	Number   string      `json:"invoice_number"`
	Subtotal menu.Amount `json:"subtotal"`
	Discount menu.Amount `json:"discount"`
	Tax      menu.Amount `json:"tax"`
	Total    menu.Amount `json:"total"`
	IssuedAt string      `json:"issued_at,omitempty"`
}

type Order struct {
	ID            int64       `json:"id"`
	Status        string      `json:"status"`
	Items         []Item      `json:"items"`
	Total         menu.Amount `json:"total_amount"`
	AppliedOffer  string      `json:"applied_offer,omitempty"`
	PaymentIntent string      `json:"payment_intent_id,omitempty"`
	Invoice       *Invoice    `json:"invoice,omitempty"`
	CreatedAt     string      `json:"created_at,omitempty"`
}

var ErrOrderIDRequired = errors.New("order id required")

type Client struct {
	API *apiclient.Client
}

func (c *Client) Get(ctx context.Context, orderID string) (Order, error) {
	path, err := orderPath(orderID, "")
	if err != nil {
		return Order{}, err
	}
	var o Order
	err = c.API.Do(ctx, apiclient.Request{
		Method:      http.MethodGet,
		Path:        path,
		Scope:       apiclient.ScopeClient,
		RequireAuth: true,
	}, &o)
	return o, apiclient.WithFallback(err, "failed to load order")
}

// Confirm tells the backend a card payment for the order went through.
func (c *Client) Confirm(ctx context.Context, orderID string) (Order, error) {
	path, err := orderPath(orderID, "confirm/")
	if err != nil {
		return Order{}, err
	}
	var o Order
	err = c.API.Do(ctx, apiclient.Request{
		Method:      http.MethodPost,
		Path:        path,
		Body:        map[string]string{"order_id": orderID},
		Scope:       apiclient.ScopeClient,
		RequireAuth: true,
	}, &o)
	return o, apiclient.WithFallback(err, "failed to confirm order")
}

func orderPath(orderID, suffix string) (string, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return "", ErrOrderIDRequired
	}
	return fmt.Sprintf("/customer/orders/%s/%s", url.PathEscape(orderID), suffix), nil
}
