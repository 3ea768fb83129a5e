package cart_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"OrderDesk/internal/apiclient"
	"OrderDesk/internal/cart"
	"OrderDesk/internal/menu"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

type fakeBackend struct {
	mu   sync.Mutex
	reqs []recorded
	ts   *httptest.Server
}

func newFakeBackend(t *testing.T, respond string) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	fb.ts = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		fb.mu.Lock()
		fb.reqs = append(fb.reqs, recorded{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			Body:   string(raw),
		})
		fb.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(respond))
	}))
	t.Cleanup(fb.ts.Close)
	return fb
}

func (fb *fakeBackend) last(t *testing.T) recorded {
	t.Helper()
	fb.mu.Lock()
	defer fb.mu.Unlock()
	if len(fb.reqs) == 0 {
		t.Fatalf("no request recorded")
	}
	return fb.reqs[len(fb.reqs)-1]
}

func (fb *fakeBackend) count() int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return len(fb.reqs)
}

func clientCtx() context.Context {
	return apiclient.ContextWithTokens(context.Background(), apiclient.StaticTokens{Client: "cli-tok", Admin: "adm-tok"})
}

const cartJSON = `{"id":1,"items":[{"id":11,"menu_item_id":5,"quantity":2,"unit_price":"4.50","total_price":"9.00"}],"item_count":2,"total":"9.00"}`

func TestGet_UsesClientToken(t *testing.T) {
	fb := newFakeBackend(t, cartJSON)
	c := &cart.Client{API: apiclient.NewClient(fb.ts.URL, nil, time.Second)}

	got, err := c.Get(clientCtx())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].TotalPrice != "9.00" || got.Total.Float() != 9 {
		t.Fatalf("cart=%+v", got)
	}

	r := fb.last(t)
	if r.Method != http.MethodGet || r.Path != "/customer/cart/" || r.Auth != "Token cli-tok" {
		t.Fatalf("req=%+v", r)
	}
}

func TestAdd_Payload(t *testing.T) {
	fb := newFakeBackend(t, cartJSON)
	c := &cart.Client{API: apiclient.NewClient(fb.ts.URL, nil, time.Second)}

	v := int64(3)
	if _, err := c.Add(clientCtx(), cart.AddItem{MenuItemID: 5, Quantity: 2, VariationID: &v, OptionIDs: []int64{7, 8}}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	r := fb.last(t)
	if r.Method != http.MethodPost || r.Path != "/customer/cart/add/" {
		t.Fatalf("req=%+v", r)
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(r.Body), &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if body["menu_item_id"] != float64(5) || body["variation_id"] != float64(3) || len(body["option_ids"].([]any)) != 2 {
		t.Fatalf("body=%v", body)
	}
	if _, ok := body["special_instructions"]; ok {
		t.Fatalf("empty instructions should be omitted: %v", body)
	}
}

func TestUpdateQuantity(t *testing.T) {
	fb := newFakeBackend(t, cartJSON)
	c := &cart.Client{API: apiclient.NewClient(fb.ts.URL, nil, time.Second)}

	if _, err := c.UpdateQuantity(clientCtx(), 11, 3); err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	r := fb.last(t)
	if r.Method != http.MethodPatch || r.Path != "/customer/cart/update/" || r.Body != `{"cart_item_id":11,"quantity":3}` {
		t.Fatalf("req=%+v", r)
	}

	if _, err := c.UpdateQuantity(clientCtx(), 11, 0); !errors.Is(err, cart.ErrBadQuantity) {
		t.Fatalf("err=%v", err)
	}
}

func TestRemove_QueryShape(t *testing.T) {
	fb := newFakeBackend(t, `{}`)
	c := &cart.Client{API: apiclient.NewClient(fb.ts.URL, nil, time.Second)}

	if _, err := c.Remove(clientCtx(), 11); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	r := fb.last(t)
	if r.Method != http.MethodDelete || r.Path != "/customer/cart/remove/" || r.Query != "cart_item_id=11" || r.Body != "" {
		t.Fatalf("req=%+v", r)
	}
}

func TestRemove_LegacySentinelIsBodyOnly(t *testing.T) {
	fb := newFakeBackend(t, `{}`)
	c := &cart.Client{API: apiclient.NewClient(fb.ts.URL, nil, time.Second)}

	if _, err := c.Remove(clientCtx(), 79997999); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	r := fb.last(t)
	if r.Query != "" {
		t.Fatalf("sentinel delete should carry no query, got %q", r.Query)
	}
	if r.Body != `{"cart_item_id":79997999}` {
		t.Fatalf("body=%q", r.Body)
	}
}

func TestRemove_WithBodyOnly(t *testing.T) {
	fb := newFakeBackend(t, `{}`)
	c := &cart.Client{API: apiclient.NewClient(fb.ts.URL, nil, time.Second)}

	if _, err := c.Remove(clientCtx(), 12, cart.WithBodyOnly()); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if r := fb.last(t); r.Query != "" || r.Body != `{"cart_item_id":12}` {
		t.Fatalf("req=%+v", r)
	}
}

func TestAllOperations_RequireClientToken(t *testing.T) {
	fb := newFakeBackend(t, cartJSON)
	c := &cart.Client{API: apiclient.NewClient(fb.ts.URL, nil, time.Second)}

	// an admin token alone does not authorize cart calls
	ctx := apiclient.ContextWithTokens(context.Background(), apiclient.StaticTokens{Admin: "adm"})

	calls := map[string]func() error{
		"get":    func() error { _, err := c.Get(ctx); return err },
		"add":    func() error { _, err := c.Add(ctx, cart.AddItem{MenuItemID: 1, Quantity: 1}); return err },
		"update": func() error { _, err := c.UpdateQuantity(ctx, 1, 1); return err },
		"remove": func() error { _, err := c.Remove(ctx, 1); return err },
	}
	for name, call := range calls {
		if err := call(); !errors.Is(err, apiclient.ErrAuthRequired) {
			t.Fatalf("%s: err=%v", name, err)
		}
	}
	if n := fb.count(); n != 0 {
		t.Fatalf("requests sent without token: %d", n)
	}
}

func TestFromSelection(t *testing.T) {
	it := cart.FromSelection(menu.SelectedItem{
		MenuItemID:          9,
		Size:                menu.SizeLarge,
		Extras:              []string{"extra-cheese"},
		SpecialInstructions: "well done",
	})
	if it.MenuItemID != 9 || it.Quantity != 1 {
		t.Fatalf("item=%+v", it)
	}
	if it.SpecialInstructions != "Size: large; Extra Cheese; well done" {
		t.Fatalf("instructions=%q", it.SpecialInstructions)
	}
}
