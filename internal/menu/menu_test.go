package menu_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"OrderDesk/internal/apiclient"
	"OrderDesk/internal/menu"
	"OrderDesk/internal/session"
)

func TestItemTotal(t *testing.T) {
	cases := []struct {
		base   string
		size   menu.Size
		extras int
		want   string
	}{
		{"10.00", menu.SizeLarge, 2, "17.00"},
		{"10.00", menu.SizeRegular, 0, "10.00"},
		{"8.5", menu.SizeRegular, 1, "9.50"},
		{"12.00", menu.SizeLarge, 0, "18.00"},
		{"abc", menu.SizeLarge, 1, "1.00"},
		{"7.25 EUR", menu.SizeRegular, 0, "7.25"},
	}
	for _, tc := range cases {
		if got := menu.ItemTotal(tc.base, tc.size, tc.extras); got != tc.want {
			t.Fatalf("ItemTotal(%q,%s,%d)=%s want=%s", tc.base, tc.size, tc.extras, got, tc.want)
		}
	}
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"12.50":  12.5,
		" 3":     3,
		".5":     0.5,
		"-2.5x":  -2.5,
		"1e2":    100,
		"":       0,
		"$4.00":  0,
		"4.":     4,
		"0012.1": 12.1,
	}
	for in, want := range cases {
		if got := menu.ParseNumber(in); got != want {
			t.Fatalf("ParseNumber(%q)=%v want=%v", in, got, want)
		}
	}
}

func TestAmount_UnmarshalStringOrNumber(t *testing.T) {
	var v struct {
		A menu.Amount `json:"a"`
		B menu.Amount `json:"b"`
		C menu.Amount `json:"c"`
	}
	if err := json.Unmarshal([]byte(`{"a":"12.50","b":7.5,"c":null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != "12.50" || v.B != "7.5" || v.C != "" {
		t.Fatalf("got %+v", v)
	}
	if v.A.Float() != 12.5 {
		t.Fatalf("float=%v", v.A.Float())
	}
}

func TestSelection_Lifecycle(t *testing.T) {
	s := menu.NewSelection(menu.MenuItem{ID: 42, Name: "Margherita", BasePrice: "10.00"})

	if err := s.SetSize(menu.SizeLarge); err != menu.ErrNotOpen {
		t.Fatalf("closed SetSize err=%v", err)
	}

	s.Open()
	if s.Total() != "10.00" {
		t.Fatalf("default total=%s", s.Total())
	}
	if err := s.SetSize(menu.SizeLarge); err != nil {
		t.Fatalf("SetSize: %v", err)
	}
	if err := s.ToggleExtra("extra-cheese"); err != nil {
		t.Fatalf("ToggleExtra: %v", err)
	}
	if err := s.ToggleExtra("anchovies"); err != menu.ErrUnknownExtra {
		t.Fatalf("unknown extra err=%v", err)
	}
	if err := s.SetSize("huge"); err != menu.ErrUnknownSize {
		t.Fatalf("unknown size err=%v", err)
	}
	_ = s.SetNotes("  no basil ")

	if s.Total() != "16.00" {
		t.Fatalf("total=%s", s.Total())
	}

	item, err := s.AddToCart()
	if err != nil {
		t.Fatalf("AddToCart: %v", err)
	}
	if item.MenuItemID != 42 || item.Size != menu.SizeLarge || item.Total != "16.00" ||
		item.SpecialInstructions != "no basil" || len(item.Extras) != 1 || item.Quantity != 1 {
		t.Fatalf("item=%+v", item)
	}
	if s.State() != menu.StateClosed {
		t.Fatalf("selection should close after add")
	}
	if _, err := s.AddToCart(); err != menu.ErrNotOpen {
		t.Fatalf("second add err=%v", err)
	}
}

func TestSelection_CancelDiscards(t *testing.T) {
	s := menu.NewSelection(menu.MenuItem{ID: 1, BasePrice: "4.00"})
	s.Open()
	_ = s.SetSize(menu.SizeLarge)
	_ = s.ToggleExtra("extra-cheese")
	s.Cancel()

	s.Open()
	if s.Total() != "4.00" {
		t.Fatalf("reopened total=%s", s.Total())
	}

	_ = s.ToggleExtra("extra-cheese")
	_ = s.ToggleExtra("extra-cheese")
	if s.Total() != "4.00" {
		t.Fatalf("double toggle total=%s", s.Total())
	}
}

func TestClient_CachedRestaurantInfo(t *testing.T) {
	var hits int32
	var gotQuery string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		gotQuery = r.URL.Query().Get("restaurant_id")
		_, _ = w.Write([]byte(`{"id":3,"name":"Osteria","branches":[{"id":1,"name":"Centro"}]}`))
	}))
	t.Cleanup(backend.Close)

	c := &menu.Client{API: apiclient.NewClient(backend.URL, nil, time.Second)}
	ctx := session.WithPreferences(context.Background(), session.Preferences{RestaurantID: "3"})

	for i := 0; i < 3; i++ {
		info, err := c.RestaurantInfo(ctx)
		if err != nil {
			t.Fatalf("RestaurantInfo: %v", err)
		}
		if info.Name != "Osteria" || len(info.Branches) != 1 {
			t.Fatalf("info=%+v", info)
		}
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("hits=%d want=1", got)
	}
	if gotQuery != "3" {
		t.Fatalf("restaurant_id=%q", gotQuery)
	}
}

func TestClient_MenuItems(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/customer/menu-items/" {
			t.Errorf("path=%s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"id":1,"name":"Pizza","base_price":"9.00","is_available":true,
			"option_groups":[{"id":5,"name":"Toppings","options":[{"id":9,"name":"Olives","price":0.5}]}]}]`))
	}))
	t.Cleanup(backend.Close)

	c := &menu.Client{API: apiclient.NewClient(backend.URL, nil, time.Second)}
	items, err := c.MenuItems(context.Background())
	if err != nil {
		t.Fatalf("MenuItems: %v", err)
	}
	if len(items) != 1 || items[0].BasePrice.Float() != 9 || items[0].OptionGroups[0].Options[0].Price != "0.5" {
		t.Fatalf("items=%+v", items)
	}
}
