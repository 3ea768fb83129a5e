package offers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"OrderDesk/internal/apiclient"
	"OrderDesk/internal/session"
)

func ptr(v int64) *int64 { return &v }

func authed() context.Context {
	return apiclient.ContextWithTokens(context.Background(), apiclient.StaticTokens{Client: "cli"})
}

func TestApplyPayload_CodeTakesPrecedence(t *testing.T) {
	p, err := applyPayload(ApplyRequest{Ref: Ref{Code: "WELCOME10", ID: ptr(4)}})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"offer_code": "WELCOME10"}, p)
}

func TestApplyPayload_OptionalFields(t *testing.T) {
	p, err := applyPayload(ApplyRequest{
		Ref:            Ref{ID: ptr(4)},
		VariationID:    ptr(2),
		OptionIDs:      []int64{9},
		FreeMenuItemID: ptr(17),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(4), p["offer_id"])
	assert.Equal(t, int64(2), p["variation_id"])
	assert.Equal(t, []int64{9}, p["option_ids"])
	assert.Equal(t, int64(17), p["free_menu_item_id"])
	assert.NotContains(t, p, "offer_code")
}

func TestApplyPayload_RequiresRef(t *testing.T) {
	_, err := applyPayload(ApplyRequest{VariationID: ptr(1)})
	assert.ErrorIs(t, err, ErrRefRequired)

	_, err = refPayload(Ref{Code: "   "})
	assert.ErrorIs(t, err, ErrRefRequired)
}

func TestApply_SendsOnlySetFields(t *testing.T) {
	var body map[string]any
	var path, auth string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"message":"Offer applied","discount_amount":"2.00","new_total":"18.00"}`))
	}))
	t.Cleanup(backend.Close)

	c := &Client{API: apiclient.NewClient(backend.URL, nil, time.Second)}
	res, err := c.Apply(authed(), "77", ApplyRequest{Ref: Ref{Code: "SAVE2", ID: ptr(3)}})
	require.NoError(t, err)

	assert.Equal(t, "/offers/apply/77/", path)
	assert.Equal(t, "Token cli", auth)
	assert.Equal(t, map[string]any{"offer_code": "SAVE2"}, body)
	assert.Equal(t, "18.00", string(res.NewTotal))
}

func TestApply_ErrorMessages(t *testing.T) {
	detail := true
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		if detail {
			_, _ = w.Write([]byte(`{"detail":"Minimum order value not met"}`))
		}
	}))
	t.Cleanup(backend.Close)

	c := &Client{API: apiclient.NewClient(backend.URL, nil, time.Second)}

	_, err := c.Apply(authed(), "1", ApplyRequest{Ref: Ref{Code: "X"}})
	require.Error(t, err)
	assert.Equal(t, "Minimum order value not met", err.Error())

	detail = false
	_, err = c.Apply(authed(), "1", ApplyRequest{Ref: Ref{Code: "X"}})
	require.Error(t, err)
	assert.Equal(t, "failed to apply offer", err.Error())

	var apiErr *apiclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestRemove_CodeOrID(t *testing.T) {
	var body map[string]any
	var method string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		body = nil
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(`{"message":"Offer removed"}`))
	}))
	t.Cleanup(backend.Close)

	c := &Client{API: apiclient.NewClient(backend.URL, nil, time.Second)}

	_, err := c.Remove(authed(), "5", Ref{ID: ptr(8)})
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, map[string]any{"offer_id": float64(8)}, body)

	_, err = c.Remove(authed(), "5", Ref{Code: "A", ID: ptr(8)})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"offer_code": "A"}, body)
}

func TestFetchPublic_UsesSelectedBranch(t *testing.T) {
	var query string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_, _ = w.Write([]byte(`[{"id":1,"title":"Happy hour","offer_type":"percentage","discount_value":15,"is_active":true}]`))
	}))
	t.Cleanup(backend.Close)

	c := &Client{API: apiclient.NewClient(backend.URL, nil, time.Second)}

	list, err := c.FetchPublic(authed())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, TypePercentage, list[0].OfferType)
	assert.Equal(t, "15", string(list[0].DiscountValue))
	assert.Empty(t, query)

	ctx := session.WithPreferences(authed(), session.Preferences{SelectedBranchID: "12"})
	_, err = c.FetchPublic(ctx)
	require.NoError(t, err)
	assert.Equal(t, "branch_id=12", query)
}

func TestFetchEligible(t *testing.T) {
	var path string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(backend.Close)

	c := &Client{API: apiclient.NewClient(backend.URL, nil, time.Second)}
	list, err := c.FetchEligible(authed(), "31")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Equal(t, "/offers/eligible/31/", path)

	_, err = c.FetchEligible(authed(), "")
	assert.ErrorIs(t, err, ErrOrderIDRequired)
}

func TestAllCalls_RequireAuth(t *testing.T) {
	var hits int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	t.Cleanup(backend.Close)

	c := &Client{API: apiclient.NewClient(backend.URL, nil, time.Second)}
	ctx := context.Background()

	_, err := c.FetchEligible(ctx, "1")
	assert.ErrorIs(t, err, apiclient.ErrAuthRequired)
	_, err = c.FetchPublic(ctx)
	assert.ErrorIs(t, err, apiclient.ErrAuthRequired)
	_, err = c.Apply(ctx, "1", ApplyRequest{Ref: Ref{Code: "X"}})
	assert.ErrorIs(t, err, apiclient.ErrAuthRequired)
	_, err = c.Remove(ctx, "1", Ref{Code: "X"})
	assert.ErrorIs(t, err, apiclient.ErrAuthRequired)

	assert.Zero(t, atomic.LoadInt32(&hits))
}
