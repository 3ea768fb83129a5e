package menu

import (
	"context"
	"net/url"
	"time"

	"OrderDesk/internal/apiclient"
	"OrderDesk/internal/session"
)

const (
	restaurantInfoPath = "/customer/restaurant-info"
	menuItemsPath      = "/customer/menu-items/"
)

type Client struct {
	API *apiclient.Client
	// CacheFor overrides the cache's default duration when set.
	CacheFor time.Duration
}

func (c *Client) RestaurantInfo(ctx context.Context) (RestaurantInfo, error) {
	var info RestaurantInfo
	err := c.API.Cached(ctx, apiclient.Request{
		Path:  restaurantInfoPath,
		Query: restaurantQuery(ctx),
	}, &info, apiclient.CacheOptions{Duration: c.CacheFor})
	return info, err
}

func (c *Client) MenuItems(ctx context.Context) ([]MenuItem, error) {
	var items []MenuItem
	err := c.API.Cached(ctx, apiclient.Request{
		Path:  menuItemsPath,
		Query: restaurantQuery(ctx),
	}, &items, apiclient.CacheOptions{Duration: c.CacheFor})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func restaurantQuery(ctx context.Context) url.Values {
	id := session.PreferencesFromContext(ctx).RestaurantID
	if id == "" {
		return nil
	}
	return url.Values{"restaurant_id": {id}}
}
