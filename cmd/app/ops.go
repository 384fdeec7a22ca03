package main

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Each op talks to the JSON-RPC socket when the transport is uds and to the
// HTTP API otherwise.

func doHealth(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "system.health", nil, out)
	}
	return newAPIClient(cfg.Server, "").requestRoot(ctx, "/health", out)
}

func doLogin(ctx context.Context, cfg cliConfig, email, password string, out any) error {
	in := map[string]any{"email": email, "password": password}
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "auth.login", in, out)
	}
	return newAPIClient(cfg.Server, "").request(ctx, http.MethodPost, "/auth/login", in, out)
}

// doRegister always uses HTTP; the socket API has no registration method.
func doRegister(ctx context.Context, cfg cliConfig, email, password, fullName string, out any) error {
	return newAPIClient(cfg.Server, "").request(ctx, http.MethodPost, "/auth/register", map[string]any{
		"email": email, "password": password, "full_name": fullName,
	}, out)
}

func doWhoAmI(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "auth.whoami", map[string]any{"token": cfg.Token}, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).request(ctx, http.MethodGet, "/auth/me", nil, out)
}

type landmarkQuery struct {
	City     string
	Category string
	Search   string
	Skip     int
	Limit    int
}

func doLandmarksList(ctx context.Context, cfg cliConfig, q landmarkQuery, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "landmarks.list", map[string]any{
			"city": q.City, "category": q.Category, "search": q.Search, "skip": q.Skip, "limit": q.Limit,
		}, out)
	}
	v := url.Values{}
	setIfNotEmpty(v, "city", q.City)
	setIfNotEmpty(v, "category", q.Category)
	setIfNotEmpty(v, "search", q.Search)
	if q.Skip > 0 {
		v.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return newAPIClient(cfg.Server, "").request(ctx, http.MethodGet, withQuery("/landmarks", v), nil, out)
}

func doLandmarksNearby(ctx context.Context, cfg cliConfig, lat, lon, radius float64, limit int, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "landmarks.nearby", map[string]any{
			"latitude": lat, "longitude": lon, "radius": radius, "limit": limit,
		}, out)
	}
	v := url.Values{}
	v.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	v.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	if radius > 0 {
		v.Set("radius", strconv.FormatFloat(radius, 'f', -1, 64))
	}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	return newAPIClient(cfg.Server, "").request(ctx, http.MethodGet, withQuery("/landmarks/nearby", v), nil, out)
}

func doLandmarkGet(ctx context.Context, cfg cliConfig, id uint, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "landmarks.get", map[string]any{"id": id}, out)
	}
	return newAPIClient(cfg.Server, "").request(ctx, http.MethodGet, "/landmarks/"+strconv.FormatUint(uint64(id), 10), nil, out)
}

func doPopularCities(ctx context.Context, cfg cliConfig, limit int, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "cities.popular", map[string]any{"limit": limit}, out)
	}
	v := url.Values{}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	return newAPIClient(cfg.Server, "").request(ctx, http.MethodGet, withQuery("/cities/popular", v), nil, out)
}

func doCityProfile(ctx context.Context, cfg cliConfig, city string, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "cities.profile", map[string]any{"city": city}, out)
	}
	return newAPIClient(cfg.Server, "").request(ctx, http.MethodGet, "/cities/profile/"+url.PathEscape(city), nil, out)
}

func doNotificationsList(ctx context.Context, cfg cliConfig, onlyUnread bool, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "notifications.list", map[string]any{
			"token": cfg.Token, "only_unread": onlyUnread,
		}, out)
	}
	v := url.Values{}
	if onlyUnread {
		v.Set("only_unread", "true")
	}
	return newAPIClient(cfg.Server, cfg.Token).request(ctx, http.MethodGet, withQuery("/notifications", v), nil, out)
}

func doNotificationsStats(ctx context.Context, cfg cliConfig, out any) error {
	if cfg.Transport == "uds" {
		return newRPCClient(cfg.Socket).call(ctx, "notifications.stats", map[string]any{"token": cfg.Token}, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).request(ctx, http.MethodGet, "/notifications/stats", nil, out)
}

func doNotificationsMarkRead(ctx context.Context, cfg cliConfig, ids []uint, all bool, out any) error {
	in := map[string]any{"notification_ids": ids, "all_unread": all}
	if cfg.Transport == "uds" {
		in["token"] = cfg.Token
		return newRPCClient(cfg.Socket).call(ctx, "notifications.mark_read", in, out)
	}
	return newAPIClient(cfg.Server, cfg.Token).request(ctx, http.MethodPost, "/notifications/mark-read", in, out)
}

func setIfNotEmpty(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func withQuery(path string, v url.Values) string {
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}
