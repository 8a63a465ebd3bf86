package ipapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/yanqian/horoscope/internal/domain/geo"
)

const (
	defaultBaseURL = "https://ipapi.co"
	defaultTimeout = 5 * time.Second
	userAgent      = "horoscope/1.0"
)

// Client resolves client addresses through the ipapi.co JSON API.
type Client struct {
	http *resty.Client
}

// NewClient builds an API client; an empty base URL or zero timeout uses the defaults.
func NewClient(baseURL string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	c := resty.New().
		SetBaseURL(strings.TrimRight(base, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent).
		SetTimeout(timeout)
	return &Client{http: c}
}

type apiResponse struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	City        string  `json:"city"`
	Region      string  `json:"region"`
	CountryName string  `json:"country_name"`
	Timezone    string  `json:"timezone"`
	Error       bool    `json:"error"`
	Reason      string  `json:"reason"`
}

// Lookup implements geo.Provider.
func (c *Client) Lookup(ctx context.Context, ip string) (geo.Location, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return geo.Location{}, fmt.Errorf("ipapi lookup: empty address")
	}

	var raw apiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		ForceContentType("application/json").
		SetResult(&raw).
		Get("/" + url.PathEscape(ip) + "/json/")
	if err != nil {
		return geo.Location{}, fmt.Errorf("ipapi request failed: %w", err)
	}
	if resp.StatusCode() >= 300 {
		body := resp.String()
		if len(body) > 4<<10 {
			body = body[:4<<10]
		}
		return geo.Location{}, fmt.Errorf("ipapi request error: status=%d body=%s", resp.StatusCode(), body)
	}

	if raw.Error {
		return geo.Location{}, fmt.Errorf("ipapi error: %s", raw.Reason)
	}
	return normalize(raw), nil
}

func normalize(raw apiResponse) geo.Location {
	return geo.Location{
		Latitude:  raw.Latitude,
		Longitude: raw.Longitude,
		City:      strings.TrimSpace(raw.City),
		Region:    strings.TrimSpace(raw.Region),
		Country:   strings.TrimSpace(raw.CountryName),
		TimeZone:  strings.TrimSpace(raw.Timezone),
	}
}

var _ geo.Provider = (*Client)(nil)
