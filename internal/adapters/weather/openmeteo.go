// Package weather reads the current temperature from Open-Meteo.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PabloGalante/whiski-agent/internal/observability"
)

const (
	DefaultForecastURL  = "https://api.open-meteo.com/v1/forecast"
	DefaultGeocodingURL = "https://geocoding-api.open-meteo.com/v1/search"
)

// New York City, used when a location cannot be geocoded.
const (
	fallbackLatitude  = 40.7128
	fallbackLongitude = -74.0060
)

type Client struct {
	forecastURL  string
	geocodingURL string
	httpClient   *http.Client
}

func NewClient(forecastURL, geocodingURL string, timeout time.Duration) *Client {
	if forecastURL == "" {
		forecastURL = DefaultForecastURL
	}
	if geocodingURL == "" {
		geocodingURL = DefaultGeocodingURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		forecastURL:  forecastURL,
		geocodingURL: geocodingURL,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"results"`
}

type forecastResponse struct {
	CurrentWeather *struct {
		Temperature float64 `json:"temperature"`
	} `json:"current_weather"`
}

// Current implements domain.WeatherProvider, returning e.g. "21.5°C".
func (c *Client) Current(ctx context.Context, location string) (string, error) {
	lat, lon, err := c.geocode(ctx, location)
	if err != nil {
		observability.LoggerFromContext(ctx).Debug("geocoding failed, using New York",
			"location", location,
			"error", err,
		)
		lat, lon = fallbackLatitude, fallbackLongitude
	}

	q := url.Values{}
	q.Set("latitude", fmt.Sprintf("%.4f", lat))
	q.Set("longitude", fmt.Sprintf("%.4f", lon))
	q.Set("current_weather", "true")

	var res forecastResponse
	if err := c.getJSON(ctx, c.forecastURL+"?"+q.Encode(), &res); err != nil {
		return "", fmt.Errorf("forecast: %w", err)
	}
	if res.CurrentWeather == nil {
		return "", fmt.Errorf("forecast: no current weather")
	}
	return fmt.Sprintf("%.1f°C", res.CurrentWeather.Temperature), nil
}

// geocode resolves the first part of a location such as "Brooklyn, NY".
func (c *Client) geocode(ctx context.Context, location string) (float64, float64, error) {
	name, _, _ := strings.Cut(location, ",")
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, 0, fmt.Errorf("empty location")
	}

	q := url.Values{}
	q.Set("name", name)
	q.Set("count", "1")
	q.Set("language", "en")

	var res geocodingResponse
	if err := c.getJSON(ctx, c.geocodingURL+"?"+q.Encode(), &res); err != nil {
		return 0, 0, err
	}
	if len(res.Results) == 0 {
		return 0, 0, fmt.Errorf("no match for %q", name)
	}
	return res.Results[0].Latitude, res.Results[0].Longitude, nil
}

func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
