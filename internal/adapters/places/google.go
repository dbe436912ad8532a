// Package places searches matcha cafés with the Google Places API (New).
package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PabloGalante/whiski-agent/internal/app/cafes"
	"github.com/PabloGalante/whiski-agent/internal/domain"
)

const DefaultBaseURL = "https://places.googleapis.com"

var fieldMask = strings.Join([]string{
	"places.id",
	"places.displayName",
	"places.formattedAddress",
	"places.rating",
	"places.nationalPhoneNumber",
	"places.googleMapsUri",
	"places.priceLevel",
}, ",")

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type searchTextRequest struct {
	TextQuery      string `json:"textQuery"`
	MaxResultCount int    `json:"maxResultCount,omitempty"`
	LanguageCode   string `json:"languageCode,omitempty"`
}

type searchTextResponse struct {
	Places []struct {
		ID          string `json:"id"`
		DisplayName *struct {
			Text string `json:"text"`
		} `json:"displayName"`
		FormattedAddress    string   `json:"formattedAddress"`
		Rating              *float64 `json:"rating"`
		NationalPhoneNumber string   `json:"nationalPhoneNumber"`
		GoogleMapsURI       string   `json:"googleMapsUri"`
		PriceLevel          string   `json:"priceLevel"`
	} `json:"places"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Find implements domain.PlaceSearch with a text search for
// "matcha cafe near <location>".
func (c *Client) Find(ctx context.Context, location string) ([]domain.Cafe, error) {
	if c.apiKey == "" {
		return nil, errors.New("google places api key not configured")
	}

	payload, err := json.Marshal(searchTextRequest{
		TextQuery:      "matcha cafe near " + strings.TrimSpace(location),
		MaxResultCount: cafes.MaxResults,
		LanguageCode:   "en",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal places request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/places:searchText", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create places request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read places response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("places api error (%d)", resp.StatusCode)
	}

	var parsed searchTextResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode places response: %w", err)
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return nil, errors.New(parsed.Error.Message)
	}

	out := make([]domain.Cafe, 0, len(parsed.Places))
	for _, p := range parsed.Places {
		if p.DisplayName == nil || p.DisplayName.Text == "" {
			continue
		}
		cafe := domain.Cafe{
			PlaceID:    p.ID,
			Name:       p.DisplayName.Text,
			Address:    p.FormattedAddress,
			Rating:     p.Rating,
			MapLink:    p.GoogleMapsURI,
			PriceLevel: p.PriceLevel,
		}
		if p.NationalPhoneNumber != "" {
			phone := p.NationalPhoneNumber
			cafe.Phone = &phone
		}
		out = append(out, cafe)
		if len(out) == cafes.MaxResults {
			break
		}
	}
	return out, nil
}
