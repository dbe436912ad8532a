package places_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PabloGalante/whiski-agent/internal/adapters/places"
)

func TestFindParsesPlaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/places:searchText", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Goog-Api-Key"))
		assert.Contains(t, r.Header.Get("X-Goog-FieldMask"), "places.displayName")

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "matcha cafe near Brooklyn, NY", body["textQuery"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"places":[
			{"id":"a","displayName":{"text":"Cha Cha Matcha"},"formattedAddress":"373 Broome St","rating":4.3,"nationalPhoneNumber":"(646) 895-9484","googleMapsUri":"https://maps.google.com/?cid=1","priceLevel":"PRICE_LEVEL_MODERATE"},
			{"id":"b","displayName":{"text":""}},
			{"id":"c","displayName":{"text":"Kettl"},"formattedAddress":"70 Greenpoint Ave"}
		]}`))
	}))
	defer srv.Close()

	client := places.NewClient("test-key", srv.URL, time.Second)
	got, err := client.Find(context.Background(), " Brooklyn, NY ")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Cha Cha Matcha", got[0].Name)
	require.NotNil(t, got[0].Rating)
	assert.InDelta(t, 4.3, *got[0].Rating, 0.001)
	require.NotNil(t, got[0].Phone)
	assert.Equal(t, "PRICE_LEVEL_MODERATE", got[0].PriceLevel)

	assert.Equal(t, "Kettl", got[1].Name)
	assert.Nil(t, got[1].Rating)
	assert.Nil(t, got[1].Phone)
}

func TestFindErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"quota"}}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := places.NewClient("k", srv.URL, time.Second).Find(context.Background(), "Queens")
	assert.Error(t, err)

	_, err = places.NewClient("", srv.URL, time.Second).Find(context.Background(), "Queens")
	assert.Error(t, err)
}
