package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"attendance/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoongGeocoder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode", r.URL.Path)
		assert.Equal(t, "k3y", r.URL.Query().Get("api_key"))
		switch r.URL.Query().Get("address") {
		case "12 Marina, Lagos":
			_, _ = w.Write([]byte(`{"results":[{"formatted_address":"12 Marina","geometry":{"location":{"lat":6.4531,"lng":3.3958}}}]}`))
		case "nowhere":
			_, _ = w.Write([]byte(`{"results":[]}`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	g := NewGoongGeocoder("k3y", srv.URL)

	lat, lon, err := g.Geocode(context.Background(), "12 Marina, Lagos")
	require.NoError(t, err)
	assert.InDelta(t, 6.4531, lat, 1e-9)
	assert.InDelta(t, 3.3958, lon, 1e-9)

	_, _, err = g.Geocode(context.Background(), "nowhere")
	assert.Equal(t, errors.ErrCodeDBNotFound, errors.CodeOf(err))

	_, _, err = g.Geocode(context.Background(), "boom")
	assert.Equal(t, errors.ErrCodeUpstream, errors.CodeOf(err))

	_, _, err = NewGoongGeocoder("", srv.URL).Geocode(context.Background(), "x")
	assert.Equal(t, errors.ErrCodeUpstream, errors.CodeOf(err))
}
