package address

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	known map[string]Coordinates
	calls []string
	onTry func(n int)
}

func (f *fakeGeocoder) Geocode(_ context.Context, address string) (Coordinates, error) {
	f.calls = append(f.calls, address)
	if f.onTry != nil {
		f.onTry(len(f.calls))
	}
	if c, ok := f.known[address]; ok {
		return c, nil
	}
	return Coordinates{}, ErrNoResult
}

func TestResolveStopsAtFirstSuccess(t *testing.T) {
	g := &fakeGeocoder{known: map[string]Coordinates{
		"123 Main St, City, ST": {Lat: 40.1, Lng: -111.6},
		"123 Main St":           {Lat: 1, Lng: 1},
	}}
	r := NewResolver(g, "", zerolog.Nop())

	res := r.Resolve(context.Background(), "123 Main St, City, ST 12345-6789")

	require.True(t, res.OK())
	assert.Equal(t, "123 Main St, City, ST", res.Variant)
	assert.Equal(t, Coordinates{Lat: 40.1, Lng: -111.6}, *res.Coordinates)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, []string{
		"123 Main St, City, ST 12345-6789",
		"123 Main St, City, ST 12345",
		"123 Main St, City, ST",
	}, g.calls)
}

func TestResolveExhaustsVariants(t *testing.T) {
	g := &fakeGeocoder{}
	r := NewResolver(g, "", zerolog.Nop())

	res := r.Resolve(context.Background(), "123 Main St, City, ST 12345-6789")

	assert.False(t, res.OK())
	assert.Equal(t, 6, res.Attempts)
	assert.Contains(t, res.Error, "all 6 variants failed")
	assert.Contains(t, res.Error, ErrNoResult.Error())
}

func TestResolveAllKeepsGoingAfterFailures(t *testing.T) {
	g := &fakeGeocoder{known: map[string]Coordinates{"9 Elm Rd, Orem, UT": {Lat: 2, Lng: 3}}}
	r := NewResolver(g, "", zerolog.Nop())

	out, err := r.ResolveAll(context.Background(), []string{"", "nowhere", "9 Elm Rd, Orem, UT"})

	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, "empty address", out[0].Error)
	assert.False(t, out[1].OK())
	assert.True(t, out[2].OK())
}

func TestResolveAllCancellationKeepsPartialResults(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := &fakeGeocoder{known: map[string]Coordinates{"1 A Rd, Orem, UT": {Lat: 1, Lng: 1}}}
	g.onTry = func(n int) {
		if n == 2 {
			cancel()
		}
	}
	r := NewResolver(g, "", zerolog.Nop())

	out, err := r.ResolveAll(ctx, []string{"1 A Rd, Orem, UT", "2 B Rd, Orem, UT", "3 C Rd, Orem, UT"})

	assert.True(t, errors.Is(err, context.Canceled))
	require.Len(t, out, 1)
	assert.True(t, out[0].OK())
	assert.Len(t, g.calls, 2)
}

func TestNominatimGeocoder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		if r.URL.Query().Get("q") == "9 Elm Rd, Orem, UT" {
			_, _ = w.Write([]byte(`[{"lat":"40.29","lon":"-111.69"}]`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewNominatimGeocoder(srv.URL+"/search", "test-agent")

	c, err := g.Geocode(context.Background(), "9 Elm Rd, Orem, UT")
	require.NoError(t, err)
	assert.InDelta(t, 40.29, c.Lat, 1e-9)
	assert.InDelta(t, -111.69, c.Lng, 1e-9)

	_, err = g.Geocode(context.Background(), "nowhere")
	assert.ErrorIs(t, err, ErrNoResult)
}
