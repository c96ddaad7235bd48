package address

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrNoResult is returned by a Geocoder that found nothing for an address.
var ErrNoResult = errors.New("no geocoding result")

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Geocoder resolves one address string.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinates, error)
}

// Resolution reports how one raw address was geocoded.
type Resolution struct {
	Original    string       `json:"original"`
	Variant     string       `json:"variant,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Attempts    int          `json:"attempts"`
	Error       string       `json:"error,omitempty"`
	Cancelled   bool         `json:"cancelled,omitempty"`
}

func (r Resolution) OK() bool {
	return r.Coordinates != nil
}

// Resolver tries each variant of an address in order until one geocodes.
type Resolver struct {
	geocoder Geocoder
	locality string
	log      zerolog.Logger
}

func NewResolver(g Geocoder, commonLocality string, log zerolog.Logger) *Resolver {
	return &Resolver{geocoder: g, locality: commonLocality, log: log}
}

// Resolve geocodes raw. Running out of variants is a per-address failure
// recorded in the Resolution, not an error. ctx is checked before each attempt.
func (r *Resolver) Resolve(ctx context.Context, raw string) Resolution {
	norm := Normalize(raw, r.locality)
	res := Resolution{Original: raw}

	if len(norm.Variants) == 0 {
		res.Error = "empty address"
		return res
	}

	var lastErr error
	for _, variant := range norm.Variants {
		if ctx.Err() != nil {
			res.Cancelled = true
			res.Error = "cancelled"
			return res
		}

		res.Attempts++
		coords, err := r.geocoder.Geocode(ctx, variant)
		if err != nil {
			lastErr = err
			r.log.Debug().Str("variant", variant).Err(err).Msg("geocode attempt failed")
			continue
		}

		res.Variant = variant
		res.Coordinates = &coords
		return res
	}

	res.Error = fmt.Sprintf("all %d variants failed: %v", len(norm.Variants), lastErr)
	r.log.Warn().Str("address", raw).Int("attempts", res.Attempts).Msg("address could not be geocoded")
	return res
}

// ResolveAll geocodes addresses one at a time. On cancellation it returns the
// resolutions finished so far together with ctx.Err().
func (r *Resolver) ResolveAll(ctx context.Context, raws []string) ([]Resolution, error) {
	out := make([]Resolution, 0, len(raws))
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		res := r.Resolve(ctx, raw)
		if res.Cancelled {
			return out, ctx.Err()
		}
		out = append(out, res)
	}
	return out, nil
}
