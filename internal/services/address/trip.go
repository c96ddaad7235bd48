package address

import (
	"sync"
)

// Record is one household on a trip plan.
type Record struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

// Geocoded pairs a record with its geocoding outcome.
type Geocoded struct {
	Record     Record     `json:"record"`
	Resolution Resolution `json:"resolution"`
}

// TripSession owns the records and geocode results of one trip plan.
// Getters and setters copy so callers never share the underlying slices.
type TripSession struct {
	mu       sync.RWMutex
	records  []Record
	geocoded []Geocoded
}

func NewTripSession() *TripSession {
	return &TripSession{}
}

func (s *TripSession) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// SetRecords replaces the records and drops geocode results for the old set.
func (s *TripSession) SetRecords(records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]Record, len(records))
	copy(s.records, records)
	s.geocoded = nil
}

func (s *TripSession) Geocoded() []Geocoded {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Geocoded, len(s.geocoded))
	for i, g := range s.geocoded {
		out[i] = cloneGeocoded(g)
	}
	return out
}

func (s *TripSession) SetGeocoded(results []Geocoded) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.geocoded = make([]Geocoded, len(results))
	for i, g := range results {
		s.geocoded[i] = cloneGeocoded(g)
	}
}

func (s *TripSession) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
	s.geocoded = nil
}

func cloneGeocoded(g Geocoded) Geocoded {
	if g.Resolution.Coordinates != nil {
		c := *g.Resolution.Coordinates
		g.Resolution.Coordinates = &c
	}
	return g
}
