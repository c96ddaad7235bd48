package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"lcr-attendance-backend/internal/apperrors"
	"lcr-attendance-backend/internal/services/address"
)

// AddressHandler serves address variants and the trip planning session.
type AddressHandler struct {
	trip     *address.TripSession
	resolver *address.Resolver
	locality string
}

// NewAddressHandler builds the handler. resolver may be nil when no geocoder
// is configured; geocoding requests then fail with 503.
func NewAddressHandler(trip *address.TripSession, resolver *address.Resolver, commonLocality string) *AddressHandler {
	return &AddressHandler{trip: trip, resolver: resolver, locality: commonLocality}
}

func (h *AddressHandler) Variants(c *gin.Context) {
	var payload struct {
		Address  string  `json:"address"`
		Locality *string `json:"locality"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	locality := h.locality
	if payload.Locality != nil {
		locality = *payload.Locality
	}
	c.JSON(http.StatusOK, address.Normalize(payload.Address, locality))
}

func (h *AddressHandler) GetTrip(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"records":  h.trip.Records(),
		"geocoded": h.trip.Geocoded(),
	})
}

func (h *AddressHandler) SetRecords(c *gin.Context) {
	var payload struct {
		Records []address.Record `json:"records"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	for i, r := range payload.Records {
		if strings.TrimSpace(r.ID) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("record %d has no id", i)})
			return
		}
	}
	h.trip.SetRecords(payload.Records)
	c.JSON(http.StatusOK, gin.H{"records": h.trip.Records()})
}

// Geocode resolves every trip record. A cancelled request keeps whatever was
// resolved before it stopped.
func (h *AddressHandler) Geocode(c *gin.Context) {
	if h.resolver == nil {
		writeError(c, fmt.Errorf("geocoding is not configured: %w", apperrors.ErrUnavailable))
		return
	}

	records := h.trip.Records()
	raws := make([]string, len(records))
	for i, r := range records {
		raws[i] = r.Address
	}

	resolved, err := h.resolver.ResolveAll(c.Request.Context(), raws)
	out := make([]address.Geocoded, len(resolved))
	for i, res := range resolved {
		out[i] = address.Geocoded{Record: records[i], Resolution: res}
	}
	h.trip.SetGeocoded(out)

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusOK, gin.H{"geocoded": h.trip.Geocoded(), "cancelled": true})
		return
	}
	failed := 0
	for _, g := range out {
		if !g.Resolution.OK() {
			failed++
		}
	}
	c.JSON(http.StatusOK, gin.H{"geocoded": h.trip.Geocoded(), "failed": failed})
}

func (h *AddressHandler) ResetTrip(c *gin.Context) {
	h.trip.Reset()
	c.Status(http.StatusNoContent)
}
