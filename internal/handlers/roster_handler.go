package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"lcr-attendance-backend/internal/models"
	"lcr-attendance-backend/internal/services/roster"
)

// RosterStore is where an imported roster is written.
type RosterStore interface {
	Upsert(ctx context.Context, members []models.RosterMember) (int, error)
	All(ctx context.Context) ([]models.RosterMember, error)
}

type RosterHandler struct {
	store RosterStore
	log   zerolog.Logger
}

func NewRosterHandler(store RosterStore, log zerolog.Logger) *RosterHandler {
	return &RosterHandler{store: store, log: log}
}

// Upload imports a roster CSV, inserting new members and updating known ids.
func (h *RosterHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	res, err := roster.ParseCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	for _, s := range res.Skipped {
		h.log.Warn().Str("file", header.Filename).Msg(s)
	}

	n, err := h.store.Upsert(c.Request.Context(), res.Members)
	if err != nil {
		writeError(c, err)
		return
	}

	h.log.Info().Str("file", header.Filename).Int("members", len(res.Members)).Int("skipped", len(res.Skipped)).Msg("roster imported")
	c.JSON(http.StatusOK, gin.H{
		"file":         header.Filename,
		"membersSaved": n,
		"skipped":      res.Skipped,
	})
}

// List returns the stored roster in import order.
func (h *RosterHandler) List(c *gin.Context) {
	members, err := h.store.All(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if members == nil {
		members = []models.RosterMember{}
	}
	c.JSON(http.StatusOK, gin.H{"items": members, "total": len(members)})
}
