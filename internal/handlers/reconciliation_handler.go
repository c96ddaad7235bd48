package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"lcr-attendance-backend/internal/apperrors"
	service "lcr-attendance-backend/internal/services/reconciliation"
)

var errInvalidPayload = fmt.Errorf("invalid payload: %w", apperrors.ErrValidation)

type ReconciliationHandler struct {
	service *service.ReconciliationService
	log     zerolog.Logger
}

func NewReconciliationHandler(s *service.ReconciliationService, log zerolog.Logger) *ReconciliationHandler {
	return &ReconciliationHandler{service: s, log: log}
}

// Validate checks an attendance CSV and returns the names or the error list.
func (h *ReconciliationHandler) Validate(c *gin.Context) {
	file, _, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	res := h.service.Validate(file)
	status := http.StatusOK
	if !res.Valid() {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, res)
}

// Upload validates the CSV and starts reconciling it in the background.
func (h *ReconciliationHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	h.log.Debug().Str("file", header.Filename).Int64("size", header.Size).Msg("attendance upload received")

	id, res, err := h.service.Start(c.Request.Context(), header.Filename, file)
	if apperrors.IsValidation(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "errors": res.Errors})
		return
	}
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"batch_id":    id.String(),
		"status":      service.StatusRunning,
		"target_date": res.TargetDate,
		"total":       len(res.Names),
	})
}

func (h *ReconciliationHandler) GetBatchProgress(c *gin.Context) {
	id, ok := batchID(c)
	if !ok {
		return
	}
	p, err := h.service.Progress(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ReconciliationHandler) Entries(c *gin.Context) {
	id, ok := batchID(c)
	if !ok {
		return
	}
	v, err := h.service.Snapshot(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *ReconciliationHandler) Cancel(c *gin.Context) {
	id, ok := batchID(c)
	if !ok {
		return
	}
	if err := h.service.Cancel(id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"message": "cancellation requested"})
}

// resolve runs a per-entry action and responds with the updated entries.
func (h *ReconciliationHandler) resolve(c *gin.Context, op func(id uuid.UUID, index int) error) {
	id, ok := batchID(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entry index"})
		return
	}
	if err := op(id, index); err != nil {
		writeError(c, err)
		return
	}
	v, err := h.service.Snapshot(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *ReconciliationHandler) ConfirmMember(c *gin.Context) {
	h.resolve(c, func(id uuid.UUID, index int) error {
		var payload struct {
			RosterID string `json:"roster_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			return errInvalidPayload
		}
		return h.service.Confirm(c.Request.Context(), id, index, payload.RosterID)
	})
}

func (h *ReconciliationHandler) MarkGuest(c *gin.Context) {
	h.resolve(c, func(id uuid.UUID, index int) error {
		var payload struct {
			Category string `json:"category" binding:"required"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			return errInvalidPayload
		}
		return h.service.SetGuest(id, index, payload.Category)
	})
}

func (h *ReconciliationHandler) Skip(c *gin.Context) {
	h.resolve(c, func(id uuid.UUID, index int) error {
		return h.service.Skip(id, index)
	})
}

func (h *ReconciliationHandler) Restore(c *gin.Context) {
	h.resolve(c, func(id uuid.UUID, index int) error {
		return h.service.Restore(id, index)
	})
}

func (h *ReconciliationHandler) Clear(c *gin.Context) {
	h.resolve(c, func(id uuid.UUID, index int) error {
		return h.service.Clear(id, index)
	})
}

func (h *ReconciliationHandler) AddGuests(c *gin.Context) {
	id, ok := batchID(c)
	if !ok {
		return
	}
	var payload struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := h.service.AddGuests(id, payload.Category, payload.Count); err != nil {
		writeError(c, err)
		return
	}
	v, err := h.service.Snapshot(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"guest_counts": v.GuestCounts, "direct_guests": v.DirectGuests})
}

func (h *ReconciliationHandler) Submit(c *gin.Context) {
	id, ok := batchID(c)
	if !ok {
		return
	}
	out, err := h.service.Submit(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *ReconciliationHandler) SummaryCSV(c *gin.Context) {
	id, ok := batchID(c)
	if !ok {
		return
	}
	body, err := h.service.SummaryCSV(id)
	if err != nil {
		writeError(c, err)
		return
	}
	csvDownload(c, "attendance-summary-"+id.String()+".csv", body)
}

func (h *ReconciliationHandler) LogCSV(c *gin.Context) {
	id, ok := batchID(c)
	if !ok {
		return
	}
	body, err := h.service.LogCSV(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	csvDownload(c, "attendance-log-"+id.String()+".csv", body)
}

func (h *ReconciliationHandler) SearchRoster(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	hits, err := h.service.SearchRoster(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": hits})
}
