package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"lcr-attendance-backend/internal/services/dates"
)

// AttendanceReader reads back attendance recorded by submitted batches.
type AttendanceReader interface {
	PresentOn(ctx context.Context, date string) ([]string, error)
}

type AttendanceHandler struct {
	reader AttendanceReader
	dates  *dates.Parser
}

func NewAttendanceHandler(reader AttendanceReader) *AttendanceHandler {
	return &AttendanceHandler{reader: reader, dates: dates.NewParser()}
}

// PresentOn lists the roster ids marked present on the :date meeting. The
// date may be given in any format the attendance CSV accepts.
func (h *AttendanceHandler) PresentOn(c *gin.Context) {
	d, ok := h.dates.Parse(c.Param("date"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	ids, err := h.reader.PresentOn(c.Request.Context(), d.String())
	if err != nil {
		writeError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"date": d.String(), "rosterIds": ids, "total": len(ids)})
}
