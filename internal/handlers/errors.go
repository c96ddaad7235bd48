package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lcr-attendance-backend/internal/apperrors"
)

// writeError maps service errors to a status code and a {"error": ...} body.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsNotFound(err):
		status = http.StatusNotFound
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
	case apperrors.IsInvalidState(err), apperrors.IsConflict(err):
		status = http.StatusConflict
	case apperrors.IsUnavailable(err):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func batchID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("batchId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid batch ID"})
		return uuid.Nil, false
	}
	return id, true
}

func csvDownload(c *gin.Context, filename string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}
