package http

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

// respondError answers with JSON under /api/ and plain text elsewhere.
func respondError(c *gin.Context, code int, message string) {
	if isAPIRequest(c) {
		c.JSON(code, ErrorResponse{Error: message})
		return
	}
	c.String(code, message)
}

func respondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message)
}

// respondInternalError logs err with the failed step and hides it from the client.
func respondInternalError(c *gin.Context, err error, step string) {
	log.Printf("Internal error (%s): %v", step, err)
	respondError(c, http.StatusInternalServerError, "internal server error")
}

// parseRecordID reads a non-negative decimal id. inRange is false for numbers
// no record can carry: zero, or anything past the id column.
func parseRecordID(value string) (id uint, inRange bool, err error) {
	n, err := strconv.ParseUint(value, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if n == 0 || n > math.MaxUint32 {
		return 0, false, nil
	}
	return uint(n), true, nil
}

// parseIDParam reads a record id from the path, answering 400 when it is not
// a valid id.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, inRange, err := parseRecordID(c.Param(name))
	if err != nil || !inRange {
		respondBadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
