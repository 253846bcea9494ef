package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/iho/txledger/internal/adapter/http/dto"
	"github.com/iho/txledger/internal/domain"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// errorStatuses is checked in order; the first match wins.
var errorStatuses = []struct {
	target error
	status int
}{
	{domain.ErrAccountNotFound, http.StatusNotFound},
	{domain.ErrAccountExists, http.StatusConflict},
	{domain.ErrInvalidAccountID, http.StatusBadRequest},
	{domain.ErrInvalidAmount, http.StatusBadRequest},
	{domain.ErrPublishFailed, http.StatusServiceUnavailable},
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status its domain cause maps to.
func writeDomainError(w http.ResponseWriter, err error, message string) {
	writeError(w, statusFor(err), message, err.Error())
}

func statusFor(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status
		}
	}
	if domain.IsFormatError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// parsePagination reads limit and offset, falling back to defaults on
// missing or out-of-range values.
func parsePagination(r *http.Request) (limit, offset int) {
	q := r.URL.Query()

	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = defaultPageLimit
	}
	limit = min(limit, maxPageLimit)

	offset, err = strconv.Atoi(q.Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	return limit, offset
}
