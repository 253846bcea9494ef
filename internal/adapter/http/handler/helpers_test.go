package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/txledger/internal/adapter/http/dto"
	"github.com/iho/txledger/internal/domain"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", defaultPageLimit, 0},
		{"?limit=20&offset=40", 20, 40},
		{"?limit=invalid&offset=-1", defaultPageLimit, 0},
		{"?limit=0", defaultPageLimit, 0},
		{"?limit=100000", maxPageLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/accounts"+tt.query, nil)
			limit, offset := parsePagination(req)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Fatalf("expected (%d, %d), got (%d, %d)", tt.wantLimit, tt.wantOffset, limit, offset)
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"account not found", fmt.Errorf("lookup: %w", domain.ErrAccountNotFound), http.StatusNotFound},
		{"account exists", domain.ErrAccountExists, http.StatusConflict},
		{"invalid account id", fmt.Errorf("%w: too long", domain.ErrInvalidAccountID), http.StatusBadRequest},
		{"negative amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"bad transaction type", domain.NewFormatError(domain.ErrInvalidTransactionType), http.StatusBadRequest},
		{"broker down", fmt.Errorf("%w: channel closed", domain.ErrPublishFailed), http.StatusServiceUnavailable},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestWriteDomainError(t *testing.T) {
	rr := httptest.NewRecorder()

	writeDomainError(rr, domain.ErrAccountNotFound, "failed to get account")

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected application/json, got %s", ct)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error != "failed to get account" || resp.Message != domain.ErrAccountNotFound.Error() {
		t.Fatalf("unexpected body %+v", resp)
	}
}
