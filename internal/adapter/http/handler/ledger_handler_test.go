package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/txledger/internal/adapter/http/dto"
	"github.com/iho/txledger/internal/domain"
)

type stubLedgerService struct {
	report *domain.ReconciliationReport
	result *domain.ReconciliationResult
	err    error
}

func (s *stubLedgerService) CheckLedgerConsistency(context.Context) (*domain.ReconciliationReport, error) {
	return s.report, s.err
}

func (s *stubLedgerService) ReconcileAccount(_ context.Context, accountID string) (*domain.ReconciliationResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.result == nil || s.result.AccountID != accountID {
		return nil, domain.ErrAccountNotFound
	}
	return s.result, nil
}

func TestLedgerHandler_CheckConsistency(t *testing.T) {
	tests := []struct {
		name   string
		report *domain.ReconciliationReport
		err    error
		want   int
	}{
		{
			name:   "consistent",
			report: &domain.ReconciliationReport{TotalAccounts: 5},
			want:   http.StatusOK,
		},
		{
			name: "discrepancy",
			report: &domain.ReconciliationReport{
				TotalAccounts: 5,
				Discrepancies: []domain.ReconciliationResult{{AccountID: "102", Difference: decimal.NewFromInt(1)}},
			},
			want: http.StatusConflict,
		},
		{
			name: "store error",
			err:  errors.New("db down"),
			want: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewLedgerHandler(&stubLedgerService{report: tt.report, err: tt.err})

			rec := httptest.NewRecorder()
			handler.CheckConsistency(rec, httptest.NewRequest(http.MethodGet, "/ledger/consistency", nil))

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rec.Code)
			}

			if tt.report != nil {
				var resp dto.ConsistencyResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("failed to decode response: %v", err)
				}
				if resp.Consistent != tt.report.Consistent() || resp.TotalAccounts != 5 {
					t.Fatalf("unexpected response %+v", resp)
				}
			}
		})
	}
}

func TestLedgerHandler_ReconcileAccount(t *testing.T) {
	svc := &stubLedgerService{result: &domain.ReconciliationResult{
		AccountID:       "101",
		RecordedBalance: decimal.NewFromInt(10),
		ComputedBalance: decimal.NewFromInt(10),
		IsReconciled:    true,
	}}
	handler := NewLedgerHandler(svc)

	tests := []struct {
		name       string
		id         string
		reconciled bool
		want       int
	}{
		{"reconciled", "101", true, http.StatusOK},
		{"tampered", "101", false, http.StatusConflict},
		{"missing", "999", false, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc.result.IsReconciled = tt.reconciled

			req := setChiURLParam(httptest.NewRequest(http.MethodGet, "/ledger/accounts/"+tt.id, nil), "id", tt.id)
			rec := httptest.NewRecorder()
			handler.ReconcileAccount(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
			if tt.want == http.StatusNotFound {
				return
			}

			var resp dto.ReconciliationResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.AccountID != "101" || resp.Reconciled != tt.reconciled {
				t.Fatalf("unexpected response %+v", resp)
			}
		})
	}
}
