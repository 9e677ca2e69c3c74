package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/iho/ledger/internal/adapter/http/dto"
	"github.com/iho/ledger/internal/domain"
)

// ConsistencyChecker defines the behavior needed by LedgerHandler.
type ConsistencyChecker interface {
	CheckConsistency(ctx context.Context) (*domain.ConsistencyReport, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	ledgerUC ConsistencyChecker
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC ConsistencyChecker) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// CheckConsistency reports whether balances match entries and every
// transaction balances. An inconsistent ledger answers 409 with the counts.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrLedgerInconsistent) && report != nil {
			writeJSON(w, http.StatusConflict, dto.ConsistencyFromDomain(report))
			return
		}
		writeDomainError(w, "failed to check consistency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromDomain(report))
}
