package loans

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/lfarias-dev/biblioteca-api/internal/api/apperr"
	"github.com/lfarias-dev/biblioteca-api/internal/api/httpx"
	"github.com/lfarias-dev/biblioteca-api/internal/models"
	storeloans "github.com/lfarias-dev/biblioteca-api/internal/store/loans"
)

// Overdue lists every active loan past its due date. Staff only; the router
// wraps this in the staff guard.
func (h *Handler) Overdue() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loans, err := h.Ledger.Overdue(r.Context(), time.Now())
		if err != nil {
			apperr.Internal(w, r, "failed to list overdue loans")
			return
		}
		if loans == nil {
			loans = []models.Loan{}
		}
		httpx.OK(w, loans)
	}
}

// Borrowers lists who currently holds the book in the path (active loans
// only). Staff only.
func (h *Handler) Borrowers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || bookID <= 0 {
			apperr.NotFound(w, r, "book not found")
			return
		}

		loans, err := h.Ledger.Borrowers(r.Context(), bookID)
		if err != nil {
			if errors.Is(err, storeloans.ErrBookNotFound) {
				apperr.NotFound(w, r, "book not found")
				return
			}
			apperr.Internal(w, r, "failed to list borrowers")
			return
		}
		if loans == nil {
			loans = []models.Loan{}
		}
		httpx.OK(w, loans)
	}
}

type bulkReturnRequest struct {
	IDs []int64 `json:"ids"`
}

// BulkReturn closes every still-active loan in the id list and reports how
// many rows actually changed. Already-closed loans are skipped, not errors.
func (h *Handler) BulkReturn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bulkReturnRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apperr.WriteStatus(w, r, http.StatusBadRequest, "Invalid Body", "expected {\"ids\": [..]}")
			return
		}
		updated, err := h.Ledger.MarkReturnedBulk(r.Context(), req.IDs)
		if err != nil {
			apperr.Internal(w, r, "failed to mark loans returned")
			return
		}
		httpx.OK(w, map[string]any{"updated": updated})
	}
}
