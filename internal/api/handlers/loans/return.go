package loans

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/lfarias-dev/biblioteca-api/internal/api/apperr"
	"github.com/lfarias-dev/biblioteca-api/internal/api/httpx"
	"github.com/lfarias-dev/biblioteca-api/internal/api/middlewares"
	storeloans "github.com/lfarias-dev/biblioteca-api/internal/store/loans"
)

// Return closes the loan in the path. Returning an already-closed loan is not
// an error; the response carries a flag instead. Staff may close loans they
// do not own.
func (h *Handler) Return() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loanID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || loanID <= 0 {
			apperr.NotFound(w, r, "loan not found")
			return
		}

		actor := middlewares.ActorFrom(r)
		loan, already, err := h.Ledger.Return(r.Context(), loanID, actor, actor.Staff)
		if err != nil {
			switch {
			case errors.Is(err, storeloans.ErrLoanNotFound):
				apperr.NotFound(w, r, "loan not found")
			case errors.Is(err, storeloans.ErrNotOwner):
				apperr.Forbidden(w, r, "this loan belongs to another borrower")
			default:
				apperr.Internal(w, r, "failed to return loan")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"status":           "success",
			"data":             loan,
			"already_returned": already,
		})
	}
}
