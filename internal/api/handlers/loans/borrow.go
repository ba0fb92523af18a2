package loans

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/lfarias-dev/biblioteca-api/internal/api/apperr"
	"github.com/lfarias-dev/biblioteca-api/internal/api/httpx"
	"github.com/lfarias-dev/biblioteca-api/internal/api/middlewares"
	storeloans "github.com/lfarias-dev/biblioteca-api/internal/store/loans"
)

// Borrow opens a loan for one copy of the book in the path.
func (h *Handler) Borrow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || bookID <= 0 {
			apperr.NotFound(w, r, "book not found")
			return
		}

		actor := middlewares.ActorFrom(r)
		loan, err := h.Ledger.Borrow(r.Context(), bookID, actor, time.Now())
		if err != nil {
			switch {
			case errors.Is(err, storeloans.ErrBookNotFound):
				apperr.NotFound(w, r, "book not found")
			case errors.Is(err, storeloans.ErrNoCopiesAvailable):
				apperr.Conflict(w, r, "No Copies Available", "all copies of this book are on loan")
			default:
				apperr.Internal(w, r, "failed to borrow book")
			}
			return
		}

		httpx.WriteJSON(w, http.StatusCreated, map[string]any{
			"status": "success",
			"data":   loan,
		})
	}
}
