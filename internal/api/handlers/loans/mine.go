package loans

import (
	"net/http"

	"github.com/lfarias-dev/biblioteca-api/internal/api/apperr"
	"github.com/lfarias-dev/biblioteca-api/internal/api/httpx"
	"github.com/lfarias-dev/biblioteca-api/internal/api/middlewares"
	"github.com/lfarias-dev/biblioteca-api/internal/models"
)

// Mine lists the caller's loans, newest first.
func (h *Handler) Mine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middlewares.ActorFrom(r)
		loans, err := h.Ledger.LoansFor(r.Context(), actor)
		if err != nil {
			apperr.Internal(w, r, "failed to list loans")
			return
		}
		if loans == nil {
			loans = []models.Loan{}
		}
		httpx.OK(w, loans)
	}
}
