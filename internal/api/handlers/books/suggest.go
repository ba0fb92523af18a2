package books

import (
	"net/http"

	"github.com/lfarias-dev/biblioteca-api/internal/api/apperr"
	"github.com/lfarias-dev/biblioteca-api/internal/api/httpx"
	"github.com/lfarias-dev/biblioteca-api/internal/store/catalog"
)

// suggestLimit caps autocomplete to the head of the filtered, ordered set.
const suggestLimit = 8

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request, f catalog.Filters) {
	s, err := catalog.Suggest(r.Context(), h.DB, f, suggestLimit)
	if err != nil {
		apperr.Internal(w, r, "failed to load suggestions")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, s)
}
