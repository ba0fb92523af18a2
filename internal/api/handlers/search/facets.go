package search

import (
	"net/http"

	"github.com/lfarias-dev/biblioteca-api/internal/api/apperr"
	"github.com/lfarias-dev/biblioteca-api/internal/api/httpx"
	"github.com/lfarias-dev/biblioteca-api/internal/store/catalog"
)

// Facets serves the category and language lists that feed the advanced
// search form.
func (h *Handler) Facets() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := catalog.LoadFacets(r.Context(), h.DB, h.RDB)
		if err != nil {
			apperr.Internal(w, r, "failed to load search facets")
			return
		}
		httpx.OK(w, f)
	}
}
