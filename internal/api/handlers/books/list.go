package books

import (
	"net/http"
	"time"

	"github.com/lfarias-dev/biblioteca-api/internal/api/apperr"
	"github.com/lfarias-dev/biblioteca-api/internal/api/httpx"
	"github.com/lfarias-dev/biblioteca-api/internal/api/middlewares"
	"github.com/lfarias-dev/biblioteca-api/internal/history/recorder"
	"github.com/lfarias-dev/biblioteca-api/internal/store/catalog"
)

// listedBook is a BookRow plus its clamped availability for display.
type listedBook struct {
	catalog.BookRow
	Available int `json:"available"`
}

// List serves the catalog listing and, on query switches, the autocomplete
// and download variants of the same filtered set.
func (h *Handler) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := parseFilters(q)

		// suggest without a term is not autocomplete; fall through to the
		// plain listing like any other request.
		if q.Get("suggest") == "1" && f.Q != "" {
			h.suggest(w, r, f)
			return
		}
		if format := q.Get("export"); format == "csv" || format == "xlsx" {
			h.export(w, r, f, format)
			return
		}

		rows, total, err := catalog.Search(r.Context(), h.DB, f)
		if err != nil {
			apperr.Internal(w, r, "failed to search books")
			return
		}

		if !f.Empty() && h.Rec != nil {
			h.Rec.Enqueue(recorder.Entry{
				Actor:  middlewares.ActorFrom(r),
				Q:      f.Q,
				Params: historyParams(q),
				At:     time.Now(),
			})
		}

		data := make([]listedBook, len(rows))
		for i, row := range rows {
			data[i] = listedBook{BookRow: row, Available: row.Available()}
		}

		page, pages := 1, 1
		if !f.ShowAll {
			pages = (total + catalog.PageSize - 1) / catalog.PageSize
			if pages < 1 {
				pages = 1
			}
			page = catalog.ClampPage(f.Page, total)
		}

		httpx.WriteJSON(w, http.StatusOK, struct {
			Status  string       `json:"status"`
			Data    []listedBook `json:"data"`
			Total   int          `json:"total"`
			Page    int          `json:"page"`
			Pages   int          `json:"pages"`
			PerPage int          `json:"per_page"`
			ShowAll bool         `json:"show_all"`
		}{
			Status:  "success",
			Data:    data,
			Total:   total,
			Page:    page,
			Pages:   pages,
			PerPage: catalog.PageSize,
			ShowAll: f.ShowAll,
		})
	}
}
