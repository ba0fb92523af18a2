package search

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/lfarias-dev/biblioteca-api/internal/api/apperr"
	"github.com/lfarias-dev/biblioteca-api/internal/api/httpx"
	"github.com/lfarias-dev/biblioteca-api/internal/api/middlewares"
	"github.com/lfarias-dev/biblioteca-api/internal/export"
	"github.com/lfarias-dev/biblioteca-api/internal/models"
	storehistory "github.com/lfarias-dev/biblioteca-api/internal/store/history"
)

const historyLimit = 100

var historyHeader = []string{"Termo", "Parâmetros", "Data"}

// History lists the caller's recorded searches, newest first; the export
// switch turns the same list into a download.
func (h *Handler) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor := middlewares.ActorFrom(r)
		entries, err := storehistory.ListFor(r.Context(), h.DB, actor, historyLimit)
		if err != nil {
			apperr.Internal(w, r, "failed to list search history")
			return
		}
		if entries == nil {
			entries = []models.SearchQuery{}
		}

		if format := r.URL.Query().Get("export"); format == "csv" || format == "xlsx" {
			h.exportHistory(w, r, entries, format)
			return
		}
		httpx.OK(w, entries)
	}
}

func (h *Handler) exportHistory(w http.ResponseWriter, r *http.Request, entries []models.SearchQuery, format string) {
	t := export.Table{Sheet: "Histórico", Header: historyHeader, Rows: make([][]any, 0, len(entries))}
	for _, e := range entries {
		t.Rows = append(t.Rows, []any{
			e.Q, flattenParams(e.Params), e.CreatedAt.Format("02/01/2006 15:04"),
		})
	}

	var buf bytes.Buffer
	contentType, err := export.Encode(&buf, format, t)
	if err != nil {
		if errors.Is(err, export.ErrBackendUnavailable) {
			apperr.WriteStatus(w, r, http.StatusNotImplemented,
				"Export Backend Unavailable", "xlsx export is not available in this build")
			return
		}
		apperr.Internal(w, r, "failed to encode export")
		return
	}

	name := "historico_buscas." + format
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(buf.Bytes())

	go func(body []byte) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		h.Arc.Archive(ctx, name, contentType, body)
	}(buf.Bytes())
}

// flattenParams renders the stored filter map in a stable key order.
func flattenParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+params[k])
	}
	return strings.Join(parts, "; ")
}
