package books

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/lfarias-dev/biblioteca-api/internal/api/apperr"
	"github.com/lfarias-dev/biblioteca-api/internal/export"
	"github.com/lfarias-dev/biblioteca-api/internal/store/catalog"
)

var exportHeader = []string{"Título", "Autor", "ISBN", "Disponíveis", "Categoria", "Idioma", "Ano"}

// export streams the whole filtered set, ignoring pagination; the download
// always covers everything the filters match.
func (h *Handler) export(w http.ResponseWriter, r *http.Request, f catalog.Filters, format string) {
	f.ShowAll = true
	f.Page = 1

	rows, _, err := catalog.Search(r.Context(), h.DB, f)
	if err != nil {
		apperr.Internal(w, r, "failed to export books")
		return
	}

	t := export.Table{Sheet: "Livros", Header: exportHeader, Rows: make([][]any, 0, len(rows))}
	for _, b := range rows {
		var year any
		if b.EditionYear != nil {
			year = *b.EditionYear
		}
		t.Rows = append(t.Rows, []any{
			b.Title, b.Author, b.ISBN, b.Available(), b.CategoryName, b.Language, year,
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

	name := "livros." + format
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(buf.Bytes())

	go func(body []byte) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		h.Arc.Archive(ctx, name, contentType, body)
	}(buf.Bytes())
}
