package books

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/lfarias-dev/biblioteca-api/internal/store/catalog"
)

// filterParams are the query keys that shape the result set; they are the
// ones echoed into the search history. Switches like export/suggest are not
// part of the search itself.
var filterParams = []string{
	"q", "title", "author", "isbn", "disponivel", "categoria",
	"idioma", "ano_min", "ano_max", "ordenar", "mostrar",
}

// parseFilters builds the filter spec from the raw query. Malformed values
// are dropped, never rejected: a bad page means page 1, a bad sort means the
// title sort, a non-numeric category means no category filter.
func parseFilters(q url.Values) catalog.Filters {
	f := catalog.Filters{Sort: catalog.SortTitle, Page: 1}

	f.Q = strings.TrimSpace(q.Get("q"))
	f.Title = strings.TrimSpace(q.Get("title"))
	f.Author = strings.TrimSpace(q.Get("author"))
	f.ISBN = strings.TrimSpace(q.Get("isbn"))
	f.Language = strings.TrimSpace(q.Get("idioma"))
	f.AvailableOnly = q.Get("disponivel") == "1"

	if id, err := strconv.ParseInt(q.Get("categoria"), 10, 64); err == nil && id > 0 {
		f.CategoryID = &id
	}
	if y, err := strconv.Atoi(q.Get("ano_min")); err == nil {
		f.YearMin = &y
	}
	if y, err := strconv.Atoi(q.Get("ano_max")); err == nil {
		f.YearMax = &y
	}

	switch q.Get("ordenar") {
	case catalog.SortAuthor:
		f.Sort = catalog.SortAuthor
	case catalog.SortAvailability:
		f.Sort = catalog.SortAvailability
	}

	if q.Get("mostrar") == "todos" {
		f.ShowAll = true
	} else if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 1 {
		f.Page = p
	}

	return f
}

// historyParams flattens the filter keys actually present in the request into
// the map persisted alongside the free-text term.
func historyParams(q url.Values) map[string]string {
	params := make(map[string]string)
	for _, k := range filterParams {
		if v := strings.TrimSpace(q.Get(k)); v != "" {
			params[k] = v
		}
	}
	return params
}
