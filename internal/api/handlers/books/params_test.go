package books

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lfarias-dev/biblioteca-api/internal/store/catalog"
)

func TestParseFiltersDefaults(t *testing.T) {
	f := parseFilters(url.Values{})
	require.Equal(t, catalog.SortTitle, f.Sort)
	require.Equal(t, 1, f.Page)
	require.False(t, f.ShowAll)
	require.True(t, f.Empty())
}

func TestParseFiltersFull(t *testing.T) {
	q := url.Values{}
	q.Set("title", "dom casmurro")
	q.Set("author", "machado")
	q.Set("isbn", "978")
	q.Set("disponivel", "1")
	q.Set("categoria", "3")
	q.Set("idioma", "pt")
	q.Set("ano_min", "1890")
	q.Set("ano_max", "1910")
	q.Set("ordenar", "disponibilidade")
	q.Set("page", "4")

	f := parseFilters(q)
	require.Equal(t, "dom casmurro", f.Title)
	require.Equal(t, "machado", f.Author)
	require.True(t, f.AvailableOnly)
	require.NotNil(t, f.CategoryID)
	require.Equal(t, int64(3), *f.CategoryID)
	require.Equal(t, "pt", f.Language)
	require.Equal(t, 1890, *f.YearMin)
	require.Equal(t, 1910, *f.YearMax)
	require.Equal(t, catalog.SortAvailability, f.Sort)
	require.Equal(t, 4, f.Page)
}

func TestParseFiltersMalformedValuesDropped(t *testing.T) {
	q := url.Values{}
	q.Set("categoria", "abc")
	q.Set("ano_min", "old")
	q.Set("ordenar", "preco")
	q.Set("page", "zero")
	q.Set("disponivel", "yes")

	f := parseFilters(q)
	require.Nil(t, f.CategoryID)
	require.Nil(t, f.YearMin)
	require.Equal(t, catalog.SortTitle, f.Sort)
	require.Equal(t, 1, f.Page)
	require.False(t, f.AvailableOnly)
	require.True(t, f.Empty())
}

func TestParseFiltersShowAllWinsOverPage(t *testing.T) {
	q := url.Values{}
	q.Set("mostrar", "todos")
	q.Set("page", "5")

	f := parseFilters(q)
	require.True(t, f.ShowAll)
	require.Equal(t, 1, f.Page)
}

func TestHistoryParamsKeepsOnlyFilterKeys(t *testing.T) {
	q := url.Values{}
	q.Set("q", "machado")
	q.Set("idioma", "pt")
	q.Set("export", "csv")
	q.Set("suggest", "1")
	q.Set("page", "2")

	params := historyParams(q)
	require.Equal(t, map[string]string{"q": "machado", "idioma": "pt"}, params)
}
