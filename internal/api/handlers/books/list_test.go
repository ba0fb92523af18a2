package books

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

var bookColumns = []string{
	"id", "title", "author", "isbn", "publisher", "language",
	"edition_year", "copies_total", "category_id", "name", "active_loans",
}

func TestListEnvelope(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM \(`).
		WithArgs("%dom%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY lower\(b\.title\)`).
		WithArgs("%dom%", 20, 0).
		WillReturnRows(sqlmock.NewRows(bookColumns).
			AddRow(1, "Dom Casmurro", "Machado de Assis", "978-85", "", "pt", 1899, 3, nil, nil, 1))

	h := NewHandler(db, nil, nil, nil)
	r := httptest.NewRequest(http.MethodGet, "/books/?q=dom", nil)
	w := httptest.NewRecorder()
	h.List()(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, `"title":"Dom Casmurro"`)
	require.Contains(t, body, `"available":2`)
	require.Contains(t, body, `"total":1`)
	require.Contains(t, body, `"per_page":20`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListShowAllSkipsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM \(`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`ORDER BY lower\(b\.title\)\s*$`).
		WillReturnRows(sqlmock.NewRows(bookColumns))

	h := NewHandler(db, nil, nil, nil)
	r := httptest.NewRequest(http.MethodGet, "/books/?mostrar=todos", nil)
	w := httptest.NewRecorder()
	h.List()(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"show_all":true`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSuggestWithoutTermFallsThroughToListing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM \(`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`ORDER BY lower\(b\.title\)`).
		WithArgs(20, 0).
		WillReturnRows(sqlmock.NewRows(bookColumns))

	h := NewHandler(db, nil, nil, nil)
	r := httptest.NewRequest(http.MethodGet, "/books/?suggest=1", nil)
	w := httptest.NewRecorder()
	h.List()(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"success"`)
	require.NotContains(t, w.Body.String(), `"titles"`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSuggestWithTermReturnsAutocomplete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`ILIKE \$1[\s\S]+LIMIT \$2`).
		WithArgs("%dom%", 8).
		WillReturnRows(sqlmock.NewRows(bookColumns).
			AddRow(1, "Dom Casmurro", "Machado de Assis", "978-85", "", "pt", 1899, 3, nil, nil, 0))

	h := NewHandler(db, nil, nil, nil)
	r := httptest.NewRequest(http.MethodGet, "/books/?suggest=1&q=dom", nil)
	w := httptest.NewRecorder()
	h.List()(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t,
		`{"titles":["Dom Casmurro"],"authors":["Machado de Assis"],"isbns":["978-85"]}`,
		w.Body.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExportCSVDownload(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM \(`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`ORDER BY lower\(b\.title\)`).
		WithArgs("%machado%").
		WillReturnRows(sqlmock.NewRows(bookColumns).
			AddRow(1, "Dom Casmurro", "Machado de Assis", "978-85", "", "pt", 1899, 3, nil, nil, 0))

	h := NewHandler(db, nil, nil, nil)
	r := httptest.NewRequest(http.MethodGet, "/books/?author=machado&export=csv", nil)
	w := httptest.NewRecorder()
	h.List()(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `attachment; filename="livros.csv"`, w.Header().Get("Content-Disposition"))
	body := w.Body.String()
	require.Contains(t, body, "Título,Autor,ISBN,Disponíveis,Categoria,Idioma,Ano")
	require.Contains(t, body, "Dom Casmurro,Machado de Assis,978-85,3,,pt,1899")
	require.NoError(t, mock.ExpectationsWereMet())
}
