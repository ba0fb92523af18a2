package search

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestFacets(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, name FROM categories ORDER BY name`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(1, "Ficção").
			AddRow(2, "Romance"))
	mock.ExpectQuery(`SELECT DISTINCT language FROM books`).
		WillReturnRows(sqlmock.NewRows([]string{"language"}).
			AddRow("en").
			AddRow("pt"))

	h := NewHandler(db, nil, nil)
	w := httptest.NewRecorder()
	h.Facets()(w, httptest.NewRequest(http.MethodGet, "/search/facets", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	require.Contains(t, body, `"name":"Ficção"`)
	require.Contains(t, body, `"languages":["en","pt"]`)
	require.NoError(t, mock.ExpectationsWereMet())
}
