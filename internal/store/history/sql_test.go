package history_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/lfarias-dev/biblioteca-api/internal/models"
	"github.com/lfarias-dev/biblioteca-api/internal/store/history"
)

var cols = []string{"id", "user_id", "session_key", "q", "params", "created_at"}

func TestListFor_User(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`WHERE user_id = \$1\s+ORDER BY created_at DESC, id DESC\s+LIMIT \$2`).
		WithArgs("u-1", 100).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(2), "u-1", "", "orwell", []byte(`{"ordenar":"title"}`), at))

	out, err := history.ListFor(t.Context(), db, models.Actor{UserID: "u-1"}, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "orwell", out[0].Q)
	require.Equal(t, map[string]string{"ordenar": "title"}, out[0].Params)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListFor_AnonymousSession(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`WHERE user_id IS NULL AND session_key = \$1`).
		WithArgs("sess-9", 100).
		WillReturnRows(sqlmock.NewRows(cols))

	out, err := history.ListFor(t.Context(), db, models.Actor{SessionKey: "sess-9"}, 0)
	require.NoError(t, err)
	require.Empty(t, out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListFor_NoIdentityReturnsNothing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	out, err := history.ListFor(t.Context(), db, models.Actor{}, 0)
	require.NoError(t, err)
	require.Nil(t, out)
	// no query was issued at all
	require.NoError(t, mock.ExpectationsWereMet())
}
