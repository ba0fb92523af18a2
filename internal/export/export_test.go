package export_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/lfarias-dev/biblioteca-api/internal/export"
)

func sampleTable() export.Table {
	return export.Table{
		Sheet:  "Livros",
		Header: []string{"Título", "Autor", "ISBN", "Disponíveis", "Categoria", "Idioma", "Ano"},
		Rows: [][]any{
			{"Dom Casmurro", "Machado de Assis", "85-359-0277-5", 2, "Romance", "pt", 1899},
			{"1984", "George Orwell", "978-0451524935", 0, "", "en", nil},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, sampleTable()))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Título,Autor,ISBN,Disponíveis,Categoria,Idioma,Ano", lines[0])
	require.Equal(t, "Dom Casmurro,Machado de Assis,85-359-0277-5,2,Romance,pt,1899", lines[1])
	// clamped availability of 0 and absent year come out as plain cells
	require.Equal(t, "1984,George Orwell,978-0451524935,0,,en,", lines[2])
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.WriteXLSX(&buf, sampleTable()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"Livros"}, f.GetSheetList())

	rows, err := f.GetRows("Livros")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "Título", rows[0][0])
	require.Equal(t, "Dom Casmurro", rows[1][0])
	require.Equal(t, "2", rows[1][3])
	require.Equal(t, "0", rows[2][3])
}
