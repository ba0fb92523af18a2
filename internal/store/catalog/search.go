package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lfarias-dev/biblioteca-api/internal/store/shared"
)

// PageSize is the fixed listing page size unless show-all is requested.
const PageSize = 20

// Sort keys. Ascending only; there is no descending option.
const (
	SortTitle        = "title"
	SortAuthor       = "author"
	SortAvailability = "disponibilidade"
)

// Filters is the eagerly-validated filter/sort/pagination spec for one search.
// Handlers build it once from query parameters; malformed parameters never
// reach this struct (they are dropped at parse time).
type Filters struct {
	// Free-text term. When set, matches title OR author OR ISBN and the
	// specific-field filters below are ignored.
	Q string

	Title  string
	Author string
	ISBN   string

	AvailableOnly bool
	CategoryID    *int64
	Language      string
	YearMin       *int
	YearMax       *int

	Sort    string
	Page    int
	ShowAll bool
}

// Empty reports whether the request carried no filter at all; such listings
// are not recorded in the search history.
func (f Filters) Empty() bool {
	return f.Q == "" && f.Title == "" && f.Author == "" && f.ISBN == "" &&
		!f.AvailableOnly && f.CategoryID == nil && f.Language == "" &&
		f.YearMin == nil && f.YearMax == nil
}

// BookRow is a Book annotated with its computed active-loan count.
type BookRow struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Author       string `json:"author"`
	ISBN         string `json:"isbn"`
	Publisher    string `json:"publisher,omitempty"`
	Language     string `json:"language,omitempty"`
	EditionYear  *int   `json:"edition_year,omitempty"`
	CopiesTotal  int    `json:"copies_total"`
	CategoryID   *int64 `json:"category_id,omitempty"`
	CategoryName string `json:"category,omitempty"`
	ActiveLoans  int    `json:"active_loans"`
}

// Available is copies_total minus active loans, clamped at 0 for display.
func (b BookRow) Available() int {
	if n := b.CopiesTotal - b.ActiveLoans; n > 0 {
		return n
	}
	return 0
}

const searchFrom = `
FROM books b
LEFT JOIN categories c ON c.id = b.category_id
LEFT JOIN loans l ON l.book_id = b.id AND l.returned_at IS NULL
`

func buildWhere(f Filters) (where, having string, args []any) {
	clauses := make([]string, 0, 6)

	if f.Q != "" {
		args = append(args, "%"+f.Q+"%")
		n := len(args)
		clauses = append(clauses,
			fmt.Sprintf("(b.title ILIKE $%d OR b.author ILIKE $%d OR b.isbn ILIKE $%d)", n, n, n))
	} else {
		if f.Title != "" {
			args = append(args, "%"+f.Title+"%")
			clauses = append(clauses, fmt.Sprintf("b.title ILIKE $%d", len(args)))
		}
		if f.Author != "" {
			args = append(args, "%"+f.Author+"%")
			clauses = append(clauses, fmt.Sprintf("b.author ILIKE $%d", len(args)))
		}
		if f.ISBN != "" {
			args = append(args, "%"+f.ISBN+"%")
			clauses = append(clauses, fmt.Sprintf("b.isbn ILIKE $%d", len(args)))
		}
	}

	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		clauses = append(clauses, fmt.Sprintf("b.category_id = $%d", len(args)))
	}
	if f.Language != "" {
		args = append(args, f.Language)
		clauses = append(clauses, fmt.Sprintf("lower(b.language) = lower($%d)", len(args)))
	}
	if f.YearMin != nil {
		args = append(args, *f.YearMin)
		clauses = append(clauses, fmt.Sprintf("b.edition_year >= $%d", len(args)))
	}
	if f.YearMax != nil {
		args = append(args, *f.YearMax)
		clauses = append(clauses, fmt.Sprintf("b.edition_year <= $%d", len(args)))
	}

	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ") + "\n"
	}
	if f.AvailableOnly {
		having = "HAVING COUNT(l.id) < b.copies_total\n"
	}
	return where, having, args
}

func orderBy(sort string) string {
	switch sort {
	case SortAuthor:
		return "ORDER BY lower(b.author), b.title\n"
	case SortAvailability:
		return "ORDER BY (b.copies_total - COUNT(l.id)), b.title\n"
	default:
		return "ORDER BY lower(b.title)\n"
	}
}

// Search runs the compound query and returns one ordered page of annotated
// books plus the total match count. ShowAll disables pagination.
// ClampPage keeps a requested page inside [1, last page] for the given total,
// so asking for page 99 of a 2-page set serves the last page, never an empty
// one.
func ClampPage(page, total int) int {
	if page < 1 {
		return 1
	}
	if last := (total + PageSize - 1) / PageSize; last > 0 && page > last {
		return last
	}
	return page
}

func Search(ctx context.Context, db *sql.DB, f Filters) ([]BookRow, int, error) {
	where, having, args := buildWhere(f)

	countSQL := `SELECT COUNT(*) FROM (SELECT b.id` + searchFrom + where +
		"GROUP BY b.id\n" + having + `) AS matched`
	var total int
	if err := db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rowsSQL := selectRows(where, having, f.Sort)
	if !f.ShowAll {
		page := ClampPage(f.Page, total)
		rowsSQL += fmt.Sprintf("LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, PageSize, (page-1)*PageSize)
	}

	rows, err := db.QueryContext(ctx, rowsSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out, err := scanBookRows(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Suggestions feeds autocomplete: field slices taken from the first rows of
// the already-filtered, ordered result set.
type Suggestions struct {
	Titles  []string `json:"titles"`
	Authors []string `json:"authors"`
	ISBNs   []string `json:"isbns"`
}

// Suggest returns up to limit titles/authors/ISBNs for the filtered set.
// Entries that only differ in case or accents collapse into the first one.
func Suggest(ctx context.Context, db *sql.DB, f Filters, limit int) (Suggestions, error) {
	where, having, args := buildWhere(f)
	rowsSQL := selectRows(where, having, f.Sort) + fmt.Sprintf("LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, rowsSQL, args...)
	if err != nil {
		return Suggestions{}, err
	}
	defer rows.Close()

	books, err := scanBookRows(rows)
	if err != nil {
		return Suggestions{}, err
	}

	s := Suggestions{
		Titles:  make([]string, 0, len(books)),
		Authors: make([]string, 0, len(books)),
		ISBNs:   make([]string, 0, len(books)),
	}
	seenTitle := make(map[string]struct{}, len(books))
	seenAuthor := make(map[string]struct{}, len(books))
	seenISBN := make(map[string]struct{}, len(books))
	for _, b := range books {
		if k := shared.Fold(b.Title); k != "" {
			if _, ok := seenTitle[k]; !ok {
				seenTitle[k] = struct{}{}
				s.Titles = append(s.Titles, b.Title)
			}
		}
		if k := shared.Fold(b.Author); k != "" {
			if _, ok := seenAuthor[k]; !ok {
				seenAuthor[k] = struct{}{}
				s.Authors = append(s.Authors, b.Author)
			}
		}
		if k := shared.Fold(b.ISBN); k != "" {
			if _, ok := seenISBN[k]; !ok {
				seenISBN[k] = struct{}{}
				s.ISBNs = append(s.ISBNs, b.ISBN)
			}
		}
	}
	return s, nil
}

func selectRows(where, having, sort string) string {
	return `SELECT b.id, b.title, b.author, b.isbn, b.publisher, b.language, b.edition_year, b.copies_total, b.category_id, c.name, COUNT(l.id) AS active_loans` +
		searchFrom + where + "GROUP BY b.id, c.name\n" + having + orderBy(sort)
}

func scanBookRows(rows *sql.Rows) ([]BookRow, error) {
	var out []BookRow
	for rows.Next() {
		var b BookRow
		var year sql.NullInt64
		var catID sql.NullInt64
		var catName sql.NullString
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Publisher,
			&b.Language, &year, &b.CopiesTotal, &catID, &catName, &b.ActiveLoans); err != nil {
			return nil, err
		}
		if year.Valid {
			y := int(year.Int64)
			b.EditionYear = &y
		}
		if catID.Valid {
			id := catID.Int64
			b.CategoryID = &id
			b.CategoryName = catName.String
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
