package loans

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lfarias-dev/biblioteca-api/internal/models"
	"github.com/lfarias-dev/biblioteca-api/internal/store/dbx"
)

// loanPeriodDays is how long a borrower keeps a copy before it counts as overdue.
const loanPeriodDays = 14

type Store struct{ db *sql.DB }

func New(db *sql.DB) *Store { return &Store{db: db} }

// Borrow creates an active loan for bookID if a copy is free.
//
// The SELECT ... FOR UPDATE on the book row serializes concurrent borrows of
// the same book: of N simultaneous calls when one copy remains, exactly one
// commits the INSERT and the rest observe the updated count and fail with
// ErrNoCopiesAvailable. Borrows of different books do not contend.
func (s *Store) Borrow(ctx context.Context, bookID int64, actor models.Actor, today time.Time) (*models.Loan, error) {
	loan := &models.Loan{
		BookID:     bookID,
		UserID:     actor.UserID,
		SessionKey: actor.SessionKey,
		DueDate:    today.AddDate(0, 0, loanPeriodDays),
	}

	err := dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		var copiesTotal int
		var title string
		err := tx.QueryRowContext(ctx,
			`SELECT copies_total, title FROM books WHERE id = $1 FOR UPDATE`,
			bookID,
		).Scan(&copiesTotal, &title)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBookNotFound
		}
		if err != nil {
			return err
		}
		loan.BookTitle = title

		var active int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM loans WHERE book_id = $1 AND returned_at IS NULL`,
			bookID,
		).Scan(&active); err != nil {
			return err
		}
		if active >= copiesTotal {
			return ErrNoCopiesAvailable
		}

		return tx.QueryRowContext(ctx,
			`INSERT INTO loans (book_id, user_id, session_key, due_date)
			 VALUES ($1, NULLIF($2, ''), $3, $4)
			 RETURNING id, borrowed_at`,
			bookID, actor.UserID, actor.SessionKey, loan.DueDate,
		).Scan(&loan.ID, &loan.BorrowedAt)
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// Return closes the loan. A second call on an already-closed loan is a
// successful no-op and reports alreadyReturned; returned_at is never rewritten.
// The row lock on the loan makes two concurrent returns yield one transition.
func (s *Store) Return(ctx context.Context, loanID int64, actor models.Actor, override bool) (loan *models.Loan, alreadyReturned bool, err error) {
	loan = &models.Loan{ID: loanID}

	err = dbx.WithinTx(ctx, s.db, func(tx *sql.Tx) error {
		var userID, sessionKey sql.NullString
		var returnedAt sql.NullTime
		scanErr := tx.QueryRowContext(ctx,
			`SELECT l.book_id, b.title, l.user_id, l.session_key, l.borrowed_at, l.due_date, l.returned_at
			 FROM loans l JOIN books b ON b.id = l.book_id
			 WHERE l.id = $1
			 FOR UPDATE OF l`,
			loanID,
		).Scan(&loan.BookID, &loan.BookTitle, &userID, &sessionKey, &loan.BorrowedAt, &loan.DueDate, &returnedAt)
		if errors.Is(scanErr, sql.ErrNoRows) {
			return ErrLoanNotFound
		}
		if scanErr != nil {
			return scanErr
		}
		loan.UserID = userID.String
		loan.SessionKey = sessionKey.String

		if !override && !actor.Owns(loan) {
			return ErrNotOwner
		}

		if returnedAt.Valid {
			loan.ReturnedAt = &returnedAt.Time
			alreadyReturned = true
			return nil
		}

		var closedAt time.Time
		if err := tx.QueryRowContext(ctx,
			`UPDATE loans SET returned_at = now() WHERE id = $1 RETURNING returned_at`,
			loanID,
		).Scan(&closedAt); err != nil {
			return err
		}
		loan.ReturnedAt = &closedAt
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return loan, alreadyReturned, nil
}

// Availability returns copies_total minus the active-loan count, clamped at 0.
// Derived on every read; never stored.
func (s *Store) Availability(ctx context.Context, bookID int64) (int, error) {
	var total, active int
	err := s.db.QueryRowContext(ctx,
		`SELECT b.copies_total, COUNT(l.id)
		 FROM books b
		 LEFT JOIN loans l ON l.book_id = b.id AND l.returned_at IS NULL
		 WHERE b.id = $1
		 GROUP BY b.id`,
		bookID,
	).Scan(&total, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrBookNotFound
	}
	if err != nil {
		return 0, err
	}
	if active > total {
		// should be unreachable given the borrow lock; keep the display sane
		return 0, nil
	}
	return total - active, nil
}

const loanColumns = `l.id, l.book_id, b.title, COALESCE(l.user_id, ''), l.session_key, l.borrowed_at, l.due_date, l.returned_at`

// Overdue lists active loans whose due date is before today.
func (s *Store) Overdue(ctx context.Context, today time.Time) ([]models.Loan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+loanColumns+`
		 FROM loans l JOIN books b ON b.id = l.book_id
		 WHERE l.returned_at IS NULL AND l.due_date < $1
		 ORDER BY l.due_date, l.id`,
		today,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

// Borrowers lists the active loans for one book, so staff can see who holds
// the copies right now. ErrBookNotFound when the book does not exist.
func (s *Store) Borrowers(ctx context.Context, bookID int64) ([]models.Loan, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`, bookID,
	).Scan(&exists)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrBookNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+loanColumns+`
		 FROM loans l JOIN books b ON b.id = l.book_id
		 WHERE l.book_id = $1 AND l.returned_at IS NULL
		 ORDER BY l.borrowed_at, l.id`,
		bookID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

// LoansFor lists every loan belonging to the actor, newest first.
func (s *Store) LoansFor(ctx context.Context, actor models.Actor) ([]models.Loan, error) {
	var (
		where string
		arg   any
	)
	if actor.UserID != "" {
		where, arg = "l.user_id = $1", actor.UserID
	} else {
		where, arg = "l.user_id IS NULL AND l.session_key = $1", actor.SessionKey
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+loanColumns+`
		 FROM loans l JOIN books b ON b.id = l.book_id
		 WHERE `+where+`
		 ORDER BY l.borrowed_at DESC, l.id DESC`,
		arg,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLoans(rows)
}

// MarkReturnedBulk closes the still-active loans among ids and returns how
// many changed. Privileged path: no ownership check, callers gate on staff.
func (s *Store) MarkReturnedBulk(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE loans SET returned_at = now() WHERE id = ANY($1) AND returned_at IS NULL`,
		ids,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanLoans(rows *sql.Rows) ([]models.Loan, error) {
	var out []models.Loan
	for rows.Next() {
		var l models.Loan
		var returnedAt sql.NullTime
		if err := rows.Scan(&l.ID, &l.BookID, &l.BookTitle, &l.UserID, &l.SessionKey,
			&l.BorrowedAt, &l.DueDate, &returnedAt); err != nil {
			return nil, err
		}
		if returnedAt.Valid {
			l.ReturnedAt = &returnedAt.Time
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
