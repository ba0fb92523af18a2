package models

import "time"

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	ISBN        string    `json:"isbn"`
	Publisher   string    `json:"publisher,omitempty"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	Language    string    `json:"language,omitempty"`
	EditionYear *int      `json:"edition_year,omitempty"`
	CopiesTotal int       `json:"copies_total"`
	CreatedAt   time.Time `json:"-"`
}

// Loan closes exactly once: ReturnedAt is nil while active and immutable after.
type Loan struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	BookTitle  string     `json:"book_title,omitempty"`
	UserID     string     `json:"user_id,omitempty"`
	SessionKey string     `json:"-"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	DueDate    time.Time  `json:"due_date"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}

func (l *Loan) Active() bool { return l.ReturnedAt == nil }

func (l *Loan) Overdue(today time.Time) bool {
	return l.ReturnedAt == nil && l.DueDate.Before(today)
}

type SearchQuery struct {
	ID         int64             `json:"id"`
	UserID     string            `json:"user_id,omitempty"`
	SessionKey string            `json:"-"`
	Q          string            `json:"q"`
	Params     map[string]string `json:"params"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Actor identifies the caller: an externally issued user id, or an opaque
// session token for anonymous callers. Staff unlocks override paths.
type Actor struct {
	UserID     string
	SessionKey string
	Staff      bool
}

func (a Actor) Anonymous() bool { return a.UserID == "" }

// Owns reports whether the actor is the borrower of the loan.
func (a Actor) Owns(l *Loan) bool {
	if l.UserID != "" {
		return a.UserID == l.UserID
	}
	return l.SessionKey != "" && a.SessionKey == l.SessionKey
}
