package loans

import "errors"

var (
	ErrBookNotFound      = errors.New("book not found")
	ErrLoanNotFound      = errors.New("loan not found")
	ErrNoCopiesAvailable = errors.New("no copies available")
	ErrNotOwner          = errors.New("loan belongs to another borrower")
)
