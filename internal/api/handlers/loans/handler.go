package loans

import (
	"context"
	"time"

	"github.com/lfarias-dev/biblioteca-api/internal/models"
)

// Ledger is what the handlers need from the loan store; tests swap in stubs.
type Ledger interface {
	Borrow(ctx context.Context, bookID int64, actor models.Actor, today time.Time) (*models.Loan, error)
	Return(ctx context.Context, loanID int64, actor models.Actor, override bool) (*models.Loan, bool, error)
	Overdue(ctx context.Context, today time.Time) ([]models.Loan, error)
	Borrowers(ctx context.Context, bookID int64) ([]models.Loan, error)
	LoansFor(ctx context.Context, actor models.Actor) ([]models.Loan, error)
	MarkReturnedBulk(ctx context.Context, ids []int64) (int64, error)
}

type Handler struct {
	Ledger Ledger
}

func NewHandler(ledger Ledger) *Handler {
	return &Handler{Ledger: ledger}
}
