package paymentsvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/veenayaksirohi/smart-library-borrowing-system/model"
	paymentrepo "github.com/veenayaksirohi/smart-library-borrowing-system/repository/payment"
)

type ErrCode string

const (
	ErrNotFound   ErrCode = "PAYMENT_NOT_FOUND"
	ErrNotPending ErrCode = "PAYMENT_NOT_PENDING"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts the error code, empty for uncoded errors.
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

type HistoryResult struct {
	Payments   []model.Payment     `json:"payments"`
	Pagination model.Pagination    `json:"pagination"`
	Summary    paymentrepo.Summary `json:"summary"`
}

type PendingPayments struct {
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type Stats struct {
	TotalSpent        float64 `json:"totalSpent"`
	AverageBorrowDays float64 `json:"averageBorrowDays"`
	ReturnRate        float64 `json:"returnRate"`
	PenaltyCharges    float64 `json:"penaltyCharges"`
}

type Dashboard struct {
	UserBalance        float64                    `json:"userBalance"`
	ActiveBorrows      int64                      `json:"activeBorrows"`
	OverdueCharges     float64                    `json:"overdueCharges"`
	TotalBooksBorrowed int64                      `json:"totalBooksBorrowed"`
	PendingPayments    PendingPayments            `json:"pendingPayments"`
	RecentBorrows      []paymentrepo.RecentBorrow `json:"recentBorrows"`
	Stats              Stats                      `json:"stats"`
}

type Repo interface {
	ByIDForUser(ctx context.Context, userID, paymentID int64) (*model.Payment, error)
	CompleteForUser(ctx context.Context, userID, paymentID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64, status string, limit, offset int) ([]model.Payment, int64, error)
	Summarize(ctx context.Context, userID int64) (*paymentrepo.Summary, error)
	BorrowStatsFor(ctx context.Context, userID int64) (*paymentrepo.BorrowStats, error)
	RecentBorrows(ctx context.Context, userID int64, n int) ([]paymentrepo.RecentBorrow, error)
}

type UserRepo interface {
	ByID(ctx context.Context, id int64) (*model.User, error)
}

type Service interface {
	History(ctx context.Context, userID int64, status string, page, limit int) (*HistoryResult, error)
	DashboardSummary(ctx context.Context, userID int64) (*Dashboard, error)

	// Complete marks the user's own Pending payment Paid.
	Complete(ctx context.Context, userID, paymentID int64) error
}

type service struct {
	r     Repo
	users UserRepo
}

func New(r Repo, users UserRepo) Service { return &service{r: r, users: users} }

const recentBorrowLimit = 5

func (s *service) History(ctx context.Context, userID int64, status string, page, limit int) (*HistoryResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	rows, total, err := s.r.ListByUser(ctx, userID, status, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	sum, err := s.r.Summarize(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []model.Payment{}
	}
	return &HistoryResult{
		Payments:   rows,
		Pagination: model.NewPagination(page, limit, total),
		Summary:    *sum,
	}, nil
}

func (s *service) DashboardSummary(ctx context.Context, userID int64) (*Dashboard, error) {
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats, err := s.r.BorrowStatsFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	paySum, err := s.r.Summarize(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.r.RecentBorrows(ctx, userID, recentBorrowLimit)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []paymentrepo.RecentBorrow{}
	}

	returnRate := 0.0
	if stats.Total > 0 {
		returnRate = float64(stats.Returned) / float64(stats.Total) * 100
	}

	return &Dashboard{
		UserBalance:        u.Balance,
		ActiveBorrows:      stats.Active,
		OverdueCharges:     stats.OverdueSum,
		TotalBooksBorrowed: stats.Total,
		PendingPayments: PendingPayments{
			Count:  paySum.PendingCount,
			Amount: paySum.TotalPending,
		},
		RecentBorrows: recent,
		Stats: Stats{
			TotalSpent:        paySum.TotalPaid,
			AverageBorrowDays: stats.AvgDaysKept,
			ReturnRate:        returnRate,
			PenaltyCharges:    stats.OverdueSum,
		},
	}, nil
}

func (s *service) Complete(ctx context.Context, userID, paymentID int64) error {
	ok, err := s.r.CompleteForUser(ctx, userID, paymentID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	// Zero rows: either the payment isn't the user's or it isn't Pending.
	if _, err := s.r.ByIDForUser(ctx, userID, paymentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return makeErr(ErrNotFound)
		}
		return err
	}
	return makeErr(ErrNotPending)
}
