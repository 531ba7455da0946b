package borrowsvc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/veenayaksirohi/smart-library-borrowing-system/model"
	borrowrepo "github.com/veenayaksirohi/smart-library-borrowing-system/repository/borrow"
)

// errors used by controllers

type ErrCode string

const (
	ErrBookNotFound    ErrCode = "BOOK_NOT_FOUND"
	ErrBookUnavailable ErrCode = "BOOK_UNAVAILABLE"
	ErrAlreadyBorrow   ErrCode = "ALREADY_BORROWING"
	ErrInvalidDays     ErrCode = "INVALID_DAYS"
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrNotActive       ErrCode = "NOT_ACTIVE"
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

// dto

type Rules struct {
	MaxBooksPerUser int     `json:"maxBooksPerUser"`
	MaxBorrowDays   int     `json:"maxBorrowDays"`
	PenaltyPerDay   float64 `json:"penaltyPerDay"`
}

type CostBreakdown struct {
	DailyRate    float64 `json:"dailyRate"`
	NumberOfDays int     `json:"numberOfDays"`
	Subtotal     float64 `json:"subtotal"`
	Total        float64 `json:"total"`
}

type ReturnResult struct {
	BorrowID       int64     `json:"borrowId"`
	ReturnDate     time.Time `json:"returnDate"`
	Status         string    `json:"status"`
	TotalCost      float64   `json:"totalCost"`
	DaysLate       int       `json:"daysLate"`
	OverdueCharges float64   `json:"overdueCharges"`
	FinalAmount    float64   `json:"finalAmount"`
}

type BookDetails struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

type Summary struct {
	BorrowID       int64       `json:"borrowId"`
	Book           BookDetails `json:"bookDetails"`
	BorrowDate     time.Time   `json:"borrowDate"`
	DueDate        time.Time   `json:"dueDate"`
	ReturnDate     *time.Time  `json:"returnDate,omitempty"`
	Status         string      `json:"status"`
	TotalCost      float64     `json:"totalCost"`
	DaysOverdue    int         `json:"daysOverdue"`
	OverdueCharges float64     `json:"overdueCharges"`
}

type ActiveBorrow struct {
	borrowrepo.ActiveRow
	DaysRemaining int `json:"daysRemaining"`
}

type HistoryRow = borrowrepo.HistoryRow

// repo surfaces, narrowed to what this service touches

type BookRepo interface {
	ByID(ctx context.Context, id int64) (*model.Book, error)
	MarkUnavailable(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error)
	MarkAvailable(ctx context.Context, tx *sql.Tx, bookID int64) error
}

type PaymentRepo interface {
	Insert(ctx context.Context, tx *sql.Tx, userID int64, amount float64) (int64, error)
	MarkPaid(ctx context.Context, tx *sql.Tx, paymentID int64) (bool, error)
	DebitBalance(ctx context.Context, tx *sql.Tx, userID int64, amount float64) error
}

type Repo interface {
	LockUser(ctx context.Context, tx *sql.Tx, userID int64) (float64, error)
	HasActive(ctx context.Context, userID int64) (bool, error)
	HasActiveTx(ctx context.Context, tx *sql.Tx, userID int64) (bool, error)
	Insert(ctx context.Context, tx *sql.Tx, b *model.Borrow) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, borrowID int64) (*model.Borrow, error)
	MarkReturned(ctx context.Context, tx *sql.Tx, borrowID int64, returnDate time.Time, overdue float64) error
	GetSummary(ctx context.Context, userID, borrowID int64) (*borrowrepo.SummaryRow, error)
	ListActive(ctx context.Context, userID int64) ([]borrowrepo.ActiveRow, error)
	ListHistory(ctx context.Context, userID int64, limit, offset int) ([]borrowrepo.HistoryRow, int64, error)
}

type Service interface {
	// Validate checks the borrow rules without writing anything.
	Validate(ctx context.Context, userID, bookID int64) (*Rules, error)

	// Calculate prices a prospective borrow.
	Calculate(ctx context.Context, bookID int64, daysToKeep int) (*CostBreakdown, error)

	// Borrow creates the borrow, its Pending payment, and flips availability
	// in one transaction.
	Borrow(ctx context.Context, userID, bookID int64, daysToKeep int) (*model.Borrow, error)

	// Return settles an active borrow: overdue charge, availability,
	// payment, balance.
	Return(ctx context.Context, userID, borrowID int64) (*ReturnResult, error)

	Summary(ctx context.Context, userID, borrowID int64) (*Summary, error)
	Active(ctx context.Context, userID int64) ([]ActiveBorrow, error)
	History(ctx context.Context, userID int64, limit, offset int) ([]HistoryRow, int64, error)
}

type service struct {
	db    *sql.DB
	r     Repo
	books BookRepo
	pay   PaymentRepo
	now   func() time.Time
}

func New(db *sql.DB, r Repo, books BookRepo, pay PaymentRepo) Service {
	return &service{db: db, r: r, books: books, pay: pay, now: time.Now}
}

func (s *service) Validate(ctx context.Context, userID, bookID int64) (*Rules, error) {
	book, err := s.books.ByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookNotFound)
		}
		return nil, err
	}
	if !book.Available {
		return nil, makeErr(ErrBookUnavailable)
	}

	active, err := s.r.HasActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, makeErr(ErrAlreadyBorrow)
	}

	return &Rules{
		MaxBooksPerUser: MaxBooksPerUser,
		MaxBorrowDays:   MaxBorrowDays,
		PenaltyPerDay:   PenaltyPerDay,
	}, nil
}

func (s *service) Calculate(ctx context.Context, bookID int64, daysToKeep int) (*CostBreakdown, error) {
	if daysToKeep < 1 || daysToKeep > MaxBorrowDays {
		return nil, makeErr(ErrInvalidDays)
	}
	book, err := s.books.ByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookNotFound)
		}
		return nil, err
	}

	total := RentalCost(book.PricePerDay, daysToKeep)
	return &CostBreakdown{
		DailyRate:    book.PricePerDay,
		NumberOfDays: daysToKeep,
		Subtotal:     total,
		Total:        total,
	}, nil
}

func (s *service) Borrow(ctx context.Context, userID, bookID int64, daysToKeep int) (b *model.Borrow, err error) {
	if daysToKeep < 1 || daysToKeep > MaxBorrowDays {
		return nil, makeErr(ErrInvalidDays)
	}
	book, err := s.books.ByID(ctx, bookID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrBookNotFound)
		}
		return nil, err
	}
	if !book.Available {
		return nil, makeErr(ErrBookUnavailable)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	// Serialize this user's borrow attempts before the single-active check.
	if _, err = s.r.LockUser(ctx, tx, userID); err != nil {
		return nil, err
	}
	active, err := s.r.HasActiveTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if active {
		err = makeErr(ErrAlreadyBorrow)
		return nil, err
	}

	// Conditional flip: losing a concurrent race on the same book shows up
	// as zero rows affected, not as two successful borrows.
	ok, err := s.books.MarkUnavailable(ctx, tx, bookID)
	if err != nil {
		return nil, err
	}
	if !ok {
		err = makeErr(ErrBookUnavailable)
		return nil, err
	}

	total := RentalCost(book.PricePerDay, daysToKeep)
	paymentID, err := s.pay.Insert(ctx, tx, userID, total)
	if err != nil {
		return nil, err
	}

	// Calendar-day semantics: the due date is a date, not an instant.
	now := s.now().UTC()
	borrowDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	b = &model.Borrow{
		BookID:     bookID,
		UserID:     userID,
		PaymentID:  paymentID,
		BorrowDate: borrowDate,
		DueDate:    borrowDate.AddDate(0, 0, daysToKeep),
		TotalCost:  total,
		Status:     model.BorrowActive,
	}
	if err = s.r.Insert(ctx, tx, b); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Return(ctx context.Context, userID, borrowID int64) (res *ReturnResult, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	b, err := s.r.GetForUpdate(ctx, tx, borrowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = makeErr(ErrNotFound)
		}
		return nil, err
	}
	if b.UserID != userID {
		err = makeErr(ErrNotFound)
		return nil, err
	}
	if b.Status != model.BorrowActive {
		err = makeErr(ErrNotActive)
		return nil, err
	}

	now := s.now()
	late := DaysLate(b.DueDate, now)
	overdue := Penalty(late, PenaltyPerDay)
	final := b.TotalCost + overdue

	if err = s.r.MarkReturned(ctx, tx, b.ID, now, overdue); err != nil {
		return nil, err
	}
	if err = s.books.MarkAvailable(ctx, tx, b.BookID); err != nil {
		return nil, err
	}
	settled, err := s.pay.MarkPaid(ctx, tx, b.PaymentID)
	if err != nil {
		return nil, err
	}
	if !settled {
		err = fmt.Errorf("payment %d for borrow %d is not pending", b.PaymentID, b.ID)
		return nil, err
	}
	if err = s.pay.DebitBalance(ctx, tx, userID, final); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &ReturnResult{
		BorrowID:       b.ID,
		ReturnDate:     now,
		Status:         string(model.BorrowReturned),
		TotalCost:      b.TotalCost,
		DaysLate:       late,
		OverdueCharges: overdue,
		FinalAmount:    final,
	}, nil
}

func (s *service) Summary(ctx context.Context, userID, borrowID int64) (*Summary, error) {
	row, err := s.r.GetSummary(ctx, userID, borrowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}

	b := row.Borrow
	daysOverdue := 0
	charges := b.Overdue
	if b.Status == model.BorrowActive {
		// Live view for an overdue active borrow; nothing is persisted
		// until the return.
		daysOverdue = DaysLate(b.DueDate, s.now())
		charges = Penalty(daysOverdue, PenaltyPerDay)
	} else if b.ReturnDate != nil {
		daysOverdue = DaysLate(b.DueDate, *b.ReturnDate)
	}

	return &Summary{
		BorrowID:       b.ID,
		Book:           BookDetails{ID: b.BookID, Title: row.Title, Author: row.Author},
		BorrowDate:     b.BorrowDate,
		DueDate:        b.DueDate,
		ReturnDate:     b.ReturnDate,
		Status:         string(b.Status),
		TotalCost:      b.TotalCost,
		DaysOverdue:    daysOverdue,
		OverdueCharges: charges,
	}, nil
}

func (s *service) Active(ctx context.Context, userID int64) ([]ActiveBorrow, error) {
	rows, err := s.r.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]ActiveBorrow, 0, len(rows))
	for _, row := range rows {
		out = append(out, ActiveBorrow{
			ActiveRow:     row,
			DaysRemaining: int(math.Ceil(row.DueDate.Sub(now).Hours() / 24)),
		})
	}
	return out, nil
}

func (s *service) History(ctx context.Context, userID int64, limit, offset int) ([]HistoryRow, int64, error) {
	return s.r.ListHistory(ctx, userID, limit, offset)
}
