package borrowrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/veenayaksirohi/smart-library-borrowing-system/model"
)

// ActiveRow is an active borrow joined with its book.
type ActiveRow struct {
	BorrowID   int64     `json:"borrowId"`
	BookID     int64     `json:"bookId"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	BorrowDate time.Time `json:"borrowDate"`
	DueDate    time.Time `json:"dueDate"`
	TotalCost  float64   `json:"totalCost"`
}

// HistoryRow is any borrow joined with its book.
type HistoryRow struct {
	BorrowID   int64      `json:"borrowId"`
	BookID     int64      `json:"bookId"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	BorrowDate time.Time  `json:"borrowDate"`
	DueDate    time.Time  `json:"dueDate"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	TotalCost  float64    `json:"totalCost"`
	Overdue    float64    `json:"overdue"`
	Status     string     `json:"status"`
}

// SummaryRow is one borrow with the book details needed for display.
type SummaryRow struct {
	Borrow model.Borrow
	Title  string
	Author string
}

type Repo interface {
	// LockUser takes a row lock on the user so concurrent borrow attempts by
	// the same user serialize before the active-borrow check.
	LockUser(ctx context.Context, tx *sql.Tx, userID int64) (balance float64, err error)

	HasActive(ctx context.Context, userID int64) (bool, error)
	HasActiveTx(ctx context.Context, tx *sql.Tx, userID int64) (bool, error)

	Insert(ctx context.Context, tx *sql.Tx, b *model.Borrow) error
	GetForUpdate(ctx context.Context, tx *sql.Tx, borrowID int64) (*model.Borrow, error)
	MarkReturned(ctx context.Context, tx *sql.Tx, borrowID int64, returnDate time.Time, overdue float64) error

	GetSummary(ctx context.Context, userID, borrowID int64) (*SummaryRow, error)
	ListActive(ctx context.Context, userID int64) ([]ActiveRow, error)
	ListHistory(ctx context.Context, userID int64, limit, offset int) ([]HistoryRow, int64, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) LockUser(ctx context.Context, tx *sql.Tx, userID int64) (float64, error) {
	const q = `
		SELECT balance
		FROM users
		WHERE id = $1
		FOR UPDATE`
	var bal float64
	err := tx.QueryRowContext(ctx, q, userID).Scan(&bal)
	return bal, err
}

const qHasActive = `
	SELECT EXISTS (
		SELECT 1 FROM borrows
		WHERE user_id = $1 AND status = 'Active'
	)`

func (r *repo) HasActive(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, qHasActive, userID).Scan(&exists)
	return exists, err
}

func (r *repo) HasActiveTx(ctx context.Context, tx *sql.Tx, userID int64) (bool, error) {
	var exists bool
	err := tx.QueryRowContext(ctx, qHasActive, userID).Scan(&exists)
	return exists, err
}

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, b *model.Borrow) error {
	const q = `
		INSERT INTO borrows (book_id, user_id, payment_id, borrow_date, due_date, total_cost, overdue, status)
		VALUES ($1,$2,$3,$4,$5,$6,0,'Active')
		RETURNING id, created_at, updated_at`
	return tx.QueryRowContext(ctx, q,
		b.BookID, b.UserID, b.PaymentID, b.BorrowDate, b.DueDate, b.TotalCost,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

func (r *repo) GetForUpdate(ctx context.Context, tx *sql.Tx, borrowID int64) (*model.Borrow, error) {
	const q = `
		SELECT id, book_id, user_id, payment_id, borrow_date, due_date, return_date, total_cost, overdue, status
		FROM borrows
		WHERE id = $1
		FOR UPDATE`
	b := &model.Borrow{}
	err := tx.QueryRowContext(ctx, q, borrowID).Scan(
		&b.ID, &b.BookID, &b.UserID, &b.PaymentID, &b.BorrowDate, &b.DueDate,
		&b.ReturnDate, &b.TotalCost, &b.Overdue, &b.Status,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) MarkReturned(ctx context.Context, tx *sql.Tx, borrowID int64, returnDate time.Time, overdue float64) error {
	const q = `
		UPDATE borrows
		SET return_date = $2,
			overdue = $3,
			status = 'Returned',
			updated_at = NOW()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, borrowID, returnDate, overdue)
	return err
}

func (r *repo) GetSummary(ctx context.Context, userID, borrowID int64) (*SummaryRow, error) {
	const q = `
		SELECT r.id, r.book_id, r.user_id, r.payment_id, r.borrow_date, r.due_date,
			r.return_date, r.total_cost, r.overdue, r.status,
			b.title, b.author
		FROM borrows r
		JOIN books b ON b.id = r.book_id
		WHERE r.id = $1 AND r.user_id = $2`
	s := &SummaryRow{}
	err := r.db.QueryRowContext(ctx, q, borrowID, userID).Scan(
		&s.Borrow.ID, &s.Borrow.BookID, &s.Borrow.UserID, &s.Borrow.PaymentID,
		&s.Borrow.BorrowDate, &s.Borrow.DueDate, &s.Borrow.ReturnDate,
		&s.Borrow.TotalCost, &s.Borrow.Overdue, &s.Borrow.Status,
		&s.Title, &s.Author,
	)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *repo) ListActive(ctx context.Context, userID int64) ([]ActiveRow, error) {
	const q = `
		SELECT r.id, r.book_id, b.title, b.author, r.borrow_date, r.due_date, r.total_cost
		FROM borrows r
		JOIN books b ON b.id = r.book_id
		WHERE r.user_id = $1 AND r.status = 'Active'
		ORDER BY r.due_date`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ActiveRow
	for rows.Next() {
		var a ActiveRow
		if err := rows.Scan(&a.BorrowID, &a.BookID, &a.Title, &a.Author,
			&a.BorrowDate, &a.DueDate, &a.TotalCost); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repo) ListHistory(ctx context.Context, userID int64, limit, offset int) ([]HistoryRow, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM borrows WHERE user_id = $1`, userID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
		SELECT r.id, r.book_id, b.title, b.author, r.borrow_date, r.due_date,
			r.return_date, r.total_cost, r.overdue, r.status
		FROM borrows r
		JOIN books b ON b.id = r.book_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var h HistoryRow
		if err := rows.Scan(&h.BorrowID, &h.BookID, &h.Title, &h.Author,
			&h.BorrowDate, &h.DueDate, &h.ReturnDate, &h.TotalCost, &h.Overdue, &h.Status); err != nil {
			return nil, 0, err
		}
		out = append(out, h)
	}
	return out, total, rows.Err()
}
