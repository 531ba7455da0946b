package paymentrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/veenayaksirohi/smart-library-borrowing-system/model"
)

// Summary aggregates a user's payments.
type Summary struct {
	TotalPaid    float64 `json:"totalPaid"`
	TotalPending float64 `json:"totalPending"`
	PendingCount int64   `json:"pendingCount"`
}

// BorrowStats aggregates a user's borrows for the dashboard.
type BorrowStats struct {
	Active      int64
	Total       int64
	Returned    int64
	OverdueSum  float64
	AvgDaysKept float64
}

// RecentBorrow is a dashboard row for the latest borrows.
type RecentBorrow struct {
	BorrowID   int64     `json:"borrowId"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	BorrowDate time.Time `json:"borrowDate"`
	DueDate    time.Time `json:"dueDate"`
	TotalCost  float64   `json:"totalCost"`
	Status     string    `json:"status"`
}

type Repo interface {
	Insert(ctx context.Context, tx *sql.Tx, userID int64, amount float64) (int64, error)

	// MarkPaid settles a Pending payment inside the caller's transaction.
	// Zero rows affected means the payment was not Pending.
	MarkPaid(ctx context.Context, tx *sql.Tx, paymentID int64) (bool, error)
	DebitBalance(ctx context.Context, tx *sql.Tx, userID int64, amount float64) error

	ByIDForUser(ctx context.Context, userID, paymentID int64) (*model.Payment, error)
	CompleteForUser(ctx context.Context, userID, paymentID int64) (bool, error)

	ListByUser(ctx context.Context, userID int64, status string, limit, offset int) ([]model.Payment, int64, error)
	Summarize(ctx context.Context, userID int64) (*Summary, error)

	BorrowStatsFor(ctx context.Context, userID int64) (*BorrowStats, error)
	RecentBorrows(ctx context.Context, userID int64, n int) ([]RecentBorrow, error)
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) Insert(ctx context.Context, tx *sql.Tx, userID int64, amount float64) (int64, error) {
	const q = `
		INSERT INTO payments (user_id, amount, status, date)
		VALUES ($1,$2,'Pending',CURRENT_DATE)
		RETURNING id`
	var id int64
	if err := tx.QueryRowContext(ctx, q, userID, amount).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repo) MarkPaid(ctx context.Context, tx *sql.Tx, paymentID int64) (bool, error) {
	const q = `
		UPDATE payments
		SET status = 'Paid', updated_at = NOW()
		WHERE id = $1
		AND status = 'Pending'`
	res, err := tx.ExecContext(ctx, q, paymentID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff == 1, nil
}

func (r *repo) DebitBalance(ctx context.Context, tx *sql.Tx, userID int64, amount float64) error {
	const q = `
		UPDATE users
		SET balance = balance - $2, updated_at = NOW()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, userID, amount)
	return err
}

func (r *repo) ByIDForUser(ctx context.Context, userID, paymentID int64) (*model.Payment, error) {
	const q = `
		SELECT id, user_id, amount, status, date, created_at, updated_at
		FROM payments
		WHERE id = $1 AND user_id = $2`
	p := &model.Payment{}
	err := r.db.QueryRowContext(ctx, q, paymentID, userID).Scan(
		&p.ID, &p.UserID, &p.Amount, &p.Status, &p.Date, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repo) CompleteForUser(ctx context.Context, userID, paymentID int64) (bool, error) {
	const q = `
		UPDATE payments
		SET status = 'Paid', updated_at = NOW()
		WHERE id = $1
		AND user_id = $2
		AND status = 'Pending'`
	res, err := r.db.ExecContext(ctx, q, paymentID, userID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff == 1, nil
}

func (r *repo) ListByUser(ctx context.Context, userID int64, status string, limit, offset int) ([]model.Payment, int64, error) {
	var total int64
	const qCount = `
		SELECT COUNT(*)
		FROM payments
		WHERE user_id = $1 AND ($2 = '' OR status = $2)`
	if err := r.db.QueryRowContext(ctx, qCount, userID, status).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
		SELECT id, user_id, amount, status, date, created_at, updated_at
		FROM payments
		WHERE user_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, q, userID, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Payment
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.UserID, &p.Amount, &p.Status, &p.Date,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *repo) Summarize(ctx context.Context, userID int64) (*Summary, error) {
	const q = `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status='Paid'), 0),
			COALESCE(SUM(amount) FILTER (WHERE status='Pending'), 0),
			COUNT(*) FILTER (WHERE status='Pending')
		FROM payments
		WHERE user_id = $1`
	s := &Summary{}
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&s.TotalPaid, &s.TotalPending, &s.PendingCount); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *repo) BorrowStatsFor(ctx context.Context, userID int64) (*BorrowStats, error) {
	const q = `
		SELECT
			COUNT(*) FILTER (WHERE status='Active'),
			COUNT(*),
			COUNT(*) FILTER (WHERE status='Returned'),
			COALESCE(SUM(overdue), 0),
			COALESCE(AVG(return_date - borrow_date) FILTER (WHERE status='Returned'), 0)
		FROM borrows
		WHERE user_id = $1`
	s := &BorrowStats{}
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&s.Active, &s.Total, &s.Returned, &s.OverdueSum, &s.AvgDaysKept,
	); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *repo) RecentBorrows(ctx context.Context, userID int64, n int) ([]RecentBorrow, error) {
	const q = `
		SELECT r.id, b.title, b.author, r.borrow_date, r.due_date, r.total_cost, r.status
		FROM borrows r
		JOIN books b ON b.id = r.book_id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, r.id DESC
		LIMIT $2`
	rows, err := r.db.QueryContext(ctx, q, userID, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecentBorrow
	for rows.Next() {
		var rb RecentBorrow
		if err := rows.Scan(&rb.BorrowID, &rb.Title, &rb.Author, &rb.BorrowDate,
			&rb.DueDate, &rb.TotalCost, &rb.Status); err != nil {
			return nil, err
		}
		out = append(out, rb)
	}
	return out, rows.Err()
}
