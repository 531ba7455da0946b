package bookrepo

import (
	"context"
	"database/sql"

	"github.com/veenayaksirohi/smart-library-borrowing-system/model"
)

type Repo interface {
	List(ctx context.Context, search string, limit, offset int) ([]model.Book, int64, error)
	ByID(ctx context.Context, id int64) (*model.Book, error)

	// MarkUnavailable flips available to false only if it is currently true.
	// Returns false when another borrow won the race.
	MarkUnavailable(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error)
	MarkAvailable(ctx context.Context, tx *sql.Tx, bookID int64) error
}

type repo struct{ db *sql.DB }

func New(db *sql.DB) Repo { return &repo{db: db} }

func (r *repo) List(ctx context.Context, search string, limit, offset int) ([]model.Book, int64, error) {
	pattern := "%" + search + "%"

	var total int64
	const qCount = `
		SELECT COUNT(*)
		FROM books
		WHERE ($1 = '%%' OR title ILIKE $1 OR author ILIKE $1)`
	if err := r.db.QueryRowContext(ctx, qCount, pattern).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
		SELECT id, title, author, price_per_day, group_price_per_day, available, created_at, updated_at
		FROM books
		WHERE ($1 = '%%' OR title ILIKE $1 OR author ILIKE $1)
		ORDER BY id
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.PricePerDay, &b.GroupPricePerDay,
			&b.Available, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *repo) ByID(ctx context.Context, id int64) (*model.Book, error) {
	b := &model.Book{}
	const q = `
		SELECT id, title, author, price_per_day, group_price_per_day, available, created_at, updated_at
		FROM books
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, q, id).Scan(&b.ID, &b.Title, &b.Author, &b.PricePerDay,
		&b.GroupPricePerDay, &b.Available, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *repo) MarkUnavailable(ctx context.Context, tx *sql.Tx, bookID int64) (bool, error) {
	const q = `
		UPDATE books
		SET available = false, updated_at = NOW()
		WHERE id = $1
		AND available = true`
	res, err := tx.ExecContext(ctx, q, bookID)
	if err != nil {
		return false, err
	}
	aff, _ := res.RowsAffected()
	return aff == 1, nil
}

func (r *repo) MarkAvailable(ctx context.Context, tx *sql.Tx, bookID int64) error {
	const q = `
		UPDATE books
		SET available = true, updated_at = NOW()
		WHERE id = $1`
	_, err := tx.ExecContext(ctx, q, bookID)
	return err
}
