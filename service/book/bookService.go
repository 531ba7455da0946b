package booksvc

import (
	"context"
	"database/sql"
	"errors"

	"github.com/veenayaksirohi/smart-library-borrowing-system/model"
)

var ErrNotFound = errors.New("book not found")

type Repo interface {
	List(ctx context.Context, search string, limit, offset int) ([]model.Book, int64, error)
	ByID(ctx context.Context, id int64) (*model.Book, error)
}

type Service interface {
	List(ctx context.Context, search string, page, limit int) ([]model.Book, model.Pagination, error)
	Detail(ctx context.Context, id int64) (*model.Book, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) List(ctx context.Context, search string, page, limit int) ([]model.Book, model.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	rows, total, err := s.r.List(ctx, search, limit, (page-1)*limit)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return rows, model.NewPagination(page, limit, total), nil
}

func (s *service) Detail(ctx context.Context, id int64) (*model.Book, error) {
	b, err := s.r.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return b, nil
}
