package booksvc_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/veenayaksirohi/smart-library-borrowing-system/model"
	booksvc "github.com/veenayaksirohi/smart-library-borrowing-system/service/book"
)

type repoMock struct {
	listFn func(ctx context.Context, search string, limit, offset int) ([]model.Book, int64, error)
	byIDFn func(ctx context.Context, id int64) (*model.Book, error)
}

func (m *repoMock) List(ctx context.Context, search string, limit, offset int) ([]model.Book, int64, error) {
	return m.listFn(ctx, search, limit, offset)
}
func (m *repoMock) ByID(ctx context.Context, id int64) (*model.Book, error) {
	return m.byIDFn(ctx, id)
}

func TestList_ClampsPageAndLimit(t *testing.T) {
	m := &repoMock{
		listFn: func(ctx context.Context, search string, limit, offset int) ([]model.Book, int64, error) {
			if limit != 10 || offset != 0 {
				return nil, 0, errors.New("bad args")
			}
			return []model.Book{{ID: 1, Title: "Dune"}}, 21, nil
		},
	}
	s := booksvc.New(m)

	books, pg, err := s.List(context.Background(), "", -3, 0)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("got %d books; want 1", len(books))
	}
	if pg.Page != 1 || pg.Limit != 10 || pg.Total != 21 || pg.Pages != 3 {
		t.Fatalf("bad pagination: %+v", pg)
	}
}

func TestList_Offset(t *testing.T) {
	m := &repoMock{
		listFn: func(ctx context.Context, search string, limit, offset int) ([]model.Book, int64, error) {
			if search != "dune" || limit != 5 || offset != 10 {
				return nil, 0, errors.New("bad args")
			}
			return nil, 0, nil
		},
	}
	s := booksvc.New(m)
	if _, _, err := s.List(context.Background(), "dune", 3, 5); err != nil {
		t.Fatalf("List error: %v", err)
	}
}

func TestDetail_NotFound(t *testing.T) {
	m := &repoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return nil, sql.ErrNoRows
		},
	}
	s := booksvc.New(m)
	if _, err := s.Detail(context.Background(), 99); !errors.Is(err, booksvc.ErrNotFound) {
		t.Fatalf("got %v; want ErrNotFound", err)
	}
}

func TestDetail_Success(t *testing.T) {
	m := &repoMock{
		byIDFn: func(ctx context.Context, id int64) (*model.Book, error) {
			return &model.Book{ID: id, Title: "Dune", PricePerDay: 50, Available: true}, nil
		},
	}
	s := booksvc.New(m)
	b, err := s.Detail(context.Background(), 7)
	if err != nil || b.ID != 7 || b.Title != "Dune" {
		t.Fatalf("got %+v err=%v", b, err)
	}
}
