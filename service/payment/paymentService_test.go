package paymentsvc

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veenayaksirohi/smart-library-borrowing-system/model"
	paymentrepo "github.com/veenayaksirohi/smart-library-borrowing-system/repository/payment"
)

type mockRepo struct {
	byIDFn     func(ctx context.Context, userID, paymentID int64) (*model.Payment, error)
	completeFn func(ctx context.Context, userID, paymentID int64) (bool, error)
	listFn     func(ctx context.Context, userID int64, status string, limit, offset int) ([]model.Payment, int64, error)
	summary    *paymentrepo.Summary
	stats      *paymentrepo.BorrowStats
	recent     []paymentrepo.RecentBorrow
}

func (m *mockRepo) ByIDForUser(ctx context.Context, userID, paymentID int64) (*model.Payment, error) {
	return m.byIDFn(ctx, userID, paymentID)
}
func (m *mockRepo) CompleteForUser(ctx context.Context, userID, paymentID int64) (bool, error) {
	return m.completeFn(ctx, userID, paymentID)
}
func (m *mockRepo) ListByUser(ctx context.Context, userID int64, status string, limit, offset int) ([]model.Payment, int64, error) {
	return m.listFn(ctx, userID, status, limit, offset)
}
func (m *mockRepo) Summarize(ctx context.Context, userID int64) (*paymentrepo.Summary, error) {
	return m.summary, nil
}
func (m *mockRepo) BorrowStatsFor(ctx context.Context, userID int64) (*paymentrepo.BorrowStats, error) {
	return m.stats, nil
}
func (m *mockRepo) RecentBorrows(ctx context.Context, userID int64, n int) ([]paymentrepo.RecentBorrow, error) {
	return m.recent, nil
}

type mockUsers struct{ u *model.User }

func (m *mockUsers) ByID(ctx context.Context, id int64) (*model.User, error) {
	return m.u, nil
}

func TestComplete_OK(t *testing.T) {
	m := &mockRepo{
		completeFn: func(ctx context.Context, userID, paymentID int64) (bool, error) {
			require.Equal(t, int64(3), userID)
			require.Equal(t, int64(11), paymentID)
			return true, nil
		},
	}
	svc := New(m, &mockUsers{})
	require.NoError(t, svc.Complete(context.Background(), 3, 11))
}

func TestComplete_NotFound(t *testing.T) {
	m := &mockRepo{
		completeFn: func(ctx context.Context, userID, paymentID int64) (bool, error) {
			return false, nil
		},
		byIDFn: func(ctx context.Context, userID, paymentID int64) (*model.Payment, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := New(m, &mockUsers{})
	err := svc.Complete(context.Background(), 3, 11)
	require.Equal(t, ErrNotFound, Code(err))
}

func TestComplete_NotPending(t *testing.T) {
	m := &mockRepo{
		completeFn: func(ctx context.Context, userID, paymentID int64) (bool, error) {
			return false, nil
		},
		byIDFn: func(ctx context.Context, userID, paymentID int64) (*model.Payment, error) {
			return &model.Payment{ID: 11, Status: model.PaymentPaid}, nil
		},
	}
	svc := New(m, &mockUsers{})
	err := svc.Complete(context.Background(), 3, 11)
	require.Equal(t, ErrNotPending, Code(err))
}

func TestHistory_DefaultsAndSummary(t *testing.T) {
	m := &mockRepo{
		listFn: func(ctx context.Context, userID int64, status string, limit, offset int) ([]model.Payment, int64, error) {
			require.Equal(t, 10, limit)
			require.Equal(t, 0, offset)
			return []model.Payment{{ID: 1, Amount: 150, Status: model.PaymentPaid}}, 1, nil
		},
		summary: &paymentrepo.Summary{TotalPaid: 150, TotalPending: 0, PendingCount: 0},
	}
	svc := New(m, &mockUsers{})

	res, err := svc.History(context.Background(), 3, "", 0, 0)
	require.NoError(t, err)
	require.Len(t, res.Payments, 1)
	require.Equal(t, int64(1), res.Pagination.Total)
	require.Equal(t, int64(1), res.Pagination.Pages)
	require.Equal(t, 150.0, res.Summary.TotalPaid)
}

func TestDashboardSummary(t *testing.T) {
	m := &mockRepo{
		summary: &paymentrepo.Summary{TotalPaid: 470, TotalPending: 150, PendingCount: 1},
		stats: &paymentrepo.BorrowStats{
			Active:      1,
			Total:       4,
			Returned:    3,
			OverdueSum:  20,
			AvgDaysKept: 5.5,
		},
		recent: []paymentrepo.RecentBorrow{{BorrowID: 9, Title: "Dune"}},
	}
	svc := New(m, &mockUsers{u: &model.User{ID: 3, Balance: 42.5}})

	d, err := svc.DashboardSummary(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 42.5, d.UserBalance)
	require.Equal(t, int64(1), d.ActiveBorrows)
	require.Equal(t, 20.0, d.OverdueCharges)
	require.Equal(t, int64(4), d.TotalBooksBorrowed)
	require.Equal(t, int64(1), d.PendingPayments.Count)
	require.Equal(t, 150.0, d.PendingPayments.Amount)
	require.Len(t, d.RecentBorrows, 1)
	require.Equal(t, 470.0, d.Stats.TotalSpent)
	require.Equal(t, 5.5, d.Stats.AverageBorrowDays)
	require.Equal(t, 75.0, d.Stats.ReturnRate)
	require.Equal(t, 20.0, d.Stats.PenaltyCharges)
}

func TestDashboardSummary_NoBorrows(t *testing.T) {
	m := &mockRepo{
		summary: &paymentrepo.Summary{},
		stats:   &paymentrepo.BorrowStats{},
	}
	svc := New(m, &mockUsers{u: &model.User{ID: 3}})

	d, err := svc.DashboardSummary(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 0.0, d.Stats.ReturnRate)
	require.NotNil(t, d.RecentBorrows)
	require.Empty(t, d.RecentBorrows)
}

func TestCodeExtractor(t *testing.T) {
	require.Equal(t, ErrNotFound, Code(makeErr(ErrNotFound)))
	require.Equal(t, ErrCode(""), Code(errors.New("plain")))
}
