package borrowsvc

import (
	"math"
	"time"
)

// Borrowing rules. One book per user, two weeks max, flat penalty per
// overdue day.
const (
	MaxBooksPerUser = 1
	MaxBorrowDays   = 14
	PenaltyPerDay   = 10.0
)

// RentalCost is the locked-in price of keeping a book for the given days.
func RentalCost(ratePerDay float64, days int) float64 {
	return ratePerDay * float64(days)
}

// DaysLate counts whole days between the due date and the return moment.
// Any fraction of a day counts as a full day; on-time or early returns are 0.
func DaysLate(due, returned time.Time) int {
	d := returned.Sub(due)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

// Penalty is the overdue charge for the given late days.
func Penalty(daysLate int, perDay float64) float64 {
	if daysLate < 0 {
		daysLate = 0
	}
	return float64(daysLate) * perDay
}
