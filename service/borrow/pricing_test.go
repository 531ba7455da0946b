package borrowsvc

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRentalCost(t *testing.T) {
	testCases := []struct {
		rate float64
		days int
		want float64
	}{
		{50, 3, 150},
		{10, 1, 10},
		{12.5, 14, 175},
		{0, 7, 0},
	}
	for _, tt := range testCases {
		if got := RentalCost(tt.rate, tt.days); got != tt.want {
			t.Errorf("RentalCost(%v, %d) = %v; want %v", tt.rate, tt.days, got, tt.want)
		}
	}
}

func TestDaysLate(t *testing.T) {
	due := date(2024, time.March, 10)
	testCases := []struct {
		name     string
		returned time.Time
		want     int
	}{
		{"early", date(2024, time.March, 8), 0},
		{"on due date", due, 0},
		{"one day", date(2024, time.March, 11), 1},
		{"fraction counts as full day", due.Add(26 * time.Hour), 2},
		{"exactly two days", date(2024, time.March, 12), 2},
		{"two days and a minute", date(2024, time.March, 12).Add(time.Minute), 3},
	}
	for _, tt := range testCases {
		if got := DaysLate(due, tt.returned); got != tt.want {
			t.Errorf("%s: DaysLate = %d; want %d", tt.name, got, tt.want)
		}
	}
}

func TestPenalty(t *testing.T) {
	if got := Penalty(2, PenaltyPerDay); got != 20 {
		t.Errorf("Penalty(2) = %v; want 20", got)
	}
	if got := Penalty(0, PenaltyPerDay); got != 0 {
		t.Errorf("Penalty(0) = %v; want 0", got)
	}
	if got := Penalty(-3, PenaltyPerDay); got != 0 {
		t.Errorf("Penalty(-3) = %v; want 0", got)
	}
}

// The worked scenario: 50/day for 3 days, returned 2 days late.
func TestPricingScenario(t *testing.T) {
	total := RentalCost(50, 3)
	if total != 150 {
		t.Fatalf("total = %v; want 150", total)
	}
	due := date(2024, time.June, 4)
	late := DaysLate(due, date(2024, time.June, 6))
	overdue := Penalty(late, PenaltyPerDay)
	if overdue != 20 {
		t.Fatalf("overdue = %v; want 20", overdue)
	}
	if total+overdue != 170 {
		t.Fatalf("final = %v; want 170", total+overdue)
	}
}
