package model

import "time"

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "Pending"
	PaymentPaid    PaymentStatus = "Paid"
)

type Payment struct {
	ID        int64         `json:"id"`
	UserID    int64         `json:"user_id"`
	Amount    float64       `json:"amount"`
	Status    PaymentStatus `json:"status"`
	Date      time.Time     `json:"date"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
