package model

import "time"

type BorrowStatus string

const (
	BorrowActive   BorrowStatus = "Active"
	BorrowReturned BorrowStatus = "Returned"
)

// Borrow links one user to one book for a bounded rental period. PaymentID
// points at the Pending payment created in the same transaction.
type Borrow struct {
	ID         int64        `json:"id"`
	BookID     int64        `json:"book_id"`
	UserID     int64        `json:"user_id"`
	PaymentID  int64        `json:"payment_id"`
	BorrowDate time.Time    `json:"borrow_date"`
	DueDate    time.Time    `json:"due_date"`
	ReturnDate *time.Time   `json:"return_date,omitempty"`
	TotalCost  float64      `json:"total_cost"`
	Overdue    float64      `json:"overdue"`
	Status     BorrowStatus `json:"status"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// ValidateBorrowReq represents borrow validation payload
// swagger:model ValidateBorrowReq
type ValidateBorrowReq struct {
	BookID int64 `json:"bookId" validate:"required,gt=0"`
}

// CalculateCostReq represents cost calculation payload
// swagger:model CalculateCostReq
type CalculateCostReq struct {
	BookID     int64 `json:"bookId" validate:"required,gt=0"`
	DaysToKeep int   `json:"daysToKeep" validate:"required"`
}

// BorrowReq represents borrow creation payload
// swagger:model BorrowReq
type BorrowReq struct {
	BookID     int64 `json:"bookId" validate:"required,gt=0"`
	DaysToKeep int   `json:"daysToKeep" validate:"required"`
}
