package model

import "time"

type Book struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Author           string    `json:"author"`
	PricePerDay      float64   `json:"price_per_day"`
	GroupPricePerDay float64   `json:"group_price_per_day"`
	Available        bool      `json:"available"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
