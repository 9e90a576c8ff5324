package model

import "time"

// BillID uniquely identifies a finalized bill
type BillID string

// Bill is an immutable snapshot of a calculated session. It is never
// mutated after creation, only deleted.
type Bill struct {
	ID           BillID             `json:"id"`
	SessionID    SessionID          `json:"session_id,omitempty"`
	Items        []BillItem         `json:"items"`
	Participants []Participant      `json:"participants"`
	Splits       map[string]float64 `json:"splits"`
	TotalAmount  float64            `json:"total_amount"`
	CreatedAt    time.Time          `json:"created_at"`
}

// Page describes one page of a listing
type Page struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
