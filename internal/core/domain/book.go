package domain

import "time"

// Book is the catalog aggregate. Quantity counts copies currently on the
// shelf; MaxQuantity is fixed at creation time and acts as the
// issue/return ceiling: 0 <= Quantity <= MaxQuantity always holds.
//
// CurrentBorrower records only the holder of the most recently issued
// copy. The model deliberately does not keep a per-copy loan ledger.
type Book struct {
	ISBN            string     `json:"isbn"`
	Title           string     `json:"title"`
	Author          string     `json:"author"`
	Price           float64    `json:"price"`
	Quantity        int        `json:"quantity"`
	MaxQuantity     int        `json:"max_quantity"`
	IssueDate       *time.Time `json:"issue_date,omitempty"`
	ReturnDate      *time.Time `json:"return_date,omitempty"`
	CurrentBorrower string     `json:"current_borrower,omitempty"`
}
