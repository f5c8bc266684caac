package model

import "time"

// CommissionsReport lists every fee charged for a product within a date
// range. The entries are returned as-is, without further aggregation.
type CommissionsReport struct {
	Description  string         `json:"description"`
	ProductName  string         `json:"product_name"`
	StartDate    time.Time      `json:"start_date"`
	EndDate      time.Time      `json:"end_date"`
	GeneratedAt  time.Time      `json:"generated_at"`
	Status       string         `json:"status"`
	Transactions []*Transaction `json:"transactions"`
}
