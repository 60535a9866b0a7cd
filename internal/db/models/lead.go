package models

import (
	"gorm.io/gorm"
)

// Lead represents one place found by a scrape job. Rows are written once by
// the engine's flush step and never mutated afterward.
type Lead struct {
	gorm.Model
	JobID      uint   `json:"job_id" gorm:"not null;index"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	Website    string `json:"website,omitempty"`
	City       string `json:"city" gorm:"index"`
	Query      string `json:"query"`
	BatchLabel string `json:"batch_label" gorm:"index"`
}
