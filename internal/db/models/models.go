// Package models defines the persisted types shared across the service.
package models

const (
	// DefaultLimit is the max number of rows that are retrieved from the DB per listing API call
	DefaultLimit = 50
)

// ListOptions represents pagination options for list operations
type ListOptions struct {
	Limit  int `json:"limit"`  // Number of items to return
	Offset int `json:"offset"` // Number of items to skip
}

// Normalize clamps the options to sane values.
func (o *ListOptions) Normalize() {
	if o.Limit <= 0 || o.Limit > DefaultLimit {
		o.Limit = DefaultLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}
