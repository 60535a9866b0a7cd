package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DefaultDailyCap is the per-key daily call ceiling applied when a
// credential is created without an explicit cap.
const DefaultDailyCap = 300

// CredentialStatus represents the health state of an API key
type CredentialStatus string

// Credential status constants
const (
	// CredentialStatusActive indicates the key may be used for calls
	CredentialStatusActive CredentialStatus = "active"
	// CredentialStatusValidating indicates the key has not been verified yet
	CredentialStatusValidating CredentialStatus = "validating"
	// CredentialStatusError indicates the key failed a call permanently
	CredentialStatusError CredentialStatus = "error"
	// CredentialStatusLimitReached indicates the provider rejected the key for quota reasons
	CredentialStatusLimitReached CredentialStatus = "limit_reached"
)

// ParseCredentialStatus converts a string to a CredentialStatus
func ParseCredentialStatus(str string) (CredentialStatus, error) {
	switch CredentialStatus(str) {
	case CredentialStatusActive, CredentialStatusValidating, CredentialStatusError, CredentialStatusLimitReached:
		return CredentialStatus(str), nil
	}
	return "", fmt.Errorf("invalid credential status: %s", str)
}

// Credential represents one places-API key with its usage counters. The
// counters are reset daily/monthly by an external maintenance process; the
// engine only ever increments them.
type Credential struct {
	gorm.Model
	Label      string           `json:"label" gorm:"index"`
	Secret     string           `json:"-" gorm:"not null"`
	Status     CredentialStatus `json:"status" gorm:"index"`
	UsageToday int              `json:"usage_today" gorm:"not null;default:0"`
	UsageMonth int              `json:"usage_month" gorm:"not null;default:0"`
	DailyCap   int              `json:"daily_cap" gorm:"not null;default:300"`
	LastUsed   *time.Time       `json:"last_used,omitempty"`
}

// Eligible reports whether the key may be charged for another call. The
// hard cap check here, re-evaluated at call time, is what actually prevents
// quota overrun; selection order is only a load-spreading heuristic.
func (c *Credential) Eligible() bool {
	return c.Status == CredentialStatusActive && c.UsageToday < c.DailyCap
}
