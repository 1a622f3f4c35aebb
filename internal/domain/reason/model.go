// Package reason models the catalog of fine reasons.
package reason

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"boetepot/internal/domain/money"
)

// MaxDescriptionLength bounds a reason's description.
const MaxDescriptionLength = 200

// Domain errors
var (
	ErrEmptyDescription   = errors.New("reason description cannot be empty")
	ErrDescriptionTooLong = errors.New("reason description cannot exceed 200 characters")
	ErrNegativeAmount     = errors.New("reason amount cannot be negative")
	ErrNoDescriptions     = errors.New("enter at least one reason description")
)

// Reason is a named category of infraction with a default amount.
type Reason struct {
	ID          int64
	Description string
	Amount      money.Cents
	CreatedAt   time.Time
}

// New builds a Reason with a trimmed description.
// PRE: none
// POST: returned reason is validated
func New(description string, amount money.Cents, now time.Time) (Reason, error) {
	r := Reason{Description: strings.TrimSpace(description), Amount: amount, CreatedAt: now}
	if err := r.Validate(); err != nil {
		return Reason{}, err
	}
	return r, nil
}

// Validate checks if the Reason has valid data.
// PRE: Reason struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Reason) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(r.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if r.Amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}
