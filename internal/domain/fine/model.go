// Package fine models monetary penalties linking a player to a reason.
package fine

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"boetepot/internal/domain/money"
)

// DateLayout is the calendar-day format used for fine dates in storage and forms.
const DateLayout = "2006-01-02"

// MaxNotesLength bounds the admin note attached to a fine.
const MaxNotesLength = 2000

// DeleteAllPhrase must be typed to confirm removing every fine.
const DeleteAllPhrase = "ALLES VERWIJDEREN"

// RecentLimit is the number of fines shown on the landing page.
const RecentLimit = 5

// Domain errors
var (
	ErrPlayerRequired    = errors.New("a player is required")
	ErrReasonRequired    = errors.New("a reason is required")
	ErrNegativeAmount    = errors.New("fine amount cannot be negative")
	ErrDateRequired      = errors.New("a date is required")
	ErrInvalidDate       = errors.New("date must be formatted as YYYY-MM-DD")
	ErrNotesTooLong      = errors.New("admin notes cannot exceed 2000 characters")
	ErrNoPlayersSelected = errors.New("select at least one player")
	ErrPhraseMismatch    = errors.New("type the confirmation phrase to delete all fines")
	ErrUnknownReference  = errors.New("selected player or reason does not exist")
)

// Fine links one player to one reason with an amount and a date.
type Fine struct {
	ID         int64
	PlayerID   int64
	ReasonID   int64
	Amount     money.Cents
	Date       time.Time
	AdminNotes string
	CreatedAt  time.Time
}

// View is a fine joined with its player's name and reason's description.
type View struct {
	ID                int64
	PlayerID          int64
	PlayerName        string
	ReasonID          int64
	ReasonDescription string
	Amount            money.Cents
	Date              time.Time
	AdminNotes        string
}

// Validate checks if the Fine has valid data.
// PRE: Fine struct is populated
// POST: Returns nil if valid, error otherwise
func (f *Fine) Validate() error {
	if f.PlayerID <= 0 {
		return ErrPlayerRequired
	}
	if f.ReasonID <= 0 {
		return ErrReasonRequired
	}
	if f.Amount < 0 {
		return ErrNegativeAmount
	}
	if f.Date.IsZero() {
		return ErrDateRequired
	}
	if utf8.RuneCountInString(f.AdminNotes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}

// BatchInput is the shared part of a multi-player fine submission.
type BatchInput struct {
	PlayerIDs  []int64
	ReasonID   int64
	Amount     money.Cents
	Date       time.Time
	AdminNotes string
}

// NewBatch builds one Fine per distinct selected player.
// Repeated player ids are collapsed, keeping first-seen order.
// PRE: none
// POST: every returned fine is validated; all share reason, amount, date and notes
func NewBatch(in BatchInput, now time.Time) ([]Fine, error) {
	if len(in.PlayerIDs) == 0 {
		return nil, ErrNoPlayersSelected
	}
	notes := strings.TrimSpace(in.AdminNotes)
	seen := make(map[int64]bool, len(in.PlayerIDs))
	fines := make([]Fine, 0, len(in.PlayerIDs))
	for _, pid := range in.PlayerIDs {
		if seen[pid] {
			continue
		}
		seen[pid] = true
		f := Fine{
			PlayerID:   pid,
			ReasonID:   in.ReasonID,
			Amount:     in.Amount,
			Date:       DateOnly(in.Date),
			AdminNotes: notes,
			CreatedAt:  now,
		}
		if err := f.Validate(); err != nil {
			return nil, err
		}
		fines = append(fines, f)
	}
	return fines, nil
}

// ConfirmDeleteAll checks the typed confirmation phrase.
// Surrounding whitespace is ignored; case is not.
func ConfirmDeleteAll(phrase string) error {
	if strings.TrimSpace(phrase) != DeleteAllPhrase {
		return ErrPhraseMismatch
	}
	return nil
}

// ParseDate parses a form date. An empty value yields ErrDateRequired.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrDateRequired
	}
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}

// DateOnly truncates t to midnight UTC of its calendar day.
func DateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Total sums the amounts of views.
func Total(views []View) money.Cents {
	var total money.Cents
	for _, v := range views {
		total += v.Amount
	}
	return total
}
