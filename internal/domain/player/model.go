// Package player models club members who can accrue fines.
package player

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxNameLength bounds a player's display name.
const MaxNameLength = 100

// Domain errors
var (
	ErrEmptyName   = errors.New("player name cannot be empty")
	ErrNameTooLong = errors.New("player name cannot exceed 100 characters")
	ErrNoNames     = errors.New("enter at least one player name")
)

// Player is a club member who can accrue fines.
type Player struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}

// New builds a Player with a trimmed name.
// PRE: none
// POST: returned player is validated
func New(name string, now time.Time) (Player, error) {
	p := Player{Name: strings.TrimSpace(name), CreatedAt: now}
	if err := p.Validate(); err != nil {
		return Player{}, err
	}
	return p, nil
}

// Validate checks if the Player has valid data.
// PRE: Player struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Player) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(p.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}

// Rename replaces the name after validation.
// PRE: Player exists
// POST: Name is updated, or the player is unchanged and an error returned
func (p *Player) Rename(name string) error {
	candidate := *p
	candidate.Name = strings.TrimSpace(name)
	if err := candidate.Validate(); err != nil {
		return err
	}
	p.Name = candidate.Name
	return nil
}
