package fine

import (
	"errors"
	"strings"
	"testing"
	"time"
)

var (
	jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	now  = time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)
)

// TestValidate covers the reference, amount, date and notes rules.
func TestValidate(t *testing.T) {
	valid := Fine{PlayerID: 1, ReasonID: 2, Amount: 500, Date: jan1}
	tests := []struct {
		name    string
		mutate  func(f *Fine)
		wantErr error
	}{
		{"valid", func(f *Fine) {}, nil},
		{"zero amount", func(f *Fine) { f.Amount = 0 }, nil},
		{"no player", func(f *Fine) { f.PlayerID = 0 }, ErrPlayerRequired},
		{"no reason", func(f *Fine) { f.ReasonID = 0 }, ErrReasonRequired},
		{"negative", func(f *Fine) { f.Amount = -1 }, ErrNegativeAmount},
		{"no date", func(f *Fine) { f.Date = time.Time{} }, ErrDateRequired},
		{"long notes", func(f *Fine) { f.AdminNotes = strings.Repeat("n", MaxNotesLength+1) }, ErrNotesTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := valid
			tt.mutate(&f)
			if err := f.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestNewBatch_OnePerPlayer verifies N players produce N fines sharing reason, amount and date.
func TestNewBatch_OnePerPlayer(t *testing.T) {
	fines, err := NewBatch(BatchInput{
		PlayerIDs:  []int64{3, 1, 2},
		ReasonID:   7,
		Amount:     250,
		Date:       jan1.Add(15 * time.Hour),
		AdminNotes: "  derde keer  ",
	}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fines) != 3 {
		t.Fatalf("len = %d, want 3", len(fines))
	}
	for i, want := range []int64{3, 1, 2} {
		f := fines[i]
		if f.PlayerID != want {
			t.Errorf("fines[%d].PlayerID = %d, want %d", i, f.PlayerID, want)
		}
		if f.ReasonID != 7 || f.Amount != 250 || !f.Date.Equal(jan1) {
			t.Errorf("fines[%d] = %+v, want shared reason/amount/date", i, f)
		}
		if f.AdminNotes != "derde keer" {
			t.Errorf("fines[%d].AdminNotes = %q", i, f.AdminNotes)
		}
	}
}

// TestNewBatch_CollapsesDuplicates verifies a repeated player id yields one fine.
func TestNewBatch_CollapsesDuplicates(t *testing.T) {
	fines, err := NewBatch(BatchInput{PlayerIDs: []int64{4, 4, 5}, ReasonID: 1, Amount: 100, Date: jan1}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fines) != 2 {
		t.Errorf("len = %d, want 2", len(fines))
	}
}

// TestNewBatch_Errors verifies the batch is rejected as a whole.
func TestNewBatch_Errors(t *testing.T) {
	if _, err := NewBatch(BatchInput{ReasonID: 1, Amount: 1, Date: jan1}, now); !errors.Is(err, ErrNoPlayersSelected) {
		t.Errorf("no players: err = %v", err)
	}
	if _, err := NewBatch(BatchInput{PlayerIDs: []int64{1}, ReasonID: 1, Amount: -5, Date: jan1}, now); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("negative: err = %v", err)
	}
	if _, err := NewBatch(BatchInput{PlayerIDs: []int64{1}, Amount: 5, Date: jan1}, now); !errors.Is(err, ErrReasonRequired) {
		t.Errorf("no reason: err = %v", err)
	}
}

// TestParseDate verifies form date parsing.
func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-01")
	if err != nil || !d.Equal(jan1) {
		t.Errorf("ParseDate = %v, %v", d, err)
	}
	if _, err := ParseDate(""); !errors.Is(err, ErrDateRequired) {
		t.Errorf("empty: err = %v", err)
	}
	if _, err := ParseDate("01-01-2024"); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("bad layout: err = %v", err)
	}
}

// TestTotal verifies summing of joined views.
func TestTotal(t *testing.T) {
	views := []View{{Amount: 500}, {Amount: 250}, {Amount: 0}}
	if got := Total(views); got != 750 {
		t.Errorf("Total = %d, want 750", got)
	}
	if got := Total(nil); got != 0 {
		t.Errorf("Total(nil) = %d, want 0", got)
	}
}

func TestConfirmDeleteAll(t *testing.T) {
	tests := []struct {
		phrase string
		ok     bool
	}{
		{"ALLES VERWIJDEREN", true},
		{"  ALLES VERWIJDEREN\n", true},
		{"alles verwijderen", false},
		{"", false},
		{"ALLES", false},
	}
	for _, tt := range tests {
		err := ConfirmDeleteAll(tt.phrase)
		if (err == nil) != tt.ok {
			t.Errorf("ConfirmDeleteAll(%q) = %v", tt.phrase, err)
		}
		if err != nil && !errors.Is(err, ErrPhraseMismatch) {
			t.Errorf("ConfirmDeleteAll(%q) = %v, want ErrPhraseMismatch", tt.phrase, err)
		}
	}
}
