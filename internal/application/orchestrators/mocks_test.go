package orchestrators

import (
	"context"
	"errors"
	"time"

	"boetepot/internal/adapters/email"
	finestore "boetepot/internal/adapters/storage/fine"
	"boetepot/internal/domain/account"
	"boetepot/internal/domain/audit"
	"boetepot/internal/domain/dberr"
	"boetepot/internal/domain/fine"
	"boetepot/internal/domain/money"
	"boetepot/internal/domain/player"
	"boetepot/internal/domain/reason"
	"boetepot/internal/domain/session"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

var testActor = Actor{Username: "admin", IPAddress: "127.0.0.1", UserAgent: "go-test"}

// --- players ---

type mockPlayerStore struct {
	players map[int64]player.Player
	nextID  int64
	// referenced player ids cannot be deleted
	referenced map[int64]bool
}

func newMockPlayerStore(names ...string) *mockPlayerStore {
	m := &mockPlayerStore{players: make(map[int64]player.Player), referenced: make(map[int64]bool)}
	for _, n := range names {
		m.nextID++
		m.players[m.nextID] = player.Player{ID: m.nextID, Name: n, CreatedAt: fixedTime}
	}
	return m
}

func (m *mockPlayerStore) GetByID(_ context.Context, id int64) (player.Player, error) {
	p, ok := m.players[id]
	if !ok {
		return player.Player{}, dberr.NotFound("get player")
	}
	return p, nil
}

func (m *mockPlayerStore) InsertBatch(_ context.Context, batch []player.Player) ([]player.Player, error) {
	for _, p := range batch {
		for _, existing := range m.players {
			if existing.Name == p.Name {
				return nil, dberr.New(dberr.KindUniqueViolation, "insert players", errors.New("duplicate name"))
			}
		}
	}
	out := make([]player.Player, 0, len(batch))
	for _, p := range batch {
		m.nextID++
		p.ID = m.nextID
		m.players[p.ID] = p
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPlayerStore) Update(_ context.Context, p player.Player) error {
	if _, ok := m.players[p.ID]; !ok {
		return dberr.NotFound("update player")
	}
	m.players[p.ID] = p
	return nil
}

func (m *mockPlayerStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.players[id]; !ok {
		return dberr.NotFound("delete player")
	}
	if m.referenced[id] {
		return dberr.New(dberr.KindReferentialViolation, "delete player", errors.New("fines exist"))
	}
	delete(m.players, id)
	return nil
}

// --- reasons ---

type mockReasonStore struct {
	reasons    map[int64]reason.Reason
	nextID     int64
	referenced map[int64]bool
}

func newMockReasonStore() *mockReasonStore {
	return &mockReasonStore{reasons: make(map[int64]reason.Reason), referenced: make(map[int64]bool)}
}

func (m *mockReasonStore) add(description string, amount money.Cents) reason.Reason {
	m.nextID++
	r := reason.Reason{ID: m.nextID, Description: description, Amount: amount, CreatedAt: fixedTime}
	m.reasons[r.ID] = r
	return r
}

func (m *mockReasonStore) GetByID(_ context.Context, id int64) (reason.Reason, error) {
	r, ok := m.reasons[id]
	if !ok {
		return reason.Reason{}, dberr.NotFound("get reason")
	}
	return r, nil
}

func (m *mockReasonStore) InsertBatch(_ context.Context, batch []reason.Reason) ([]reason.Reason, error) {
	out := make([]reason.Reason, 0, len(batch))
	for _, r := range batch {
		out = append(out, m.add(r.Description, r.Amount))
	}
	return out, nil
}

func (m *mockReasonStore) Update(_ context.Context, r reason.Reason) error {
	if _, ok := m.reasons[r.ID]; !ok {
		return dberr.NotFound("update reason")
	}
	m.reasons[r.ID] = r
	return nil
}

func (m *mockReasonStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.reasons[id]; !ok {
		return dberr.NotFound("delete reason")
	}
	if m.referenced[id] {
		return dberr.New(dberr.KindReferentialViolation, "delete reason", errors.New("fines exist"))
	}
	delete(m.reasons, id)
	return nil
}

// --- fines ---

type mockFineStore struct {
	fines     map[int64]fine.Fine
	nextID    int64
	insertErr error
	updateErr error
}

func newMockFineStore() *mockFineStore {
	return &mockFineStore{fines: make(map[int64]fine.Fine)}
}

func (m *mockFineStore) GetByID(_ context.Context, id int64) (fine.Fine, error) {
	f, ok := m.fines[id]
	if !ok {
		return fine.Fine{}, dberr.NotFound("get fine")
	}
	return f, nil
}

func (m *mockFineStore) Total(_ context.Context, _ finestore.ListFilter) (money.Cents, error) {
	var total money.Cents
	for _, f := range m.fines {
		total += f.Amount
	}
	return total, nil
}

func (m *mockFineStore) InsertBatch(_ context.Context, batch []fine.Fine) ([]fine.Fine, error) {
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	out := make([]fine.Fine, 0, len(batch))
	for _, f := range batch {
		m.nextID++
		f.ID = m.nextID
		m.fines[f.ID] = f
		out = append(out, f)
	}
	return out, nil
}

func (m *mockFineStore) Update(_ context.Context, f fine.Fine) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.fines[f.ID]; !ok {
		return dberr.NotFound("update fine")
	}
	m.fines[f.ID] = f
	return nil
}

func (m *mockFineStore) Delete(_ context.Context, id int64) error {
	if _, ok := m.fines[id]; !ok {
		return dberr.NotFound("delete fine")
	}
	delete(m.fines, id)
	return nil
}

func (m *mockFineStore) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(m.fines))
	m.fines = make(map[int64]fine.Fine)
	return n, nil
}

// --- audit, metrics, treasurer ---

type mockAuditStore struct {
	events []audit.Event
	err    error
}

func (m *mockAuditStore) Save(_ context.Context, e audit.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

func (m *mockAuditStore) actions() []audit.Action {
	out := make([]audit.Action, 0, len(m.events))
	for _, e := range m.events {
		out = append(out, e.Action)
	}
	return out
}

type mockMetrics struct {
	recorded int
	deleted  int64
	logins   map[string]int
}

func (m *mockMetrics) FinesRecorded(n int)  { m.recorded += n }
func (m *mockMetrics) FinesDeleted(n int64) { m.deleted += n }
func (m *mockMetrics) LoginAttempt(result string) {
	if m.logins == nil {
		m.logins = make(map[string]int)
	}
	m.logins[result]++
}

type mockTreasurer struct {
	recorded []email.FinesRecorded
	emptied  []email.PotEmptied
	err      error
}

func (m *mockTreasurer) NotifyFinesRecorded(_ context.Context, n email.FinesRecorded) error {
	m.recorded = append(m.recorded, n)
	return m.err
}

func (m *mockTreasurer) NotifyPotEmptied(_ context.Context, n email.PotEmptied) error {
	m.emptied = append(m.emptied, n)
	return m.err
}

// --- accounts and sessions ---

type mockAccountStore struct {
	accounts map[string]account.Account
	nextID   int64
	saves    int
}

func newMockAccountStore() *mockAccountStore {
	return &mockAccountStore{accounts: make(map[string]account.Account)}
}

func (m *mockAccountStore) GetByUsername(_ context.Context, username string) (account.Account, error) {
	a, ok := m.accounts[username]
	if !ok {
		return account.Account{}, dberr.NotFound("get account")
	}
	return a, nil
}

func (m *mockAccountStore) Create(_ context.Context, a account.Account) (account.Account, error) {
	if _, ok := m.accounts[a.Username]; ok {
		return account.Account{}, dberr.New(dberr.KindUniqueViolation, "create account", errors.New("exists"))
	}
	m.nextID++
	a.ID = m.nextID
	m.accounts[a.Username] = a
	return a, nil
}

func (m *mockAccountStore) Save(_ context.Context, a account.Account) error {
	m.saves++
	m.accounts[a.Username] = a
	return nil
}

type mockSessionStore struct {
	sessions map[string]session.Session
	cutoffs  []time.Time
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{sessions: make(map[string]session.Session)}
}

func (m *mockSessionStore) Create(_ context.Context, s session.Session) error {
	m.sessions[s.ID] = s
	return nil
}

func (m *mockSessionStore) Revoke(_ context.Context, id string, at time.Time) error {
	s, ok := m.sessions[id]
	if !ok {
		return dberr.NotFound("revoke session")
	}
	s.Revoke(at)
	m.sessions[id] = s
	return nil
}

func (m *mockSessionStore) DeleteExpired(_ context.Context, cutoff time.Time) (int64, error) {
	m.cutoffs = append(m.cutoffs, cutoff)
	var n int64
	for id, s := range m.sessions {
		ended := s.ExpiresAt
		if s.RevokedAt != nil && s.RevokedAt.Before(ended) {
			ended = *s.RevokedAt
		}
		if ended.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}
