package web

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	finestore "boetepot/internal/adapters/storage/fine"
	"boetepot/internal/domain/money"
)

// adminEnv is a logged-in environment with two players and one reason.
func adminEnv(t *testing.T) (e *testEnv, jan, piet, reasonID int64) {
	t.Helper()
	e = newTestEnv(t)
	e.login()
	resp, _ := e.post("/admin/players", "/admin/players", url.Values{"names": {"Jan\n\n   Piet  \n"}})
	expectRedirect(t, resp, "/admin/players?ok=created")
	resp, _ = e.post("/admin/reasons", "/admin/reasons", url.Values{"descriptions": {"Te laat"}, "amount": {"2,50"}})
	expectRedirect(t, resp, "/admin/reasons?ok=created")

	ctx := context.Background()
	players, err := e.stores.PlayerStore.List(ctx)
	if err != nil || len(players) != 2 {
		t.Fatalf("players = %v, %v", players, err)
	}
	reasons, err := e.stores.ReasonStore.List(ctx)
	if err != nil || len(reasons) != 1 {
		t.Fatalf("reasons = %v, %v", reasons, err)
	}
	// Listed by name: Jan, Piet.
	return e, players[0].ID, players[1].ID, reasons[0].ID
}

func potTotal(t *testing.T, e *testEnv) money.Cents {
	t.Helper()
	total, err := e.stores.FineStore.Total(context.Background(), finestore.ListFilter{})
	if err != nil {
		t.Fatalf("Total: %v", err)
	}
	return total
}

func id(n int64) string { return fmt.Sprint(n) }

// TestPlayers_CreateListAndDuplicate verifies batch creation and inline unique errors.
func TestPlayers_CreateListAndDuplicate(t *testing.T) {
	e, _, _, _ := adminEnv(t)

	resp, body := e.get("/admin/players?ok=created")
	expectStatus(t, resp, http.StatusOK)
	expectContains(t, body, "Opgeslagen.", ">Jan<", ">Piet<")

	resp, body = e.post("/admin/players", "/admin/players", url.Values{"names": {"Klaas\nJan"}})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	expectContains(t, body, "Bestaat al.", "Klaas\nJan</textarea>")

	players, _ := e.stores.PlayerStore.List(context.Background())
	if len(players) != 2 {
		t.Errorf("players = %d, want 2 (batch is all-or-nothing)", len(players))
	}

	resp, body = e.post("/admin/players", "/admin/players", url.Values{"names": {"  \n "}})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	expectContains(t, body, "Vul minstens één naam in.")
}

// TestPlayers_EditAndNotFound verifies the edit form and its terminal 404.
func TestPlayers_EditAndNotFound(t *testing.T) {
	e, jan, _, _ := adminEnv(t)

	resp, body := e.get("/admin/players/" + id(jan) + "/edit")
	expectStatus(t, resp, http.StatusOK)
	expectContains(t, body, `value="Jan"`)

	resp, body = e.post("/admin", "/admin/players/"+id(jan)+"/edit", url.Values{"name": {"  "}})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	expectContains(t, body, "Naam mag niet leeg zijn.")

	resp, body = e.post("/admin", "/admin/players/"+id(jan)+"/edit", url.Values{"name": {"Piet"}})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	expectContains(t, body, "Bestaat al.", `value="Piet"`)

	resp, _ = e.post("/admin", "/admin/players/"+id(jan)+"/edit", url.Values{"name": {"Jan Jansen"}})
	expectRedirect(t, resp, "/admin/players?ok=updated")
	p, err := e.stores.PlayerStore.GetByID(context.Background(), jan)
	if err != nil || p.Name != "Jan Jansen" {
		t.Errorf("player = %+v, %v", p, err)
	}

	resp, body = e.get("/admin/players/999/edit")
	expectStatus(t, resp, http.StatusNotFound)
	expectContains(t, body, "Speler niet gevonden.", `href="/admin/players"`)

	resp, _ = e.post("/admin", "/admin/players/999/edit", url.Values{"name": {"Niemand"}})
	expectStatus(t, resp, http.StatusNotFound)
}

// TestPlayers_Delete covers confirmation, referential protection and removal.
func TestPlayers_Delete(t *testing.T) {
	e, jan, piet, reasonID := adminEnv(t)
	resp, _ := e.post("/admin/fines", "/admin/fines", url.Values{"player_ids": {id(jan)}, "reason_id": {id(reasonID)}})
	expectRedirect(t, resp, "/admin/fines?ok=created")

	resp, body := e.post("/admin/players", "/admin/players/"+id(piet)+"/delete", nil)
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	expectContains(t, body, "Verwijderen niet bevestigd.")

	resp, body = e.post("/admin/players", "/admin/players/"+id(jan)+"/delete", url.Values{"confirm": {"yes"}})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	expectContains(t, body, "Nog in gebruik, kan niet verwijderen.")

	form := url.Values{"confirm": {"yes"}, "gorilla.csrf.Token": {e.token("/admin/players")}}
	resp, body = e.postRaw("/admin/players/"+id(jan)+"/delete", form, "application/json")
	expectStatus(t, resp, http.StatusConflict)
	expectContains(t, body, "Nog in gebruik")

	resp, _ = e.post("/admin/players", "/admin/players/"+id(piet)+"/delete", url.Values{"confirm": {"yes"}})
	expectRedirect(t, resp, "/admin/players?ok=deleted")

	players, _ := e.stores.PlayerStore.List(context.Background())
	if len(players) != 1 || players[0].ID != jan {
		t.Errorf("players = %+v, want only Jan", players)
	}
}

// TestReasons_CreateEditDelete covers the reason flows.
func TestReasons_CreateEditDelete(t *testing.T) {
	e, jan, _, reasonID := adminEnv(t)

	resp, body := e.get("/admin/reasons")
	expectStatus(t, resp, http.StatusOK)
	expectContains(t, body, "Te laat", "€ 2,50")

	resp, body = e.post("/admin/reasons", "/admin/reasons", url.Values{"descriptions": {"Gele kaart"}, "amount": {"abc"}})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	expectContains(t, body, "Ongeldig bedrag", "Gele kaart</textarea>", `value="abc"`)

	resp, _ = e.post("/admin/reasons", "/admin/reasons", url.Values{"descriptions": {"Gele kaart\nRode kaart"}})
	expectRedirect(t, resp, "/admin/reasons?ok=created")

	resp, body = e.get("/admin/reasons/" + id(reasonID) + "/edit")
	expectStatus(t, resp, http.StatusOK)
	expectContains(t, body, `value="Te laat"`, `value="2.50"`)

	resp, body = e.post("/admin", "/admin/reasons/"+id(reasonID)+"/edit", url.Values{"description": {"Te laat"}, "amount": {"-1"}})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	expectContains(t, body, "Bedrag mag niet negatief zijn.", `value="-1"`)

	resp, _ = e.post("/admin", "/admin/reasons/"+id(reasonID)+"/edit", url.Values{"description": {"Te laat op training"}, "amount": {"3"}})
	expectRedirect(t, resp, "/admin/reasons?ok=updated")

	resp, _ = e.get("/admin/reasons/999/edit")
	expectStatus(t, resp, http.StatusNotFound)

	resp, _ = e.post("/admin/fines", "/admin/fines", url.Values{"player_ids": {id(jan)}, "reason_id": {id(reasonID)}})
	expectRedirect(t, resp, "/admin/fines?ok=created")
	resp, body = e.post("/admin/reasons", "/admin/reasons/"+id(reasonID)+"/delete", url.Values{"confirm": {"yes"}})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	expectContains(t, body, "Nog in gebruik, kan niet verwijderen.")
	if _, err := e.stores.ReasonStore.GetByID(context.Background(), reasonID); err != nil {
		t.Errorf("referenced reason was removed: %v", err)
	}
}

// TestFines_BatchCreate verifies one fine per player with the reason's default amount.
func TestFines_BatchCreate(t *testing.T) {
	e, jan, piet, reasonID := adminEnv(t)

	resp, body := e.post("/admin/fines", "/admin/fines", url.Values{"reason_id": {id(reasonID)}, "admin_notes": {"derde keer"}})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	expectContains(t, body, "Selecteer minstens één speler.", "derde keer</textarea>")

	resp, body = e.post("/admin/fines", "/admin/fines", url.Values{"player_ids": {id(jan)}})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	expectContains(t, body, "Kies een reden.")

	resp, _ = e.post("/admin/fines", "/admin/fines", url.Values{
		"player_ids": {id(jan), id(piet)},
		"reason_id":  {id(reasonID)},
		"date":       {"2024-03-07"},
	})
	expectRedirect(t, resp, "/admin/fines?ok=created")

	if got := potTotal(t, e); got != 500 {
		t.Errorf("total = %d, want 500", got)
	}
	if recorded, _ := e.treasurer.counts(); recorded != 1 {
		t.Errorf("treasurer notifications = %d, want 1", recorded)
	}

	resp, body = e.get("/admin/fines")
	expectStatus(t, resp, http.StatusOK)
	expectContains(t, body, "7 maart 2024", "€ 5,00")

	resp, body = e.get("/admin/fines?player=" + id(piet))
	expectStatus(t, resp, http.StatusOK)
	expectContains(t, body, "Totaal: <strong>€ 2,50</strong>")

	_, body = e.get("/metrics")
	expectContains(t, body, "boetepot_fines_recorded_total 2")
}

// TestFines_UnknownPlayerOrReason verifies a missing player or reason is reported as such
// and leaves the pot untouched.
func TestFines_UnknownPlayerOrReason(t *testing.T) {
	e, jan, _, reasonID := adminEnv(t)

	resp, body := e.post("/admin/fines", "/admin/fines", url.Values{
		"player_ids": {id(jan), "999999"},
		"reason_id":  {id(reasonID)},
		"date":       {"2024-03-07"},
	})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	expectContains(t, body, "Gekozen speler of reden bestaat niet (meer).")
	if strings.Contains(body, msgInUse) {
		t.Error("create form must not show the delete message")
	}
	if got := potTotal(t, e); got != 0 {
		t.Errorf("total = %d, want 0 after a rejected batch", got)
	}

	resp, _ = e.post("/admin/fines", "/admin/fines", url.Values{"player_ids": {id(jan)}, "reason_id": {id(reasonID)}, "date": {"2024-01-01"}})
	expectRedirect(t, resp, "/admin/fines?ok=created")
	views, err := e.stores.FineStore.ListViews(context.Background(), finestore.ListFilter{})
	if err != nil || len(views) != 1 {
		t.Fatalf("views = %v, %v", views, err)
	}
	editPath := "/admin/fines/" + id(views[0].ID) + "/edit"

	resp, body = e.post(editPath, editPath, url.Values{
		"player_id": {"999999"}, "reason_id": {id(reasonID)}, "amount": {"4"}, "date": {"2024-01-02"},
	})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	expectContains(t, body, "Gekozen speler of reden bestaat niet (meer).")

	resp, body = e.post(editPath, editPath, url.Values{
		"player_id": {id(jan)}, "reason_id": {"999999"}, "amount": {"4"}, "date": {"2024-01-02"},
	})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	expectContains(t, body, "Kies een reden.")
	if got := potTotal(t, e); got != 250 {
		t.Errorf("total = %d, want 250 after rejected edits", got)
	}
}

// TestFines_EditAndDelete covers inline edit errors, updates and single deletes.
func TestFines_EditAndDelete(t *testing.T) {
	e, jan, _, reasonID := adminEnv(t)
	resp, _ := e.post("/admin/fines", "/admin/fines", url.Values{"player_ids": {id(jan)}, "reason_id": {id(reasonID)}, "date": {"2024-01-01"}})
	expectRedirect(t, resp, "/admin/fines?ok=created")
	views, err := e.stores.FineStore.ListViews(context.Background(), finestore.ListFilter{})
	if err != nil || len(views) != 1 {
		t.Fatalf("views = %v, %v", views, err)
	}
	fineID := views[0].ID
	editPath := "/admin/fines/" + id(fineID) + "/edit"

	resp, body := e.get(editPath)
	expectStatus(t, resp, http.StatusOK)
	expectContains(t, body, `value="2.50"`, `value="2024-01-01"`)

	resp, body = e.post(editPath, editPath, url.Values{
		"player_id": {id(jan)}, "reason_id": {id(reasonID)}, "amount": {"4"}, "date": {"01-01-2024"},
	})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	expectContains(t, body, "Datum moet de vorm", `value="01-01-2024"`, `value="4"`)

	resp, _ = e.post(editPath, editPath, url.Values{
		"player_id": {id(jan)}, "reason_id": {id(reasonID)}, "amount": {"4"}, "date": {"2024-01-02"}, "admin_notes": {"*te laat*"},
	})
	expectRedirect(t, resp, "/admin/fines?ok=updated")
	if got := potTotal(t, e); got != 400 {
		t.Errorf("total = %d, want 400", got)
	}

	resp, body = e.get("/admin/fines")
	expectContains(t, body, "<em>te laat</em>")

	resp, _ = e.get("/admin/fines/999/edit")
	expectStatus(t, resp, http.StatusNotFound)

	resp, _ = e.post("/admin/fines", "/admin/fines/"+id(fineID)+"/delete", url.Values{"confirm": {"yes"}})
	expectRedirect(t, resp, "/admin/fines?ok=deleted")
	if got := potTotal(t, e); got != 0 {
		t.Errorf("total after delete = %d, want 0", got)
	}
}

// TestFines_DeleteAll verifies the typed phrase guard and the emptied pot.
func TestFines_DeleteAll(t *testing.T) {
	e, jan, piet, reasonID := adminEnv(t)
	resp, _ := e.post("/admin/fines", "/admin/fines", url.Values{"player_ids": {id(jan), id(piet)}, "reason_id": {id(reasonID)}})
	expectRedirect(t, resp, "/admin/fines?ok=created")

	resp, body := e.post("/admin/fines", "/admin/fines/delete-all", url.Values{"phrase": {"alles verwijderen"}})
	expectStatus(t, resp, http.StatusUnprocessableEntity)
	expectContains(t, body, "ALLES VERWIJDEREN", `value="alles verwijderen"`)
	if got := potTotal(t, e); got != 500 {
		t.Errorf("total = %d, want 500 after a rejected phrase", got)
	}

	resp, _ = e.post("/admin/fines", "/admin/fines/delete-all", url.Values{"phrase": {"ALLES VERWIJDEREN"}})
	expectRedirect(t, resp, "/admin/fines?removed=2")
	if got := potTotal(t, e); got != 0 {
		t.Errorf("total = %d, want 0", got)
	}
	if _, emptied := e.treasurer.counts(); emptied != 1 {
		t.Errorf("pot emptied notifications = %d, want 1", emptied)
	}

	resp, body = e.get("/admin/fines?removed=2")
	expectStatus(t, resp, http.StatusOK)
	expectContains(t, body, "2 boetes verwijderd.", "Geen boetes gevonden.")
}

// TestAdminPages_Render verifies the dashboard, audit log and perf page.
func TestAdminPages_Render(t *testing.T) {
	e, _, _, _ := adminEnv(t)

	resp, body := e.get("/admin")
	expectStatus(t, resp, http.StatusOK)
	expectContains(t, body, "In de pot", "€ 0,00")

	resp, body = e.get("/admin/audit")
	expectStatus(t, resp, http.StatusOK)
	expectContains(t, body, "auth/login", "player/create", "reason/create", testUsername)

	resp, body = e.get("/admin/audit?category=player")
	expectStatus(t, resp, http.StatusOK)
	expectContains(t, body, "player/create")
	if strings.Contains(body, "auth/login") {
		t.Error("category filter did not exclude auth events")
	}

	resp, body = e.get("/admin/perf")
	expectStatus(t, resp, http.StatusOK)
	expectContains(t, body, "Traagste routes")
}
