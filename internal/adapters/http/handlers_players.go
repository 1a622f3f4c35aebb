package web

import (
	"net/http"

	"boetepot/internal/adapters/http/middleware"
	"boetepot/internal/application/listutil"
	"boetepot/internal/application/orchestrators"
	"boetepot/internal/application/projections"
	"boetepot/internal/domain/dberr"
	"boetepot/internal/domain/player"
)

func (a *app) playerDeps() orchestrators.PlayerDeps {
	return orchestrators.PlayerDeps{
		PlayerStore: a.stores.PlayerStore,
		AuditStore:  a.stores.AuditStore,
		Now:         a.now,
	}
}

type playerListView struct {
	Players []player.Player
	// Names is the submitted textarea, kept when creation fails.
	Names string
}

type playerEditView struct {
	ID   int64
	Name string
}

// renderPlayerList loads the players and renders the list with an optional error.
func (a *app) renderPlayerList(w http.ResponseWriter, r *http.Request, status int, names, errMsg string) {
	players, err := projections.QueryGetPlayers(r.Context(), a.stores.PlayerStore)
	if err != nil {
		logUnexpected(r, err)
		status, errMsg = http.StatusInternalServerError, msgGeneric
	}
	a.render(w, r, status, "players.html", page{
		Title: "Spelers",
		Error: errMsg,
		Data:  playerListView{Players: players, Names: names},
	})
}

func (a *app) handlePlayerList(w http.ResponseWriter, r *http.Request) {
	a.renderPlayerList(w, r, http.StatusOK, "", "")
}

// handlePlayerCreate adds one player per non-blank line.
func (a *app) handlePlayerCreate(w http.ResponseWriter, r *http.Request) {
	names := r.PostFormValue("names")
	_, err := orchestrators.ExecuteCreatePlayers(r.Context(), orchestrators.CreatePlayersInput{
		Names: names,
		Actor: actor(r),
	}, a.playerDeps())
	if err != nil {
		logUnexpected(r, err)
		a.renderPlayerList(w, r, statusFor(err), names, userMessage(err))
		return
	}
	redirect(w, r, "/admin/players?ok=created")
}

func (a *app) handlePlayerEditPage(w http.ResponseWriter, r *http.Request) {
	id := listutil.ParseID(r.PathValue("id"))
	p, err := a.stores.PlayerStore.GetByID(r.Context(), id)
	if err != nil {
		if id == 0 || dberr.IsNotFound(err) {
			a.renderNotFound(w, r, "Speler niet gevonden.", "/admin/players")
			return
		}
		internalError(w, r, err)
		return
	}
	a.render(w, r, http.StatusOK, "player_edit.html", page{
		Title: "Speler wijzigen",
		Data:  playerEditView{ID: p.ID, Name: p.Name},
	})
}

// handlePlayerUpdate renames a player, re-rendering the form with the submitted name on failure.
func (a *app) handlePlayerUpdate(w http.ResponseWriter, r *http.Request) {
	id := listutil.ParseID(r.PathValue("id"))
	name := r.PostFormValue("name")
	_, err := orchestrators.ExecuteUpdatePlayer(r.Context(), orchestrators.UpdatePlayerInput{
		ID:    id,
		Name:  name,
		Actor: actor(r),
	}, a.playerDeps())
	if err != nil {
		if id == 0 || dberr.IsNotFound(err) {
			a.renderNotFound(w, r, "Speler niet gevonden.", "/admin/players")
			return
		}
		logUnexpected(r, err)
		a.render(w, r, statusFor(err), "player_edit.html", page{
			Title: "Speler wijzigen",
			Error: userMessage(err),
			Data:  playerEditView{ID: id, Name: name},
		})
		return
	}
	redirect(w, r, "/admin/players?ok=updated")
}

// handlePlayerDelete removes an unreferenced player after confirmation.
func (a *app) handlePlayerDelete(w http.ResponseWriter, r *http.Request) {
	id := listutil.ParseID(r.PathValue("id"))
	err := orchestrators.ExecuteDeletePlayer(r.Context(), orchestrators.DeletePlayerInput{
		ID:        id,
		Confirmed: r.PostFormValue("confirm") == "yes",
		Actor:     actor(r),
	}, a.playerDeps())
	if middleware.WantsJSON(r) {
		if err != nil {
			writeJSONError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"deleted": id})
		return
	}
	if err != nil {
		logUnexpected(r, err)
		a.renderPlayerList(w, r, statusFor(err), "", userMessage(err))
		return
	}
	redirect(w, r, "/admin/players?ok=deleted")
}
