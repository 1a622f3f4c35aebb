package web

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"boetepot/internal/application/listutil"
	"boetepot/internal/application/projections"
	"boetepot/internal/domain/dberr"
)

func (a *app) homeDeps() projections.GetHomeDeps {
	return projections.GetHomeDeps{PlayerStore: a.stores.PlayerStore, FineStore: a.stores.FineStore}
}

func (a *app) historyDeps() projections.GetPlayerHistoryDeps {
	return projections.GetPlayerHistoryDeps{PlayerStore: a.stores.PlayerStore, FineStore: a.stores.FineStore}
}

type homeView struct {
	projections.GetHomeResult
	PlayerID int64
	// Missing is set when ?player= named a player that does not exist.
	Missing bool
}

// handleHome renders the pot total, the latest fines and the player picker.
func (a *app) handleHome(w http.ResponseWriter, r *http.Request) {
	playerID := listutil.ParseID(r.URL.Query().Get("player"))
	res, err := projections.QueryGetHome(r.Context(), projections.GetHomeQuery{PlayerID: playerID}, a.homeDeps())
	if err != nil && playerID > 0 && dberr.IsNotFound(err) {
		// Unknown player: show the page without the inline history.
		res, err = projections.QueryGetHome(r.Context(), projections.GetHomeQuery{}, a.homeDeps())
		if err == nil {
			a.render(w, r, http.StatusNotFound, "home.html", page{
				Title: "Boetepot",
				Error: "Speler niet gevonden.",
				Data:  homeView{GetHomeResult: res, PlayerID: playerID, Missing: true},
			})
			return
		}
	}
	if err != nil {
		logUnexpected(r, err)
		a.render(w, r, http.StatusInternalServerError, "home.html", page{
			Title: "Boetepot",
			Error: msgGeneric,
			Data:  homeView{},
		})
		return
	}
	a.render(w, r, http.StatusOK, "home.html", page{
		Title: "Boetepot",
		Data:  homeView{GetHomeResult: res, PlayerID: playerID},
	})
}

// handlePlayerHistory renders one player's fines as a standalone page.
func (a *app) handlePlayerHistory(w http.ResponseWriter, r *http.Request) {
	id := listutil.ParseID(r.PathValue("id"))
	if id == 0 {
		a.renderNotFound(w, r, "Speler niet gevonden.", "/")
		return
	}
	h, err := projections.QueryGetPlayerHistory(r.Context(), id, a.historyDeps())
	if err != nil {
		if dberr.IsNotFound(err) {
			a.renderNotFound(w, r, "Speler niet gevonden.", "/")
			return
		}
		logUnexpected(r, err)
		a.render(w, r, http.StatusInternalServerError, "player.html", page{Title: "Speler", Error: msgGeneric})
		return
	}
	a.render(w, r, http.StatusOK, "player.html", page{Title: h.Player.Name, Data: h})
}

// handleAPISummary returns the pot total and recent fines as JSON.
func (a *app) handleAPISummary(w http.ResponseWriter, r *http.Request) {
	res, err := projections.QueryGetHome(r.Context(), projections.GetHomeQuery{}, a.homeDeps())
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projections.NewSummary(res))
}

// playerFinesResponse echoes seq so the page script can drop stale answers.
type playerFinesResponse struct {
	Seq        int64                     `json:"seq"`
	PlayerID   int64                     `json:"player_id"`
	PlayerName string                    `json:"player_name"`
	TotalCents int64                     `json:"total_cents"`
	Total      string                    `json:"total"`
	Fines      []projections.FineSummary `json:"fines"`
}

// handleAPIPlayerFines returns one player's history as JSON.
func (a *app) handleAPIPlayerFines(w http.ResponseWriter, r *http.Request) {
	id := listutil.ParseID(r.PathValue("id"))
	seq, _ := strconv.ParseInt(r.URL.Query().Get("seq"), 10, 64)
	if id == 0 {
		writeJSONError(w, r, dberr.NotFound("player history"))
		return
	}
	h, err := projections.QueryGetPlayerHistory(r.Context(), id, a.historyDeps())
	if err != nil {
		writeJSONError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, playerFinesResponse{
		Seq:        seq,
		PlayerID:   h.Player.ID,
		PlayerName: h.Player.Name,
		TotalCents: int64(h.Total),
		Total:      h.Total.Format(),
		Fines:      projections.NewFineSummaries(h.Fines),
	})
}

// handleHealthz pings the database.
func (a *app) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if a.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.db.PingContext(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// renderNotFound shows the terminal not-found state with a link back.
func (a *app) renderNotFound(w http.ResponseWriter, r *http.Request, msg, back string) {
	a.render(w, r, http.StatusNotFound, "notfound.html", page{
		Title: "Niet gevonden",
		Error: msg,
		Data:  back,
	})
}
