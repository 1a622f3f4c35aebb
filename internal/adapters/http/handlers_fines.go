package web

import (
	"net/http"
	"net/url"
	"strconv"

	"boetepot/internal/adapters/http/middleware"
	"boetepot/internal/application/listutil"
	"boetepot/internal/application/orchestrators"
	"boetepot/internal/application/projections"
	"boetepot/internal/domain/dberr"
	"boetepot/internal/domain/fine"
)

func (a *app) fineDeps() orchestrators.FineDeps {
	return orchestrators.FineDeps{
		FineStore:   a.stores.FineStore,
		PlayerStore: a.stores.PlayerStore,
		ReasonStore: a.stores.ReasonStore,
		AuditStore:  a.stores.AuditStore,
		Metrics:     a.metrics,
		Treasurer:   a.treasurer,
		Now:         a.now,
	}
}

func (a *app) fineListDeps() projections.GetFineListDeps {
	return projections.GetFineListDeps{
		PlayerStore: a.stores.PlayerStore,
		ReasonStore: a.stores.ReasonStore,
		FineStore:   a.stores.FineStore,
	}
}

// fineForm keeps submitted values so a failed post re-renders them.
type fineForm struct {
	PlayerIDs  []int64
	PlayerID   int64
	ReasonID   int64
	Amount     string
	Date       string
	AdminNotes string
	Phrase     string
}

type fineListView struct {
	projections.GetFineListResult
	Params         listutil.Params
	Form           fineForm
	PerPageOptions []int
	DeletePhrase   string
}

// PageURL links to page n keeping the current filter and size.
func (v fineListView) PageURL(n int) string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(n))
	q.Set("per_page", strconv.Itoa(v.Page.PerPage))
	if v.Params.PlayerID > 0 {
		q.Set("player", strconv.FormatInt(v.Params.PlayerID, 10))
	}
	return "/admin/fines?" + q.Encode()
}

type fineEditView struct {
	projections.GetFineEditResult
	ID   int64
	Form fineForm
}

func (a *app) renderFineList(w http.ResponseWriter, r *http.Request, status int, form fineForm, errMsg string) {
	params := listutil.ParseParams(r.URL.Query())
	res, err := projections.QueryGetFineList(r.Context(), projections.GetFineListQuery{Params: params}, a.fineListDeps())
	if err != nil {
		logUnexpected(r, err)
		status, errMsg = http.StatusInternalServerError, msgGeneric
	}
	if form.Date == "" {
		form.Date = fine.DateOnly(a.now()).Format(fine.DateLayout)
	}
	a.render(w, r, status, "fines.html", page{
		Title: "Boetes",
		Error: errMsg,
		Data: fineListView{
			GetFineListResult: res,
			Params:            params,
			Form:              form,
			PerPageOptions:    listutil.PerPageOptions,
			DeletePhrase:      fine.DeleteAllPhrase,
		},
	})
}

func (a *app) handleFineList(w http.ResponseWriter, r *http.Request) {
	a.renderFineList(w, r, http.StatusOK, fineForm{}, "")
}

// handleFineCreate records the same fine for every selected player in one batch.
func (a *app) handleFineCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.renderFineList(w, r, http.StatusBadRequest, fineForm{}, msgGeneric)
		return
	}
	form := fineForm{
		PlayerIDs:  listutil.ParseIDs(r.PostForm["player_ids"]),
		ReasonID:   listutil.ParseID(r.PostFormValue("reason_id")),
		Amount:     r.PostFormValue("amount"),
		Date:       r.PostFormValue("date"),
		AdminNotes: r.PostFormValue("admin_notes"),
	}
	_, err := orchestrators.ExecuteCreateFines(r.Context(), orchestrators.CreateFinesInput{
		PlayerIDs:  form.PlayerIDs,
		ReasonID:   form.ReasonID,
		Amount:     form.Amount,
		Date:       form.Date,
		AdminNotes: form.AdminNotes,
		Actor:      actor(r),
	}, a.fineDeps())
	if err != nil {
		logUnexpected(r, err)
		a.renderFineList(w, r, statusFor(err), form, userMessage(err))
		return
	}
	redirect(w, r, "/admin/fines?ok=created")
}

func (a *app) handleFineEditPage(w http.ResponseWriter, r *http.Request) {
	id := listutil.ParseID(r.PathValue("id"))
	res, err := projections.QueryGetFineEdit(r.Context(), id, a.fineListDeps())
	if err != nil {
		if id == 0 || dberr.IsNotFound(err) {
			a.renderNotFound(w, r, "Boete niet gevonden.", "/admin/fines")
			return
		}
		internalError(w, r, err)
		return
	}
	f := res.Fine
	a.render(w, r, http.StatusOK, "fine_edit.html", page{
		Title: "Boete wijzigen",
		Data: fineEditView{
			GetFineEditResult: res,
			ID:                id,
			Form: fineForm{
				PlayerID:   f.PlayerID,
				ReasonID:   f.ReasonID,
				Amount:     f.Amount.String(),
				Date:       f.Date.Format(fine.DateLayout),
				AdminNotes: f.AdminNotes,
			},
		},
	})
}

// handleFineUpdate saves an edited fine, re-rendering the submitted values on failure.
func (a *app) handleFineUpdate(w http.ResponseWriter, r *http.Request) {
	id := listutil.ParseID(r.PathValue("id"))
	form := fineForm{
		PlayerID:   listutil.ParseID(r.PostFormValue("player_id")),
		ReasonID:   listutil.ParseID(r.PostFormValue("reason_id")),
		Amount:     r.PostFormValue("amount"),
		Date:       r.PostFormValue("date"),
		AdminNotes: r.PostFormValue("admin_notes"),
	}
	_, err := orchestrators.ExecuteUpdateFine(r.Context(), orchestrators.UpdateFineInput{
		ID:         id,
		PlayerID:   form.PlayerID,
		ReasonID:   form.ReasonID,
		Amount:     form.Amount,
		Date:       form.Date,
		AdminNotes: form.AdminNotes,
		Actor:      actor(r),
	}, a.fineDeps())
	if err == nil {
		redirect(w, r, "/admin/fines?ok=updated")
		return
	}

	res, loadErr := projections.QueryGetFineEdit(r.Context(), id, a.fineListDeps())
	if loadErr != nil {
		if id == 0 || dberr.IsNotFound(loadErr) {
			a.renderNotFound(w, r, "Boete niet gevonden.", "/admin/fines")
			return
		}
		internalError(w, r, loadErr)
		return
	}
	logUnexpected(r, err)
	a.render(w, r, statusFor(err), "fine_edit.html", page{
		Title: "Boete wijzigen",
		Error: userMessage(err),
		Data:  fineEditView{GetFineEditResult: res, ID: id, Form: form},
	})
}

// handleFineDelete removes one fine after confirmation.
func (a *app) handleFineDelete(w http.ResponseWriter, r *http.Request) {
	id := listutil.ParseID(r.PathValue("id"))
	err := orchestrators.ExecuteDeleteFine(r.Context(), orchestrators.DeleteFineInput{
		ID:        id,
		Confirmed: r.PostFormValue("confirm") == "yes",
		Actor:     actor(r),
	}, a.fineDeps())
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
		a.renderFineList(w, r, statusFor(err), fineForm{}, userMessage(err))
		return
	}
	redirect(w, r, "/admin/fines?ok=deleted")
}

// handleFineDeleteAll empties the pot once the confirmation phrase was typed.
func (a *app) handleFineDeleteAll(w http.ResponseWriter, r *http.Request) {
	phrase := r.PostFormValue("phrase")
	n, err := orchestrators.ExecuteDeleteAllFines(r.Context(), orchestrators.DeleteAllFinesInput{
		Phrase: phrase,
		Actor:  actor(r),
	}, a.fineDeps())
	if err != nil {
		logUnexpected(r, err)
		a.renderFineList(w, r, statusFor(err), fineForm{Phrase: phrase}, userMessage(err))
		return
	}
	redirect(w, r, "/admin/fines?removed="+strconv.FormatInt(n, 10))
}
