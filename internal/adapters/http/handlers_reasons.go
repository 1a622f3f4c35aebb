package web

import (
	"net/http"

	"boetepot/internal/adapters/http/middleware"
	"boetepot/internal/application/listutil"
	"boetepot/internal/application/orchestrators"
	"boetepot/internal/application/projections"
	"boetepot/internal/domain/dberr"
	"boetepot/internal/domain/reason"
)

func (a *app) reasonDeps() orchestrators.ReasonDeps {
	return orchestrators.ReasonDeps{
		ReasonStore: a.stores.ReasonStore,
		AuditStore:  a.stores.AuditStore,
		Now:         a.now,
	}
}

type reasonListView struct {
	Reasons      []reason.Reason
	Descriptions string
	Amount       string
}

type reasonEditView struct {
	ID          int64
	Description string
	Amount      string
}

func (a *app) renderReasonList(w http.ResponseWriter, r *http.Request, status int, form reasonListView, errMsg string) {
	reasons, err := projections.QueryGetReasons(r.Context(), a.stores.ReasonStore)
	if err != nil {
		logUnexpected(r, err)
		status, errMsg = http.StatusInternalServerError, msgGeneric
	}
	form.Reasons = reasons
	a.render(w, r, status, "reasons.html", page{Title: "Redenen", Error: errMsg, Data: form})
}

func (a *app) handleReasonList(w http.ResponseWriter, r *http.Request) {
	a.renderReasonList(w, r, http.StatusOK, reasonListView{}, "")
}

// handleReasonCreate adds one reason per non-blank line, all with the same default amount.
func (a *app) handleReasonCreate(w http.ResponseWriter, r *http.Request) {
	form := reasonListView{
		Descriptions: r.PostFormValue("descriptions"),
		Amount:       r.PostFormValue("amount"),
	}
	_, err := orchestrators.ExecuteCreateReasons(r.Context(), orchestrators.CreateReasonsInput{
		Descriptions: form.Descriptions,
		Amount:       form.Amount,
		Actor:        actor(r),
	}, a.reasonDeps())
	if err != nil {
		logUnexpected(r, err)
		a.renderReasonList(w, r, statusFor(err), form, userMessage(err))
		return
	}
	redirect(w, r, "/admin/reasons?ok=created")
}

func (a *app) handleReasonEditPage(w http.ResponseWriter, r *http.Request) {
	id := listutil.ParseID(r.PathValue("id"))
	rs, err := a.stores.ReasonStore.GetByID(r.Context(), id)
	if err != nil {
		if id == 0 || dberr.IsNotFound(err) {
			a.renderNotFound(w, r, "Reden niet gevonden.", "/admin/reasons")
			return
		}
		internalError(w, r, err)
		return
	}
	a.render(w, r, http.StatusOK, "reason_edit.html", page{
		Title: "Reden wijzigen",
		Data:  reasonEditView{ID: rs.ID, Description: rs.Description, Amount: rs.Amount.String()},
	})
}

func (a *app) handleReasonUpdate(w http.ResponseWriter, r *http.Request) {
	form := reasonEditView{
		ID:          listutil.ParseID(r.PathValue("id")),
		Description: r.PostFormValue("description"),
		Amount:      r.PostFormValue("amount"),
	}
	_, err := orchestrators.ExecuteUpdateReason(r.Context(), orchestrators.UpdateReasonInput{
		ID:          form.ID,
		Description: form.Description,
		Amount:      form.Amount,
		Actor:       actor(r),
	}, a.reasonDeps())
	if err != nil {
		if form.ID == 0 || dberr.IsNotFound(err) {
			a.renderNotFound(w, r, "Reden niet gevonden.", "/admin/reasons")
			return
		}
		logUnexpected(r, err)
		a.render(w, r, statusFor(err), "reason_edit.html", page{
			Title: "Reden wijzigen",
			Error: userMessage(err),
			Data:  form,
		})
		return
	}
	redirect(w, r, "/admin/reasons?ok=updated")
}

// handleReasonDelete removes an unreferenced reason after confirmation.
func (a *app) handleReasonDelete(w http.ResponseWriter, r *http.Request) {
	id := listutil.ParseID(r.PathValue("id"))
	err := orchestrators.ExecuteDeleteReason(r.Context(), orchestrators.DeleteReasonInput{
		ID:        id,
		Confirmed: r.PostFormValue("confirm") == "yes",
		Actor:     actor(r),
	}, a.reasonDeps())
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
		a.renderReasonList(w, r, statusFor(err), reasonListView{}, userMessage(err))
		return
	}
	redirect(w, r, "/admin/reasons?ok=deleted")
}
