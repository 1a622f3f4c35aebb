package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"boetepot/internal/application/orchestrators"
	"boetepot/internal/domain/dberr"
	"boetepot/internal/domain/fine"
	"boetepot/internal/domain/money"
	"boetepot/internal/domain/player"
	"boetepot/internal/domain/reason"
)

const (
	msgNotFound = "Niet gevonden."
	msgExists   = "Bestaat al."
	msgInUse    = "Nog in gebruik, kan niet verwijderen."
	msgGeneric  = "Kon niet laden/opslaan, probeer opnieuw."
)

// validationMessages translates domain sentinels into the text shown next to a form.
var validationMessages = []struct {
	err error
	msg string
}{
	{player.ErrEmptyName, "Naam mag niet leeg zijn."},
	{player.ErrNameTooLong, "Naam mag maximaal 100 tekens zijn."},
	{player.ErrNoNames, "Vul minstens één naam in."},
	{reason.ErrEmptyDescription, "Omschrijving mag niet leeg zijn."},
	{reason.ErrDescriptionTooLong, "Omschrijving mag maximaal 200 tekens zijn."},
	{reason.ErrNegativeAmount, "Bedrag mag niet negatief zijn."},
	{reason.ErrNoDescriptions, "Vul minstens één omschrijving in."},
	{fine.ErrNoPlayersSelected, "Selecteer minstens één speler."},
	{fine.ErrPlayerRequired, "Kies een speler."},
	{fine.ErrReasonRequired, "Kies een reden."},
	{fine.ErrNegativeAmount, "Bedrag mag niet negatief zijn."},
	{fine.ErrDateRequired, "Vul een datum in."},
	{fine.ErrInvalidDate, "Datum moet de vorm JJJJ-MM-DD hebben."},
	{fine.ErrNotesTooLong, "Notitie mag maximaal 2000 tekens zijn."},
	{fine.ErrUnknownReference, "Gekozen speler of reden bestaat niet (meer)."},
	{fine.ErrPhraseMismatch, "Typ " + fine.DeleteAllPhrase + " om alle boetes te verwijderen."},
	{money.ErrInvalidAmount, "Ongeldig bedrag, gebruik bijvoorbeeld 5 of 2,50."},
	{orchestrators.ErrNotConfirmed, "Verwijderen niet bevestigd."},
	{orchestrators.ErrInvalidCredential, "Onjuist wachtwoord."},
	{orchestrators.ErrAccountLocked, "Te veel mislukte pogingen, probeer het over 15 minuten opnieuw."},
}

func validationMessage(err error) (string, bool) {
	for _, v := range validationMessages {
		if errors.Is(err, v.err) {
			return v.msg, true
		}
	}
	return "", false
}

// userMessage maps any error to the Dutch text a visitor may see.
// Store details never leak; only the error kind is reflected.
func userMessage(err error) string {
	if msg, ok := validationMessage(err); ok {
		return msg
	}
	switch {
	case dberr.IsNotFound(err):
		return msgNotFound
	case dberr.IsUniqueViolation(err):
		return msgExists
	case dberr.IsReferentialViolation(err):
		return msgInUse
	default:
		return msgGeneric
	}
}

// statusFor picks the response status for err.
// Recoverable input and constraint errors are 422; everything unexpected is 500.
func statusFor(err error) int {
	if _, ok := validationMessage(err); ok {
		return http.StatusUnprocessableEntity
	}
	switch {
	case dberr.IsNotFound(err):
		return http.StatusNotFound
	case dberr.IsUniqueViolation(err), dberr.IsReferentialViolation(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// isExpected reports whether err is a user-caused failure that needs no logging.
func isExpected(err error) bool {
	return statusFor(err) != http.StatusInternalServerError
}

// logUnexpected logs err when it is not a user-caused failure.
func logUnexpected(r *http.Request, err error) {
	if isExpected(err) {
		return
	}
	slog.Error("internal_error", "error", err.Error(), "method", r.Method, "path", r.URL.Path)
}

// internalError logs the real error and returns a generic message to the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal_error", "error", err.Error(), "method", r.Method, "path", r.URL.Path)
	http.Error(w, msgGeneric, http.StatusInternalServerError)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json_encode_failed", "error", err.Error())
	}
}

// writeJSONError writes {"error": msg}. Referential violations become 409 for API callers.
func writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	logUnexpected(r, err)
	status := statusFor(err)
	if dberr.IsReferentialViolation(err) && !errors.Is(err, fine.ErrUnknownReference) {
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": userMessage(err)})
}
