package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"school-admin/auth"
	"school-admin/database"
	"school-admin/services"
)

const (
	msgNotAuthenticated = "Oturum açmanız gerekiyor."
	msgInvalidBody      = "Geçersiz istek gövdesi."
	msgInvalidForm      = "Lütfen formdaki alanları kontrol edin."
	msgDuplicate        = "Bu kayıt zaten mevcut."
	msgReferenced       = "Kayıt başka kayıtlarla ilişkili olduğu için işlem yapılamadı."
)

type errorResponse struct {
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, errorResponse{Error: message})
}

// respondError logs err and answers with the status derived from it. The
// fallback message is shown for failures that have no specific message.
func respondError(w http.ResponseWriter, err error, fallback string) {
	err = database.TranslateError(err)
	log.Printf("❌ %s: %v", fallback, err)

	switch {
	case errors.Is(err, services.ErrNotAuthenticated), errors.Is(err, auth.ErrNotSignedIn):
		writeError(w, msgNotAuthenticated, http.StatusUnauthorized)
	case errors.Is(err, services.ErrClassNotFound):
		writeError(w, "Sınıf bulunamadı.", http.StatusNotFound)
	case errors.Is(err, services.ErrTeacherNotFound):
		writeError(w, "Öğretmen bulunamadı.", http.StatusNotFound)
	case errors.Is(err, services.ErrStudentNotFound):
		writeError(w, "Öğrenci bulunamadı.", http.StatusNotFound)
	case errors.Is(err, services.ErrQuoteNotFound):
		writeError(w, "Fiyat teklifi bulunamadı.", http.StatusNotFound)
	case errors.Is(err, services.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fallback, Details: err.Error()})
	case errors.Is(err, database.ErrDuplicate):
		writeError(w, msgDuplicate, http.StatusConflict)
	case errors.Is(err, database.ErrReferenced):
		writeError(w, msgReferenced, http.StatusConflict)
	default:
		writeError(w, fallback, http.StatusInternalServerError)
	}
}
