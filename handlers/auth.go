package handlers

import (
	"errors"
	"log"
	"net/http"

	"school-admin/auth"
	"school-admin/models"
)

type AuthHandler struct {
	service *auth.Service
}

func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Login checks the credentials and returns a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq models.LoginRequest
	if !decodeAndValidate(w, r, &loginReq) {
		return
	}

	response, _, err := h.service.SignIn(r.Context(), loginReq.Email, loginReq.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, "E-posta veya şifre hatalı.", http.StatusUnauthorized)
			return
		}
		respondError(w, err, "Giriş yapılırken hata oluştu.")
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// Logout ends the current session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := auth.SessionFromContext(r.Context())
	if session == nil {
		writeError(w, msgNotAuthenticated, http.StatusUnauthorized)
		return
	}

	if err := h.service.SignOut(r.Context(), session.ID); err != nil {
		respondError(w, err, "Çıkış yapılırken hata oluştu.")
		return
	}

	log.Printf("✅ User signed out: %s", session.Email)
	w.WriteHeader(http.StatusNoContent)
}

// GetCurrentUser returns the signed-in user.
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.CurrentUser(r.Context())
	if err != nil {
		respondError(w, err, "Kullanıcı bilgileri alınamadı.")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
