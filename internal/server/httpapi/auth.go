package httpapi

import (
	"errors"
	"mime"
	"net/http"

	"github.com/dmitrijs2005/gophledger/internal/server/services"
)

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type credentials struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var in services.Registration
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	u, err := h.Users.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// login accepts either a JSON body or an OAuth2-style password form.
func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var c credentials

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			writeError(w, r, h.logger, badRequest("invalid form: %v", err))
			return
		}
		c.UserName, c.Password = r.PostFormValue("username"), r.PostFormValue("password")
	default:
		if err := decodeJSON(w, r, &c); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}

	if c.UserName == "" || c.Password == "" {
		writeError(w, r, h.logger, badRequest("username and password are required"))
		return
	}

	token, err := h.Users.Login(r.Context(), c.UserName, c.Password)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, userFrom(r.Context()))
}

func (h *handler) updateMe(w http.ResponseWriter, r *http.Request) {
	var in services.ProfileUpdate
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	u, err := h.Users.UpdateProfile(r.Context(), userFrom(r.Context()), in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handler) preferences(w http.ResponseWriter, r *http.Request) {
	p, err := h.Users.Preferences(r.Context(), userFrom(r.Context()).ID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) updatePreferences(w http.ResponseWriter, r *http.Request) {
	var in services.PreferencesUpdate
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	p, err := h.Users.UpdatePreferences(r.Context(), userFrom(r.Context()).ID, in)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
