package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	apperrors "github.com/postdeck/scheduler-server-go/internal/errors"
	"github.com/postdeck/scheduler-server-go/internal/model"
	"github.com/postdeck/scheduler-server-go/internal/service"
)

type SessionHandler struct {
	sessions *service.SessionService
}

func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{
		sessions: sessions,
	}
}

func (h *SessionHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetSession)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)

	return r
}

func (h *SessionHandler) AccountRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/{platform}/connect", h.ConnectAccount)
	r.Delete("/{platform}", h.DisconnectAccount)

	return r
}

// GET /v1/session
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.sessions.Current())
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /v1/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body").WithCause(err))
		return
	}

	session, err := h.sessions.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// POST /v1/session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	session := h.sessions.Logout(r.Context())
	writeJSON(w, http.StatusOK, session)
}

// POST /v1/accounts/{platform}/connect
func (h *SessionHandler) ConnectAccount(w http.ResponseWriter, r *http.Request) {
	platform := model.Platform(chi.URLParam(r, "platform"))

	session, err := h.sessions.ConnectAccount(r.Context(), platform)
	if err != nil {
		// Unknown platform ids indicate a caller bug, the set is closed.
		log.Warn().Str("platform", string(platform)).Msg("connect rejected")
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}

// DELETE /v1/accounts/{platform}
func (h *SessionHandler) DisconnectAccount(w http.ResponseWriter, r *http.Request) {
	platform := model.Platform(chi.URLParam(r, "platform"))

	session, err := h.sessions.DisconnectAccount(r.Context(), platform)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, session)
}
