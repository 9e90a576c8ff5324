package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tabsplit/tabsplit/internal/api/request"
	"github.com/tabsplit/tabsplit/internal/api/response"
	"github.com/tabsplit/tabsplit/internal/model"
	"github.com/tabsplit/tabsplit/internal/services/session"
)

// SessionHandler handles session lifecycle endpoints
type SessionHandler struct {
	sessions *session.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions *session.Controller) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.CreateSession(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, response.SessionFromModel(s))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	s, err := h.sessions.GetSession(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// SetItems handles PUT /api/v1/sessions/{id}/items
func (h *SessionHandler) SetItems(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.SetItemsRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	s, err := h.sessions.SetItems(r.Context(), id, itemsFromRequest(req.Items))
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// SetParticipants handles PUT /api/v1/sessions/{id}/participants
func (h *SessionHandler) SetParticipants(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.SetParticipantsRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	participants := make([]model.Participant, len(req.Participants))
	for i, p := range req.Participants {
		participants[i] = model.Participant{
			ID:         p.ID,
			Name:       p.Name,
			DisplayTag: p.DisplayTag,
		}
	}

	s, err := h.sessions.SetParticipants(r.Context(), id, participants)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// RemoveParticipant handles DELETE /api/v1/sessions/{id}/participants/{participant_id}
func (h *SessionHandler) RemoveParticipant(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := model.SessionID(vars["id"])
	participantID := vars["participant_id"]

	s, err := h.sessions.RemoveParticipant(r.Context(), id, participantID)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// Calculate handles POST /api/v1/sessions/{id}/calculate
func (h *SessionHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	s, err := h.sessions.Calculate(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

// ExtractText handles POST /api/v1/sessions/{id}/extract. It runs item
// extraction over client-supplied recognized text and installs the
// candidates as the session's items.
func (h *SessionHandler) ExtractText(w http.ResponseWriter, r *http.Request) {
	id := model.SessionID(mux.Vars(r)["id"])

	var req request.ExtractRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	s, err := h.sessions.ExtractItems(r.Context(), id, req.Text)
	if err != nil {
		WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.SessionFromModel(s))
}

func itemsFromRequest(items []request.Item) []model.BillItem {
	out := make([]model.BillItem, len(items))
	for i, item := range items {
		out[i] = model.BillItem{
			ID:             item.ID,
			Name:           item.Name,
			Price:          item.Price,
			ParticipantIDs: item.ParticipantIDs,
		}
	}
	return out
}
