package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/tingleshq/tingles/internal/ctxkeys"
	"github.com/tingleshq/tingles/internal/handler/respond"
	"github.com/tingleshq/tingles/internal/model"
	"github.com/tingleshq/tingles/internal/repository"
	"github.com/tingleshq/tingles/internal/service"
)

type suggestionHandler struct {
	suggestionService *service.SuggestionService
}

func NewSuggestionHandler(suggestionService *service.SuggestionService) *suggestionHandler {
	return &suggestionHandler{suggestionService: suggestionService}
}

// List returns the caller's suggestions with the suggested profiles.
func (h *suggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	suggestions, err := h.suggestionService.ForUser(user.ID)
	if err != nil {
		slog.Error("failed to list suggestions", "error", err, "user_id", user.ID)
		respond.Error(w, http.StatusInternalServerError, "failed to list suggestions")
		return
	}

	respond.JSON(w, http.StatusOK, suggestions)
}

type suggestionResponseRequest struct {
	Status string `json:"status"`
}

// Respond records an accept or decline on one of the caller's own
// suggestions. Handles POST /api/suggestions/{id}/respond.
func (h *suggestionHandler) Respond(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	suggestionID := r.PathValue("id")

	var req suggestionResponseRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status, err := model.ParseSuggestionStatus(req.Status)
	if err != nil || status == model.SuggestionPending {
		respond.Error(w, http.StatusBadRequest, "status must be accepted or declined")
		return
	}

	err = h.suggestionService.Respond(user.ID, suggestionID, status)
	if err != nil {
		if errors.Is(err, repository.ErrSuggestionNotFound) {
			respond.Error(w, http.StatusNotFound, "suggestion not found")
			return
		}
		slog.Error("failed to respond to suggestion", "error", err, "user_id", user.ID, "suggestion_id", suggestionID)
		respond.Error(w, http.StatusInternalServerError, "failed to respond to suggestion")
		return
	}

	slog.Info("suggestion response recorded", "user_id", user.ID, "suggestion_id", suggestionID, "status", status)
	respond.JSON(w, http.StatusOK, map[string]string{"status": string(status)})
}
