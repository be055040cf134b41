package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tingleshq/tingles/internal/ctxkeys"
	"github.com/tingleshq/tingles/internal/handler/respond"
	"github.com/tingleshq/tingles/internal/repository"
	"github.com/tingleshq/tingles/internal/service"
)

type galleryHandler struct {
	profileService *service.ProfileService
}

func NewGalleryHandler(profileService *service.ProfileService) *galleryHandler {
	return &galleryHandler{profileService: profileService}
}

// List returns the browsable profiles: complete and available, with the
// caller filtered out.
func (h *galleryHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	profiles, err := h.profileService.Gallery()
	if err != nil {
		slog.Error("failed to load gallery", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to load gallery")
		return
	}

	visible := profiles[:0]
	for _, p := range profiles {
		if p.UserID != user.ID {
			visible = append(visible, p)
		}
	}

	respond.JSON(w, http.StatusOK, visible)
}

// ExpressInterest marks the target profile as interested and notifies the
// founder. Handles POST /api/gallery/{userID}/interest.
func (h *galleryHandler) ExpressInterest(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())
	targetID := r.PathValue("userID")

	if targetID == user.ID {
		respond.Error(w, http.StatusBadRequest, "cannot express interest in yourself")
		return
	}

	err := h.profileService.ExpressInterest(user.ID, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			respond.Error(w, http.StatusNotFound, "profile not found")
			return
		}
		slog.Error("failed to express interest", "error", err, "user_id", user.ID, "target", targetID)
		respond.Error(w, http.StatusInternalServerError, "failed to express interest")
		return
	}

	slog.Info("interest expressed", "user_id", user.ID, "target", targetID)
	respond.JSON(w, http.StatusOK, map[string]string{"status": "interested"})
}
