package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tingleshq/tingles/internal/ctxkeys"
	"github.com/tingleshq/tingles/internal/handler/respond"
	"github.com/tingleshq/tingles/internal/repository"
	"github.com/tingleshq/tingles/internal/service"
)

// 5 MB is plenty for a profile photo.
const maxPhotoBytes = 5 << 20

type profileHandler struct {
	profileService *service.ProfileService
	photoService   *service.PhotoService
}

func NewProfileHandler(profileService *service.ProfileService, photoService *service.PhotoService) *profileHandler {
	return &profileHandler{
		profileService: profileService,
		photoService:   photoService,
	}
}

// Me returns the caller's own profile.
func (h *profileHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	profile, err := h.profileService.ByUserID(user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			respond.Error(w, http.StatusNotFound, "profile not found")
			return
		}
		slog.Error("failed to load profile", "error", err, "user_id", user.ID)
		respond.Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}

	respond.JSON(w, http.StatusOK, profile)
}

type profileDetailsRequest struct {
	Height    string `json:"height"`
	Industry  string `json:"industry"`
	Education string `json:"education"`
	LinkedIn  string `json:"linkedin_url"`
	Phone     string `json:"phone"`
}

// UpdateDetails updates the optional profile fields. The required onboarding
// fields have their own endpoint and validation.
func (h *profileHandler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req profileDetailsRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.profileService.UpdateDetails(user.ID,
		strings.TrimSpace(req.Height),
		strings.TrimSpace(req.Industry),
		strings.TrimSpace(req.Education),
		strings.TrimSpace(req.LinkedIn),
		strings.TrimSpace(req.Phone),
	)
	if err != nil {
		slog.Error("failed to update profile details", "error", err, "user_id", user.ID)
		respond.Error(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	profile, err := h.profileService.ByUserID(user.ID)
	if err != nil {
		slog.Error("failed to reload profile", "error", err, "user_id", user.ID)
		respond.Error(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	respond.JSON(w, http.StatusOK, profile)
}

// UploadPhoto accepts a multipart photo upload and stores it, replacing any
// previous photo for the user.
func (h *profileHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := r.ParseMultipartForm(maxPhotoBytes)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close uploaded file", "error", closeErr)
		}
	}()

	contentType := header.Header.Get("Content-Type")
	path, err := h.photoService.Save(user.ID, contentType, http.MaxBytesReader(w, file, maxPhotoBytes))
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedPhotoType) {
			respond.Error(w, http.StatusUnsupportedMediaType, "photo must be a JPEG, PNG, or WebP image")
			return
		}
		slog.Error("failed to store photo", "error", err, "user_id", user.ID)
		respond.Error(w, http.StatusInternalServerError, "failed to store photo")
		return
	}

	err = h.profileService.SetPhoto(user.ID, path)
	if err != nil {
		slog.Error("failed to record photo", "error", err, "user_id", user.ID)
		respond.Error(w, http.StatusInternalServerError, "failed to store photo")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"photo_url": h.photoService.URL(path)})
}
