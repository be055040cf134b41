package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tingleshq/tingles/internal/ctxkeys"
	"github.com/tingleshq/tingles/internal/handler/respond"
	"github.com/tingleshq/tingles/internal/model"
	"github.com/tingleshq/tingles/internal/repository"
	"github.com/tingleshq/tingles/internal/service"
	"github.com/tingleshq/tingles/internal/validation"
)

// founderHandler is the matchmaking back office: the founder reviews
// interested members, moves matches through their stages, curates
// introductions, and edits member profiles on their behalf.
type founderHandler struct {
	authService       *service.AuthService
	profileService    *service.ProfileService
	suggestionService *service.SuggestionService
}

func NewFounderHandler(authService *service.AuthService, profileService *service.ProfileService, suggestionService *service.SuggestionService) *founderHandler {
	return &founderHandler{
		authService:       authService,
		profileService:    profileService,
		suggestionService: suggestionService,
	}
}

// Interested lists members who have expressed interest or hold an active
// match stage.
func (h *founderHandler) Interested(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.profileService.ListInterested()
	if err != nil {
		slog.Error("failed to list interested members", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to list interested members")
		return
	}
	respond.JSON(w, http.StatusOK, profiles)
}

type matchStageRequest struct {
	Stage string `json:"stage"`
}

// UpdateMatchStage moves a member's match through its lifecycle. Handles
// PUT /api/founder/members/{userID}/stage.
func (h *founderHandler) UpdateMatchStage(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	var req matchStageRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stage, err := model.ParseMatchStage(req.Stage)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.profileService.UpdateMatchStage(userID, stage)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			respond.Error(w, http.StatusNotFound, "profile not found")
			return
		}
		slog.Error("failed to update match stage", "error", err, "member", userID, "stage", stage)
		respond.Error(w, http.StatusInternalServerError, "failed to update match stage")
		return
	}

	founder := ctxkeys.User(r.Context())
	slog.Info("match stage updated", "founder", founder.ID, "member", userID, "stage", stage)
	respond.JSON(w, http.StatusOK, map[string]string{"stage": string(stage)})
}

type suggestRequest struct {
	ToUserID string `json:"to_user_id"`
	OfUserID string `json:"of_user_id"`
}

// Suggest creates a curated introduction for a member.
func (h *founderHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ToUserID == "" || req.OfUserID == "" {
		respond.Error(w, http.StatusBadRequest, "to_user_id and of_user_id are required")
		return
	}

	suggestion, err := h.suggestionService.Suggest(req.ToUserID, req.OfUserID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			respond.Error(w, http.StatusNotFound, "profile not found")
			return
		}
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	founder := ctxkeys.User(r.Context())
	slog.Info("introduction suggested", "founder", founder.ID, "to", req.ToUserID, "of", req.OfUserID)
	respond.JSON(w, http.StatusCreated, suggestion)
}

type memberProfileRequest struct {
	Name      string `json:"name"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	Height    string `json:"height"`
	Industry  string `json:"industry"`
	Education string `json:"education"`
	LinkedIn  string `json:"linkedin_url"`
	Phone     string `json:"phone"`
}

// UpdateMemberProfile lets the founder fill in or correct a member's profile,
// required fields included. Handles PUT /api/founder/members/{userID}/profile.
func (h *founderHandler) UpdateMemberProfile(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")

	var req memberProfileRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	gender := strings.TrimSpace(req.Gender)
	if err := validation.ValidateName(name); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateAge(req.Age); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.ValidateGender(gender); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	err = h.profileService.CompleteOnboarding(userID, name, req.Age, gender)
	if err == nil {
		err = h.profileService.UpdateDetails(userID,
			strings.TrimSpace(req.Height),
			strings.TrimSpace(req.Industry),
			strings.TrimSpace(req.Education),
			strings.TrimSpace(req.LinkedIn),
			strings.TrimSpace(req.Phone),
		)
	}
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			respond.Error(w, http.StatusNotFound, "profile not found")
			return
		}
		slog.Error("failed to update member profile", "error", err, "member", userID)
		respond.Error(w, http.StatusInternalServerError, "failed to update member profile")
		return
	}

	profile, err := h.profileService.ByUserID(userID)
	if err != nil {
		slog.Error("failed to reload member profile", "error", err, "member", userID)
		respond.Error(w, http.StatusInternalServerError, "failed to load member profile")
		return
	}

	founder := ctxkeys.User(r.Context())
	slog.Info("member profile updated by founder", "founder", founder.ID, "member", userID)
	respond.JSON(w, http.StatusOK, profile)
}

type roleRequest struct {
	Role string `json:"role"`
}

// SetRole changes a member's role. The founder cannot demote themselves,
// which keeps at least one founder able to reach these tools.
func (h *founderHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	founder := ctxkeys.User(r.Context())

	var req roleRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, err := model.ParseRole(req.Role)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if userID == founder.ID && role != model.RoleFounder {
		respond.Error(w, http.StatusBadRequest, "cannot remove your own founder role")
		return
	}

	err = h.authService.SetRole(userID, role)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			respond.Error(w, http.StatusNotFound, "user not found")
			return
		}
		slog.Error("failed to set role", "error", err, "member", userID, "role", role)
		respond.Error(w, http.StatusInternalServerError, "failed to set role")
		return
	}

	slog.Info("role changed", "founder", founder.ID, "member", userID, "role", role)
	respond.JSON(w, http.StatusOK, map[string]string{"role": string(role)})
}
