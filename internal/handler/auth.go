package handler

import (
	"net/http"
	"time"

	"github.com/GuoYangtuo/potato-timer/internal/apperror"
	"github.com/GuoYangtuo/potato-timer/internal/ctxkeys"
	"github.com/GuoYangtuo/potato-timer/internal/model"
	"github.com/GuoYangtuo/potato-timer/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type userResponse struct {
	ID          int64   `json:"id"`
	PhoneNumber string  `json:"phoneNumber"`
	Nickname    string  `json:"nickname"`
	AvatarURL   *string `json:"avatarUrl"`
	CreatedAt   string  `json:"createdAt"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:          u.ID,
		PhoneNumber: u.PhoneNumber,
		Nickname:    u.Nickname,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Login handles POST /api/auth/login: one-tap token in, JWT out.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccessToken string `json:"accessToken"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.AccessToken == "" {
		writeError(w, apperror.Validation("accessToken", "accessToken is required"))
		return
	}

	result, err := h.auth.Login(r.Context(), req.AccessToken)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "login successful", map[string]any{
		"token": result.Token,
		"user":  toUserResponse(result.User),
	})
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.Profile(ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "", toUserResponse(user))
}

// UpdateProfile handles PUT /api/auth/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Nickname  *string `json:"nickname"`
		AvatarURL *string `json:"avatarUrl"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.auth.UpdateProfile(ctxkeys.UserID(r.Context()), service.UpdateProfileInput{
		Nickname:  req.Nickname,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "profile updated", toUserResponse(user))
}
