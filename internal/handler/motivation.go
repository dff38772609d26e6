package handler

import (
	"net/http"
	"time"

	"github.com/GuoYangtuo/potato-timer/internal/ctxkeys"
	"github.com/GuoYangtuo/potato-timer/internal/model"
	"github.com/GuoYangtuo/potato-timer/internal/service"
)

type MotivationHandler struct {
	motivations *service.MotivationService
	engagements *service.EngagementService
}

func NewMotivationHandler(motivations *service.MotivationService, engagements *service.EngagementService) *MotivationHandler {
	return &MotivationHandler{
		motivations: motivations,
		engagements: engagements,
	}
}

type mediaResponse struct {
	ID           int64   `json:"id"`
	Type         string  `json:"type"`
	URL          string  `json:"url"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	SortOrder    int     `json:"sortOrder"`
}

func toMediaResponses(media []model.Media) []mediaResponse {
	out := make([]mediaResponse, 0, len(media))
	for _, m := range media {
		out = append(out, mediaResponse{
			ID:           m.ID,
			Type:         m.MediaType,
			URL:          m.URL,
			ThumbnailURL: m.ThumbnailURL,
			SortOrder:    m.SortOrder,
		})
	}
	return out
}

type motivationResponse struct {
	ID          int64               `json:"id"`
	Title       *string             `json:"title"`
	Content     *string             `json:"content"`
	Type        string              `json:"type"`
	IsPublic    bool                `json:"isPublic"`
	ViewCount   int                 `json:"viewCount"`
	LikeCount   int                 `json:"likeCount"`
	CreatedAt   string              `json:"createdAt"`
	Author      model.AuthorSummary `json:"author"`
	Media       []mediaResponse     `json:"media"`
	Tags        []string            `json:"tags"`
	IsLiked     bool                `json:"isLiked"`
	IsFavorited bool                `json:"isFavorited"`
}

func toMotivationResponse(item *service.MotivationItem) motivationResponse {
	return motivationResponse{
		ID:          item.ID,
		Title:       item.Title,
		Content:     item.Content,
		Type:        item.Type,
		IsPublic:    item.IsPublic,
		ViewCount:   item.ViewCount,
		LikeCount:   item.LikeCount,
		CreatedAt:   item.CreatedAt.UTC().Format(time.RFC3339),
		Author:      item.Author,
		Media:       toMediaResponses(item.Media),
		Tags:        item.Tags,
		IsLiked:     item.IsLiked,
		IsFavorited: item.IsFavorited,
	}
}

func toMotivationResponses(items []*service.MotivationItem) []motivationResponse {
	out := make([]motivationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toMotivationResponse(item))
	}
	return out
}

// Create handles POST /api/motivations.
func (h *MotivationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    *string           `json:"title"`
		Content  *string           `json:"content"`
		Type     string            `json:"type"`
		IsPublic bool              `json:"isPublic"`
		Media    []model.MediaItem `json:"media"`
		Tags     []string          `json:"tags"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	m, err := h.motivations.Create(ctxkeys.UserID(r.Context()), service.CreateMotivationInput{
		Title:    req.Title,
		Content:  req.Content,
		Type:     req.Type,
		IsPublic: req.IsPublic,
		Media:    req.Media,
		Tags:     req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, "motivation created", map[string]any{"id": m.ID})
}

// Public handles GET /api/motivations/public?type=&tag=&page=&limit=.
func (h *MotivationHandler) Public(w http.ResponseWriter, r *http.Request) {
	items, err := h.motivations.Public(
		ctxkeys.UserID(r.Context()),
		r.URL.Query().Get("type"),
		r.URL.Query().Get("tag"),
		queryInt(r, "page"),
		queryInt(r, "limit"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "", toMotivationResponses(items))
}

// Mine handles GET /api/motivations/my?type=&page=&limit=.
func (h *MotivationHandler) Mine(w http.ResponseWriter, r *http.Request) {
	items, err := h.motivations.Mine(
		ctxkeys.UserID(r.Context()),
		r.URL.Query().Get("type"),
		queryInt(r, "page"),
		queryInt(r, "limit"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "", toMotivationResponses(items))
}

// Favorites handles GET /api/motivations/favorites?page=&limit=.
func (h *MotivationHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	items, err := h.motivations.Favorites(
		ctxkeys.UserID(r.Context()),
		queryInt(r, "page"),
		queryInt(r, "limit"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "", toMotivationResponses(items))
}

// Detail handles GET /api/motivations/{id}.
func (h *MotivationHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	item, err := h.motivations.Detail(ctxkeys.UserID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "", toMotivationResponse(item))
}

// Update handles PUT /api/motivations/{id}.
func (h *MotivationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Title    *string            `json:"title"`
		Content  *string            `json:"content"`
		Type     *string            `json:"type"`
		IsPublic *bool              `json:"isPublic"`
		Media    *[]model.MediaItem `json:"media"`
		Tags     *[]string          `json:"tags"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err = h.motivations.Update(ctxkeys.UserID(r.Context()), id, service.UpdateMotivationInput{
		Title:    req.Title,
		Content:  req.Content,
		Type:     req.Type,
		IsPublic: req.IsPublic,
		Media:    req.Media,
		Tags:     req.Tags,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "motivation updated", nil)
}

// Delete handles DELETE /api/motivations/{id}.
func (h *MotivationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.motivations.Delete(ctxkeys.UserID(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "motivation deleted", nil)
}

// Like handles POST /api/motivations/{id}/like.
func (h *MotivationHandler) Like(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagements.Like, "liked")
}

// Unlike handles DELETE /api/motivations/{id}/like.
func (h *MotivationHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagements.Unlike, "unliked")
}

// Favorite handles POST /api/motivations/{id}/favorite.
func (h *MotivationHandler) Favorite(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagements.Favorite, "favorited")
}

// Unfavorite handles DELETE /api/motivations/{id}/favorite.
func (h *MotivationHandler) Unfavorite(w http.ResponseWriter, r *http.Request) {
	h.engage(w, r, h.engagements.Unfavorite, "unfavorited")
}

func (h *MotivationHandler) engage(w http.ResponseWriter, r *http.Request, op func(userID, motivationID int64) error, message string) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := op(ctxkeys.UserID(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, message, nil)
}
