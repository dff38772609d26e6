package handler

import (
	"net/http"

	"github.com/GuoYangtuo/potato-timer/internal/ctxkeys"
	"github.com/GuoYangtuo/potato-timer/internal/model"
	"github.com/GuoYangtuo/potato-timer/internal/service"
)

type TagHandler struct {
	tags *service.TagService
}

func NewTagHandler(tags *service.TagService) *TagHandler {
	return &TagHandler{tags: tags}
}

type tagResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Scope string `json:"scope"`
}

// List handles GET /api/tags: system tags plus the caller's own.
func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.Visible(ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]tagResponse, 0, len(tags))
	for i := range tags {
		t := &tags[i]
		out = append(out, tagResponse{ID: t.ID, Name: t.Name, Scope: t.Scope()})
	}

	writeJSON(w, http.StatusOK, "", out)
}

// Popular handles GET /api/tags/popular?limit=.
func (h *TagHandler) Popular(w http.ResponseWriter, r *http.Request) {
	usage, err := h.tags.Popular(queryInt(r, "limit"))
	if err != nil {
		writeError(w, err)
		return
	}

	if usage == nil {
		usage = []model.TagUsage{}
	}
	writeJSON(w, http.StatusOK, "", usage)
}
