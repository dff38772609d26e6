package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/GuoYangtuo/potato-timer/internal/apperror"
	"github.com/GuoYangtuo/potato-timer/internal/ctxkeys"
	"github.com/GuoYangtuo/potato-timer/internal/model"
	"github.com/GuoYangtuo/potato-timer/internal/service"
)

type GoalHandler struct {
	goals       *service.GoalService
	completions *service.CompletionService
}

func NewGoalHandler(goals *service.GoalService, completions *service.CompletionService) *GoalHandler {
	return &GoalHandler{
		goals:       goals,
		completions: completions,
	}
}

type goalResponse struct {
	ID                     int64   `json:"id"`
	Title                  string  `json:"title"`
	Description            *string `json:"description"`
	Type                   string  `json:"type"`
	IsPublic               bool    `json:"isPublic"`
	EnableTimer            bool    `json:"enableTimer"`
	DurationMinutes        int     `json:"durationMinutes"`
	ReminderTime           *string `json:"reminderTime"`
	TotalHours             float64 `json:"totalHours"`
	CompletedHours         float64 `json:"completedHours"`
	MorningReminderTime    string  `json:"morningReminderTime"`
	AfternoonReminderTime  string  `json:"afternoonReminderTime"`
	SessionDurationMinutes int     `json:"sessionDurationMinutes"`
	StreakDays             int     `json:"streakDays"`
	TotalCompletedDays     int     `json:"totalCompletedDays"`
	LastCompletedDate      *string `json:"lastCompletedDate"`
	Status                 string  `json:"status"`
	CreatedAt              string  `json:"createdAt"`
}

func toGoalResponse(g *model.Goal) goalResponse {
	return goalResponse{
		ID:                     g.ID,
		Title:                  g.Title,
		Description:            g.Description,
		Type:                   g.Type,
		IsPublic:               g.IsPublic,
		EnableTimer:            g.EnableTimer,
		DurationMinutes:        g.DurationMinutes,
		ReminderTime:           g.ReminderTime,
		TotalHours:             g.TotalHours,
		CompletedHours:         g.CompletedHours,
		MorningReminderTime:    g.MorningReminderTime,
		AfternoonReminderTime:  g.AfternoonReminderTime,
		SessionDurationMinutes: g.SessionDurationMinutes,
		StreakDays:             g.StreakDays,
		TotalCompletedDays:     g.TotalCompletedDays,
		LastCompletedDate:      g.LastCompletedDate,
		Status:                 g.Status,
		CreatedAt:              g.CreatedAt.UTC().Format(time.RFC3339),
	}
}

type completionResponse struct {
	ID              int64   `json:"id"`
	GoalID          int64   `json:"goalId"`
	DurationMinutes int     `json:"durationMinutes"`
	Notes           *string `json:"notes"`
	CompletedAt     string  `json:"completedAt"`
}

func toCompletionResponse(c *model.Completion) completionResponse {
	return completionResponse{
		ID:              c.ID,
		GoalID:          c.GoalID,
		DurationMinutes: c.DurationMinutes,
		Notes:           c.Notes,
		CompletedAt:     c.CompletedAt.UTC().Format(time.RFC3339),
	}
}

func toCompletionResponses(cs []*model.Completion) []completionResponse {
	out := make([]completionResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCompletionResponse(c))
	}
	return out
}

// pathID parses the {id} path segment.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("id", "invalid id")
	}
	return id, nil
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

// Create handles POST /api/goals.
func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title                  string  `json:"title"`
		Description            *string `json:"description"`
		Type                   string  `json:"type"`
		IsPublic               bool    `json:"isPublic"`
		EnableTimer            bool    `json:"enableTimer"`
		DurationMinutes        int     `json:"durationMinutes"`
		ReminderTime           *string `json:"reminderTime"`
		TotalHours             float64 `json:"totalHours"`
		MorningReminderTime    string  `json:"morningReminderTime"`
		AfternoonReminderTime  string  `json:"afternoonReminderTime"`
		SessionDurationMinutes int     `json:"sessionDurationMinutes"`
		MotivationIDs          []int64 `json:"motivationIds"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	goal, err := h.goals.Create(ctxkeys.UserID(r.Context()), service.CreateGoalInput{
		Title:                  req.Title,
		Description:            req.Description,
		Type:                   req.Type,
		IsPublic:               req.IsPublic,
		EnableTimer:            req.EnableTimer,
		DurationMinutes:        req.DurationMinutes,
		ReminderTime:           req.ReminderTime,
		TotalHours:             req.TotalHours,
		MorningReminderTime:    req.MorningReminderTime,
		AfternoonReminderTime:  req.AfternoonReminderTime,
		SessionDurationMinutes: req.SessionDurationMinutes,
		MotivationIDs:          req.MotivationIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, "goal created", toGoalResponse(goal))
}

// List handles GET /api/goals?type=&status=.
func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.goals.Goals(
		ctxkeys.UserID(r.Context()),
		r.URL.Query().Get("type"),
		r.URL.Query().Get("status"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		entry := map[string]any{}
		g := toGoalResponse(item.Goal)
		entry["goal"] = g
		entry["motivations"] = item.Motivations
		out = append(out, entry)
	}

	writeJSON(w, http.StatusOK, "", out)
}

// Public handles GET /api/goals/public?type=&page=&limit=.
func (h *GoalHandler) Public(w http.ResponseWriter, r *http.Request) {
	items, err := h.goals.PublicGoals(
		r.URL.Query().Get("type"),
		queryInt(r, "page"),
		queryInt(r, "limit"),
	)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, map[string]any{
			"goal":   toGoalResponse(item.Goal),
			"author": item.Author,
		})
	}

	writeJSON(w, http.StatusOK, "", out)
}

// Detail handles GET /api/goals/{id}.
func (h *GoalHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	detail, err := h.goals.Detail(ctxkeys.UserID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "", map[string]any{
		"goal":              toGoalResponse(detail.Goal),
		"motivations":       detail.Motivations,
		"recentCompletions": toCompletionResponses(detail.RecentCompletions),
	})
}

// Update handles PUT /api/goals/{id}.
func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Title                  *string  `json:"title"`
		Description            *string  `json:"description"`
		IsPublic               *bool    `json:"isPublic"`
		EnableTimer            *bool    `json:"enableTimer"`
		DurationMinutes        *int     `json:"durationMinutes"`
		ReminderTime           *string  `json:"reminderTime"`
		TotalHours             *float64 `json:"totalHours"`
		MorningReminderTime    *string  `json:"morningReminderTime"`
		AfternoonReminderTime  *string  `json:"afternoonReminderTime"`
		SessionDurationMinutes *int     `json:"sessionDurationMinutes"`
		Status                 *string  `json:"status"`
		MotivationIDs          *[]int64 `json:"motivationIds"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	err = h.goals.Update(ctxkeys.UserID(r.Context()), id, service.UpdateGoalInput{
		Title:                  req.Title,
		Description:            req.Description,
		IsPublic:               req.IsPublic,
		EnableTimer:            req.EnableTimer,
		DurationMinutes:        req.DurationMinutes,
		ReminderTime:           req.ReminderTime,
		TotalHours:             req.TotalHours,
		MorningReminderTime:    req.MorningReminderTime,
		AfternoonReminderTime:  req.AfternoonReminderTime,
		SessionDurationMinutes: req.SessionDurationMinutes,
		Status:                 req.Status,
		MotivationIDs:          req.MotivationIDs,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "goal updated", nil)
}

// Delete handles DELETE /api/goals/{id}.
func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.goals.Delete(ctxkeys.UserID(r.Context()), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "goal deleted", nil)
}

// Complete handles POST /api/goals/{id}/complete.
func (h *GoalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		DurationMinutes int     `json:"durationMinutes"`
		Notes           *string `json:"notes"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.completions.Record(ctxkeys.UserID(r.Context()), id, req.DurationMinutes, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "completion recorded", map[string]any{
		"completion":     toCompletionResponse(result.Completion),
		"streakDays":     result.StreakDays,
		"completedHours": result.CompletedHours,
		"totalDays":      result.TotalDays,
	})
}

// Completions handles GET /api/goals/{id}/completions?limit=.
func (h *GoalHandler) Completions(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	completions, err := h.completions.History(ctxkeys.UserID(r.Context()), id, queryInt(r, "limit"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, "", toCompletionResponses(completions))
}

// Session handles GET /api/goals/{id}/session: the goal with its linked
// motivations and their full media lists.
func (h *GoalHandler) Session(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	session, err := h.goals.Session(ctxkeys.UserID(r.Context()), id)
	if err != nil {
		writeError(w, err)
		return
	}

	motivations := make([]map[string]any, 0, len(session.Motivations))
	for _, m := range session.Motivations {
		motivations = append(motivations, map[string]any{
			"id":      m.ID,
			"title":   m.Title,
			"content": m.Content,
			"type":    m.Type,
			"media":   toMediaResponses(m.Media),
		})
	}

	writeJSON(w, http.StatusOK, "", map[string]any{
		"goal":        toGoalResponse(session.Goal),
		"motivations": motivations,
	})
}
