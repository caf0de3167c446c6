package rest

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/ideapool/internal/server/models"
	"github.com/dmitrijs2005/ideapool/internal/server/services"
	"github.com/dmitrijs2005/ideapool/internal/server/validation"
	"github.com/go-chi/chi/v5"
)

type ideaRequest struct {
	Content    string `json:"content" validate:"required,max=255"`
	Impact     int    `json:"impact" validate:"min=1,max=10"`
	Ease       int    `json:"ease" validate:"min=1,max=10"`
	Confidence int    `json:"confidence" validate:"min=1,max=10"`
}

func (q ideaRequest) input() services.IdeaInput {
	return services.IdeaInput{Content: q.Content, Impact: q.Impact, Ease: q.Ease, Confidence: q.Confidence}
}

type ideaResponse struct {
	ID           string  `json:"id"`
	Content      string  `json:"content"`
	Impact       int     `json:"impact"`
	Ease         int     `json:"ease"`
	Confidence   int     `json:"confidence"`
	AverageScore float64 `json:"average_score"`
	CreatedAt    int64   `json:"created_at"`
	ModifiedAt   *int64  `json:"modified_at"`
}

func newIdeaResponse(i *models.Idea) ideaResponse {
	out := ideaResponse{
		ID:           i.ID,
		Content:      i.Content,
		Impact:       i.Impact,
		Ease:         i.Ease,
		Confidence:   i.Confidence,
		AverageScore: i.AverageScore(),
		CreatedAt:    i.CreatedAt.Unix(),
	}
	if i.ModifiedAt != nil {
		m := i.ModifiedAt.Unix()
		out.ModifiedAt = &m
	}
	return out
}

func (s *HTTPServer) decodeIdea(r *http.Request) (ideaRequest, error) {
	var req ideaRequest
	if err := decodeJSON(r, &req); err != nil {
		return req, err
	}
	return req, s.validate.Struct(req)
}

func (s *HTTPServer) createIdea(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeIdea(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	idea, err := s.ideas.Create(r.Context(), req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if u := userFromContext(r.Context()); u != nil {
		s.logger.Info(r.Context(), "Idea created", "id", idea.ID, "email", u.Email)
	}
	writeJSON(w, http.StatusCreated, newIdeaResponse(idea))
}

func (s *HTTPServer) updateIdea(w http.ResponseWriter, r *http.Request) {
	req, err := s.decodeIdea(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	idea, err := s.ideas.Update(r.Context(), chi.URLParam(r, "id"), req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newIdeaResponse(idea))
}

func (s *HTTPServer) deleteIdea(w http.ResponseWriter, r *http.Request) {
	if err := s.ideas.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *HTTPServer) listIdeas(w http.ResponseWriter, r *http.Request) {
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			ve := validation.Errors{}
			ve.Add("page", "A valid integer is required.")
			s.writeError(w, r, ve)
			return
		}
		page = n
	}

	list, err := s.ideas.List(r.Context(), page)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]ideaResponse, 0, len(list))
	for _, i := range list {
		out = append(out, newIdeaResponse(i))
	}
	writeJSON(w, http.StatusOK, out)
}
