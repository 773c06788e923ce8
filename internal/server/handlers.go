package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/inkwell-app/inkwell/internal/library"
	"github.com/inkwell-app/inkwell/internal/llm"
	"github.com/inkwell-app/inkwell/internal/quota"
	"github.com/inkwell-app/inkwell/internal/story"
)

// userID resolves the requesting user. Authentication is handled by the
// deployment in front of this service; we only honor its identity header.
func userID(r *http.Request) string {
	if id := r.Header.Get("X-User-ID"); id != "" {
		return id
	}
	return "anonymous"
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// generateRequest is the body of POST /api/stories/generate. UseExample
// is a pointer so that an omitted field means true.
type generateRequest struct {
	Prompt     string `json:"prompt"`
	Model      string `json:"model,omitempty"`
	UseExample *bool  `json:"use_example,omitempty"`
}

// generateResponse is the stored story plus the caller's remaining quota
// after this generation (-1 when the quota is disabled).
type generateResponse struct {
	library.StoredStory
	QuotaRemaining int `json:"quota_remaining"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user := userID(r)
	ctx := r.Context()

	if err := s.quotas.Consume(ctx, user); err != nil {
		if errors.Is(err, quota.ErrQuotaExceeded) {
			writeError(w, http.StatusTooManyRequests, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	useExample := true
	if req.UseExample != nil {
		useExample = *req.UseExample
	}

	result, err := s.generator.Generate(ctx, story.Params{
		Prompt:     req.Prompt,
		Model:      req.Model,
		UseExample: useExample,
	})
	if err != nil {
		s.writeGenerateError(w, err)
		return
	}

	stored, err := s.stories.Create(ctx, library.StoredStory{
		UserID:         user,
		Title:          result.Title,
		Content:        result.Content,
		Prompt:         req.Prompt,
		Model:          result.Model,
		WordCount:      result.WordCount,
		ExtractedTags:  result.ExtractedTags,
		MatchedExample: result.MatchedExample,
		Usage:          result.Usage,
	})
	if err != nil {
		log.Printf("server: persisting story failed: %v", err)
		writeError(w, http.StatusInternalServerError, "saving story failed")
		return
	}

	remaining, err := s.quotas.Remaining(ctx, user)
	if err != nil {
		remaining = -1
	}

	writeJSON(w, http.StatusOK, generateResponse{StoredStory: *stored, QuotaRemaining: remaining})
}

// writeGenerateError maps pipeline errors onto HTTP statuses: bad input
// is the client's fault, upstream API errors keep their upstream status,
// and everything else is a 502.
func (s *Server) writeGenerateError(w http.ResponseWriter, err error) {
	var apiErr *llm.APIError
	switch {
	case errors.Is(err, story.ErrEmptyPrompt):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		writeError(w, status, apiErr.Message)
	case errors.Is(err, llm.ErrNoContent):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		log.Printf("server: generation failed: %v", err)
		writeError(w, http.StatusBadGateway, err.Error())
	}
}

// quotaStatus is the body of GET /api/quota.
type quotaStatus struct {
	Limit     int `json:"limit"`
	Used      int `json:"used"`
	Remaining int `json:"remaining"`
}

func (s *Server) handleQuota(w http.ResponseWriter, r *http.Request) {
	user := userID(r)
	ctx := r.Context()

	used, err := s.quotas.Used(ctx, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	remaining, err := s.quotas.Remaining(ctx, user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, quotaStatus{
		Limit:     s.quotas.Limit(),
		Used:      used,
		Remaining: remaining,
	})
}
