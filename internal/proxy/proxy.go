package proxy

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/inkwell-app/inkwell/internal/llm"
)

// Handler forwards completion requests to the upstream API with the
// server-side credential injected, so browser clients never see the key.
// The request and response bodies pass through verbatim.
type Handler struct {
	upstreamURL string
	apiKey      string
	siteURL     string
	appTitle    string
	client      *http.Client
}

// New creates a proxy handler. upstreamURL defaults to the OpenRouter
// chat completions endpoint.
func New(apiKey, upstreamURL, siteURL, appTitle string) *Handler {
	if upstreamURL == "" {
		upstreamURL = llm.DefaultBaseURL + "/chat/completions"
	}
	return &Handler{
		upstreamURL: upstreamURL,
		apiKey:      apiKey,
		siteURL:     siteURL,
		appTitle:    appTitle,
		client:      &http.Client{Timeout: 120 * time.Second},
	}
}

// RegisterRoutes mounts the proxy endpoint. CORS (including preflight) is
// handled by the router-level middleware.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/api/proxy/chat/completions", h.handleCompletions)
}

// upstreamError is the error envelope shape of the completion API.
type upstreamError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (h *Handler) handleCompletions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if h.apiKey == "" {
		log.Print("proxy: OPENROUTER_API_KEY is not set")
		writeError(w, http.StatusInternalServerError, "OpenRouter API key is not configured")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading request body failed")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodPost, h.upstreamURL, bytes.NewReader(body))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	req.Header.Set("Authorization", "Bearer "+h.apiKey)
	req.Header.Set("Content-Type", "application/json")
	referer := r.Referer()
	if referer == "" {
		referer = h.siteURL
	}
	req.Header.Set("HTTP-Referer", referer)
	req.Header.Set("X-Title", h.appTitle)

	resp, err := h.client.Do(req)
	if err != nil {
		log.Printf("proxy: upstream request failed: %v", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "reading upstream response failed")
		return
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := resp.Status
		var envelope upstreamError
		if json.Unmarshal(respBody, &envelope) == nil && envelope.Error.Message != "" {
			message = envelope.Error.Message
		}
		writeError(w, resp.StatusCode, message)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write(respBody)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
