package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-playground/validator/v10"

	"github.com/paperqa/paperqa/internal/api"
	"github.com/paperqa/paperqa/pkg/prompt"
	"github.com/paperqa/paperqa/pkg/types"
)

// Retriever yields the chunks a question is answered from.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]types.Chunk, error)
}

// Answerer turns a grounded prompt into a structured answer.
type Answerer interface {
	Ask(ctx context.Context, prompt string) types.QueryResponse
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Retriever Retriever
	LLM       Answerer
	TopK      int
	Logger    logr.Logger
	validate  *validator.Validate
}

func NewHandlers(retriever Retriever, llm Answerer, topK int, l logr.Logger) *Handlers {
	return &Handlers{
		Retriever: retriever,
		LLM:       llm,
		TopK:      topK,
		Logger:    l,
		validate:  validator.New(),
	}
}

// HandleAskPaper answers POST /ask-paper.
func (h *Handlers) HandleAskPaper(w http.ResponseWriter, r *http.Request) {
	var request types.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON in request body")
		return
	}
	request.Query = strings.TrimSpace(request.Query)
	if err := h.validate.Struct(&request); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "query is required")
		return
	}

	ctx := r.Context()
	chunks, err := h.Retriever.Retrieve(ctx, request.Query, h.TopK)
	if err != nil {
		h.Logger.Error(err, "Retrieval failed", "query", request.Query)
		writeError(w, http.StatusInternalServerError, "retrieval_failed", "Failed to search the knowledge base")
		return
	}

	response := h.LLM.Ask(ctx, prompt.Build(request.Query, chunks))
	writeJSON(w, http.StatusOK, response)
}

// HandlePing answers GET /ping.
func (h *Handlers) HandlePing(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, api.ErrorResponse{Error: code, Message: message})
}
