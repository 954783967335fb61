package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"flyai/internal/answer"
	"flyai/internal/intent"
	"flyai/pkg/logging/logging"
)

type Answerer interface {
	Answer(ctx context.Context, prompt string) (string, error)
}

type Classifier interface {
	Classify(ctx context.Context, prompt string) (intent.Result, error)
}

// AskHandler serves the plain and the intent-routed question endpoints.
type AskHandler struct {
	answers    Answerer
	classifier Classifier
}

func NewAskHandler(answers Answerer, classifier Classifier) *AskHandler {
	return &AskHandler{answers: answers, classifier: classifier}
}

type askResponse struct {
	Answer string `json:"answer"`
}

// smartAskResponse is {"type":"search_flight",...} or {"type":"chat","message":...}.
type smartAskResponse struct {
	Type        intent.Kind `json:"type"`
	Origin      *string     `json:"origin,omitempty"`
	Destination *string     `json:"destination,omitempty"`
	Date        *string     `json:"date"`
	Message     string      `json:"message"`
}

// Ask handles GET /ask?question=.
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	question, ok := requireQuestion(w, r)
	if !ok {
		return
	}

	text, err := h.answers.Answer(r.Context(), question)
	if err != nil {
		if errors.Is(err, answer.ErrEmptyPrompt) {
			writeError(w, http.StatusBadRequest, "question must not be empty")
			return
		}
		writeModelError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, askResponse{Answer: text})
}

// SmartAsk handles GET /smart_ask?question=.
func (h *AskHandler) SmartAsk(w http.ResponseWriter, r *http.Request) {
	question, ok := requireQuestion(w, r)
	if !ok {
		return
	}

	res, err := h.classifier.Classify(r.Context(), question)
	if err != nil {
		if errors.Is(err, answer.ErrEmptyPrompt) {
			writeError(w, http.StatusBadRequest, "question must not be empty")
			return
		}
		writeModelError(w, r, err)
		return
	}

	switch v := res.(type) {
	case intent.FlightSearch:
		logging.L(r.Context()).Info("smart_ask routed to flight search",
			zap.String("origin", v.Origin),
			zap.String("destination", v.Destination),
		)
		writeJSON(w, http.StatusOK, smartAskResponse{
			Type:        intent.KindSearchFlight,
			Origin:      &v.Origin,
			Destination: &v.Destination,
			Date:        v.Date,
			Message:     v.Message(),
		})
	case intent.Chat:
		writeJSON(w, http.StatusOK, map[string]string{
			"type":    string(intent.KindChat),
			"message": v.Message,
		})
	default:
		writeError(w, http.StatusInternalServerError, "internal_server_error")
	}
}

func requireQuestion(w http.ResponseWriter, r *http.Request) (string, bool) {
	question := r.URL.Query().Get("question")
	if strings.TrimSpace(question) == "" {
		writeError(w, http.StatusBadRequest, "missing required query parameter: question")
		return "", false
	}
	return question, true
}
