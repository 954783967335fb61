package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"flyai/internal/history"
	"flyai/internal/travel"
	"flyai/pkg/logging/logging"
)

type TravelProvider interface {
	SearchAirports(ctx context.Context, keyword string) []travel.Airport
	SearchFlights(ctx context.Context, q travel.FlightQuery) (travel.FlightOffers, error)
}

// FlightsHandler serves flight search, airport autocomplete and search history.
type FlightsHandler struct {
	travel  TravelProvider
	history history.Store
}

func NewFlightsHandler(travel TravelProvider, history history.Store) *FlightsHandler {
	return &FlightsHandler{travel: travel, history: history}
}

type flightSearchError struct {
	Success    bool            `json:"success"`
	Error      string          `json:"error"`
	StatusCode *int            `json:"status_code"`
	Detail     json.RawMessage `json:"detail"`
}

// SearchFlights handles GET /search_flights?from_airport&to_airport&date&adults.
// The search is recorded in history before the provider is called.
func (h *FlightsHandler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.L(ctx)
	qs := r.URL.Query()

	q := travel.FlightQuery{
		Origin:      strings.ToUpper(strings.TrimSpace(qs.Get("from_airport"))),
		Destination: strings.ToUpper(strings.TrimSpace(qs.Get("to_airport"))),
		Date:        strings.TrimSpace(qs.Get("date")),
		Adults:      1,
	}
	if q.Origin == "" || q.Destination == "" || q.Date == "" {
		writeError(w, http.StatusBadRequest, "from_airport, to_airport and date are required")
		return
	}
	if raw := qs.Get("adults"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 9 {
			writeError(w, http.StatusBadRequest, "adults must be a number between 1 and 9")
			return
		}
		q.Adults = n
	}

	if _, err := h.history.Record(ctx, history.SearchQuery{
		Origin:      q.Origin,
		Destination: q.Destination,
		Date:        q.Date,
		Adults:      q.Adults,
	}); err != nil {
		logger.Warn("failed to record search history", zap.Error(err))
	}

	offers, err := h.travel.SearchFlights(ctx, q)
	if err != nil {
		resp := flightSearchError{Error: err.Error()}
		var ue *travel.UpstreamError
		if errors.As(err, &ue) {
			if ue.StatusCode != 0 {
				code := ue.StatusCode
				resp.StatusCode = &code
			}
			resp.Detail = ue.Detail
		}
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"flights": offers,
	})
}

// Airports handles GET /airports?q=.
func (h *FlightsHandler) Airports(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, http.StatusBadRequest, "missing required query parameter: q")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"airports": h.travel.SearchAirports(r.Context(), q),
	})
}

type saveSearchRequest struct {
	From   string `json:"from_airport"`
	To     string `json:"to_airport"`
	Date   string `json:"date"`
	Adults int    `json:"adults"`
}

// SaveSearch handles POST /save_search. Fields come from the query string,
// or from a JSON body when the query string is empty.
func (h *FlightsHandler) SaveSearch(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	req := saveSearchRequest{
		From: qs.Get("from_airport"),
		To:   qs.Get("to_airport"),
		Date: qs.Get("date"),
	}
	if req.From == "" && req.To == "" && req.Date == "" && r.ContentLength != 0 {
		// an empty chunked body is the same as no body
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	if strings.TrimSpace(req.From) == "" || strings.TrimSpace(req.To) == "" || strings.TrimSpace(req.Date) == "" {
		writeError(w, http.StatusBadRequest, "from_airport, to_airport and date are required")
		return
	}

	saved, err := h.history.Record(r.Context(), history.SearchQuery{
		Origin:      strings.ToUpper(strings.TrimSpace(req.From)),
		Destination: strings.ToUpper(strings.TrimSpace(req.To)),
		Date:        req.Date,
		Adults:      req.Adults,
	})
	if err != nil {
		logging.L(r.Context()).Error("failed to save search", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"search":  saved,
	})
}

// SearchHistory handles GET /search_history?limit=.
func (h *FlightsHandler) SearchHistory(w http.ResponseWriter, r *http.Request) {
	limit := history.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		limit = n
	}

	recent, err := h.history.Recent(r.Context(), limit)
	if err != nil {
		logging.L(r.Context()).Error("failed to load search history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_server_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"history": recent})
}
