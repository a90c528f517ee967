package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"cardtrack/internal/card"
	"cardtrack/internal/logger"
	"cardtrack/internal/pricing"

	"go.uber.org/zap"
)

type quoteResponse struct {
	OK    bool          `json:"ok"`
	Quote pricing.Quote `json:"quote"`
	Meta  *pricing.Meta `json:"meta,omitempty"`
}

type batchRequest struct {
	Items []card.Query `json:"items"`
}

type batchResponse struct {
	OK      bool            `json:"ok"`
	Quotes  []pricing.Quote `json:"quotes"`
	Limited bool            `json:"limited,omitempty"`
}

func (h *handler) prices(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getPrice(w, r)
	case http.MethodPost:
		h.postPrices(w, r)
	default:
		methodNotAllowed(w, "GET, POST, OPTIONS")
	}
}

func (h *handler) debug(r *http.Request) bool {
	return h.deps.Debug || r.URL.Query().Get("debug") == "1"
}

func (h *handler) getPrice(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := card.Query{
		ID:        qs.Get("id"),
		Name:      qs.Get("name"),
		Set:       qs.Get("set"),
		Number:    qs.Get("number"),
		Condition: qs.Get("condition"),
	}
	if !q.HasName() {
		writeError(w, http.StatusBadRequest, pricing.ErrMissingName.Error())
		return
	}

	res := h.deps.Resolver.Resolve(r.Context(), q, pricing.Options{Debug: h.debug(r)})
	writeJSON(w, http.StatusOK, quoteResponse{OK: true, Quote: res.Quote, Meta: res.Meta})
}

func (h *handler) postPrices(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.deps.Log)

	var body batchRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	out, err := h.deps.Batcher.Resolve(r.Context(), body.Items, pricing.Options{Debug: h.debug(r)})
	if err != nil {
		// Only validation fails a batch.
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if out.Limited {
		log.Warn("batch served with fallback prices after upstream throttling", zap.Int("items", len(body.Items)))
	}
	writeJSON(w, http.StatusOK, batchResponse{OK: true, Quotes: out.Quotes, Limited: out.Limited})
}
