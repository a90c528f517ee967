package api

import (
	"net/http"
	"time"

	"cardtrack/internal/pricing"

	"go.uber.org/zap"
)

// Deps are the collaborators the HTTP surface needs.
type Deps struct {
	Resolver *pricing.Resolver
	Batcher  *pricing.Batcher
	Webhook  WebhookConfig
	// Debug attaches diagnostics to every quote, as if ?debug=1 were set.
	Debug bool
	Log   *zap.Logger
	Now   func() time.Time
}

type handler struct {
	deps Deps
}

type helloResponse struct {
	OK      bool      `json:"ok"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// NewHandler returns the full CardTrack HTTP API with its middleware chain.
func NewHandler(d Deps) http.Handler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	h := &handler{deps: d}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/hello", h.hello)
	mux.HandleFunc("/prices", h.prices)
	mux.HandleFunc("/ebay/webhook", h.ebayWebhook)

	var next http.Handler = mux
	next = limitBody(next)
	next = recoverPanic(d.Log)(next)
	next = withGzip(next)
	next = withJSONHeaders(next)
	next = withCorrelation(d.Log)(next)
	return next
}

func (h *handler) hello(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}
	writeJSON(w, http.StatusOK, helloResponse{
		OK:      true,
		Message: "Hello from CardTrack",
		Time:    h.deps.Now().UTC(),
	})
}
