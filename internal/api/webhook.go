package api

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"cardtrack/internal/logger"

	"go.uber.org/zap"
)

// WebhookConfig holds the values registered with eBay for marketplace
// account deletion notifications.
type WebhookConfig struct {
	VerificationToken string
	// Endpoint is the exact public URL eBay calls.
	Endpoint string
}

// ChallengeResponse answers eBay's endpoint validation:
// hex(sha256(challengeCode + verificationToken + endpoint)).
func ChallengeResponse(challengeCode, verificationToken, endpoint string) string {
	sum := sha256.Sum256([]byte(challengeCode + verificationToken + endpoint))
	return hex.EncodeToString(sum[:])
}

type challengeBody struct {
	ChallengeResponse string `json:"challengeResponse"`
}

func (h *handler) ebayWebhook(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.deps.Log)

	switch {
	case r.Method == http.MethodGet && r.URL.Query().Get("challenge_code") != "":
		cfg := h.deps.Webhook
		if cfg.VerificationToken == "" || cfg.Endpoint == "" {
			log.Error("eBay challenge received but verification token or endpoint is not configured")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server not configured for eBay challenge"})
			return
		}
		code := r.URL.Query().Get("challenge_code")
		writeJSON(w, http.StatusOK, challengeBody{ChallengeResponse: ChallengeResponse(code, cfg.VerificationToken, cfg.Endpoint)})

	case r.Method == http.MethodPost:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			log.Warn("reading eBay notification", zap.Error(err))
		}
		log.Info("eBay notification",
			zap.Any("headers", r.Header),
			zap.ByteString("body", body),
		)
		w.WriteHeader(http.StatusOK)

	default:
		methodNotAllowed(w, "GET, POST")
	}
}
