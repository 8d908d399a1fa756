package http

import (
	"encoding/json"
	"io"
	"net/http"

	"chitieu/internal/log"
)

// update mirrors the slice of the Telegram Update payload the bot cares
// about. Everything else in the update is ignored.
type update struct {
	UpdateID int64 `json:"update_id"`
	Message  *struct {
		MessageID int64  `json:"message_id"`
		Text      string `json:"text"`
		Chat      struct {
			ID int64 `json:"id"`
		} `json:"chat"`
	} `json:"message"`
}

// handleWebhook receives one Telegram update per request. It always answers
// 200 for well-formed updates; a non-2xx reply would make Telegram redeliver
// the same update and double-book the entry.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	logger := log.FromContext(r.Context())

	var u update
	body := io.LimitReader(r.Body, 1<<20)
	if err := json.NewDecoder(body).Decode(&u); err != nil {
		logger.WarnContext(r.Context(), "Malformed webhook payload",
			log.FieldError, err,
			"error_type", log.ErrorTypeValidation)
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if u.Message == nil || u.Message.Text == "" {
		// Edits, stickers, photos: nothing to interpret.
		logger.DebugContext(r.Context(), "Ignoring update without message text",
			"update_id", u.UpdateID)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
		return
	}

	logger.InfoContext(r.Context(), "Processing Telegram update",
		"update_id", u.UpdateID,
		log.FieldChatID, u.Message.Chat.ID)

	s.processor.ProcessMessage(r.Context(), u.Message.Text)

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleStatus exposes lightweight operational counters.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	traceMetrics := s.traceMW.GetMetrics()
	securityMetrics := s.detector.GetMetrics()

	status := map[string]any{
		"requests_total":      traceMetrics.TotalRequests,
		"avg_response_us":     traceMetrics.AverageResponseTime,
		"rate_limit_clients":  s.rateLimiter.ActiveClients(),
		"suspicious_requests": securityMetrics.SuspiciousRequests,
		"cached_reports":      s.processor.TotalsCache().Size(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Failed to encode status",
			log.FieldError, err)
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
