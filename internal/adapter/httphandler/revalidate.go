package httphandler

import (
	"net/http"
	"time"

	"github.com/niksmo/storefront/internal/core/port"
)

// POST api/revalidate?secret= Headers x-topic (200 OK, 503 Service unavailable)

const topicHeader = "x-topic"

type RevalidateHandler struct {
	revalidator port.Revalidator
	now         func() time.Time
}

func RegisterRevalidate(mux *http.ServeMux, revalidator port.Revalidator) {
	h := RevalidateHandler{revalidator: revalidator, now: time.Now}
	mux.HandleFunc("POST /api/revalidate", h.PostRevalidate)
}

// PostRevalidate answers 200 whenever the request was understood, including
// a wrong secret, so the webhook sender does not retry.
func (h RevalidateHandler) PostRevalidate(w http.ResponseWriter, r *http.Request) {
	const op = "RevalidateHandler.PostRevalidate"
	log := requestLog(r, op)

	topic := r.Header.Get(topicHeader)
	secret := r.URL.Query().Get("secret")

	revalidated, err := h.revalidator.Revalidate(r.Context(), topic, secret)
	if err != nil {
		http.Error(w, "failed to revalidate", http.StatusServiceUnavailable)
		log.Error("failed to revalidate", "topic", topic, "err", err)
		return
	}

	res := RevalidateResult{Status: http.StatusOK}
	if revalidated {
		res.Revalidated = true
		res.Now = h.now().UnixMilli()
	}
	writeJSON(w, log, http.StatusOK, res)
}
