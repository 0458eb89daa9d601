package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nikolayk812/storefront/internal/assistant"
)

const assistantFailedReply = "Server error. Please try again later."

type askHandler struct {
	asker Asker
	log   *slog.Logger
}

type askRequest struct {
	UserQuestion string `json:"userQuestion"`
}

type askResponse struct {
	Reply string `json:"reply"`
}

// POST /api/ask
func (h *askHandler) Ask(w http.ResponseWriter, r *http.Request) {
	if h.asker == nil {
		respondJSON(w, http.StatusServiceUnavailable, askResponse{Reply: "The assistant is not available."})
		return
	}

	var req askRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}

	reply, err := h.asker.Ask(r.Context(), req.UserQuestion)
	if err != nil {
		if errors.Is(err, assistant.ErrEmptyQuestion) {
			respondError(w, http.StatusBadRequest, "empty_question", err.Error())
			return
		}

		h.log.Error("assistant failed",
			"method", "askHandler.Ask",
			"err", err)
		respondJSON(w, http.StatusInternalServerError, askResponse{Reply: assistantFailedReply})
		return
	}

	respondJSON(w, http.StatusOK, askResponse{Reply: reply})
}
