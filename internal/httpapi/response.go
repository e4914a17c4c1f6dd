package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/idilsaglam/snaptodo/internal/logger"
)

// envelope is the body of every JSON response. Only one field is set.
type envelope struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondData(w http.ResponseWriter, status int, data any) {
	writeEnvelope(w, status, envelope{Data: data})
}

// respondAccepted answers a write that the controller runs in the background.
func respondAccepted(w http.ResponseWriter) {
	writeEnvelope(w, http.StatusAccepted, envelope{Message: "accepted"})
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeEnvelope(w, status, envelope{Error: err.Error()})
}

func writeEnvelope(w http.ResponseWriter, status int, body envelope) {
	buf, err := json.Marshal(body)
	if err != nil {
		logger.ErrorWithStack(errors.Wrap(err, "encode response"))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	if _, err := w.Write(append(buf, '\n')); err != nil {
		log.Debug().Err(err).Int("status", status).Msg("write response")
	}
}
