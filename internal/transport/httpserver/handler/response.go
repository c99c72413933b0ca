package handler

import (
	"encoding/json"
	"net/http"
)

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type dataEnvelope struct {
	Data interface{} `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, dataEnvelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Error: message})
}

// writeInternal keeps 500 bodies generic; the underlying error text is only
// attached outside production.
func (h *Handlers) writeInternal(w http.ResponseWriter, message string, err error) {
	envelope := errorEnvelope{Error: message}
	if h.exposeErrors && err != nil {
		envelope.Message = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, envelope)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
