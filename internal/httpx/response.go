package httpx

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// JSON writes payload with the given status. Encoding happens before the
// status line so a marshal failure never produces partial JSON.
func JSON(w http.ResponseWriter, status int, payload any) {
	body := []byte("null")
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		_ = err // client gone, nothing to do
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}
