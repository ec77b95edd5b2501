package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// Envelope is the wire format for every API response.
// Status is "success" or "fail"; Data always carries a "message" entry, which
// is either a string or a map of field names to violation messages.
type Envelope struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
}

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// Success sends a success envelope. Extra payload entries are merged into
// data next to the message.
func Success(w http.ResponseWriter, message string, payload map[string]any, statusCode int) {
	data := map[string]any{"message": message}
	for k, v := range payload {
		data[k] = v
	}
	RespondJSON(w, Envelope{Status: StatusSuccess, Data: data}, statusCode)
}

// Fail sends a fail envelope. The message is either a plain string or a
// map of field names to violation messages.
func Fail(w http.ResponseWriter, message any, statusCode int) {
	RespondJSON(w, Envelope{
		Status: StatusFail,
		Data:   map[string]any{"message": message},
	}, statusCode)
}
