package httputils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"versu/versu/utils/logging"

	"go.uber.org/zap"
)

// Matches the JSON body limit the dashboard was built against.
const maxBodyBytes = 10 << 20

// Response is the envelope every REST endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.ErrorLogger.Error("failed to encode response", zap.Error(err))
	}
}

func Success(w http.ResponseWriter, status int, data any, message string) {
	WriteJSON(w, status, Response{Success: true, Data: data, Message: message})
}

func Fail(w http.ResponseWriter, status int, errMsg, message string) {
	WriteJSON(w, status, Response{Success: false, Error: errMsg, Message: message})
}

// DecodeJSON reads exactly one JSON object from the request body. An empty body decodes
// to the zero value.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("invalid JSON body: unexpected data after the first object")
	}
	return nil
}
