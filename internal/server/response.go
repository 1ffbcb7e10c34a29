package server

import (
	"encoding/json"
	"net/http"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
)

// Response represents a standard API response.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}

// writeSuccess writes a success envelope.
func writeSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

// writeError maps err to a status and writes an error envelope. Internal
// errors are logged and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := kerrors.HTTPStatus(err)
	msg := kerrors.UserMessage(err)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		if kerrors.GetCode(err) == "" {
			msg = "internal error"
		}
	}

	code := string(kerrors.GetCode(err))
	if code == "" {
		code = string(kerrors.ErrCodeInternal)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Success: false, Error: msg, Code: code})
}
