package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bobmcallan/polyfolio/internal/clients/polymarket"
	"github.com/bobmcallan/polyfolio/internal/services/wallet"
)

// Error codes returned in ErrorResponse.Code
const (
	CodeMissingUser = "missing_user"
	CodeUpstream    = "upstream_error"
	CodeInternal    = "internal_error"
	CodeNotFound    = "not_found"
)

// ErrorResponse is the standard error format for REST API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes a JSON error response.
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message})
}

// WriteErrorWithCode writes a JSON error response with an error code.
func WriteErrorWithCode(w http.ResponseWriter, statusCode int, message, code string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Code: code})
}

// WriteServiceError maps a client or service error onto a response. Upstream
// API errors keep their status code; a missing user is a 400; anything else
// is a 500.
func WriteServiceError(w http.ResponseWriter, action string, err error) {
	if errors.Is(err, wallet.ErrUserRequired) {
		WriteErrorWithCode(w, http.StatusBadRequest, wallet.ErrUserRequired.Error(), CodeMissingUser)
		return
	}

	var apiErr *polymarket.APIError
	if errors.As(err, &apiErr) {
		status := apiErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		WriteJSON(w, status, ErrorResponse{
			Error:   fmt.Sprintf("API error: %d", apiErr.StatusCode),
			Code:    CodeUpstream,
			Details: apiErr.Message,
		})
		return
	}

	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "Failed to " + action,
		Code:    CodeInternal,
		Details: err.Error(),
	})
}

// RequireMethod validates the HTTP method and returns true if it matches.
// If it doesn't match, it writes a 405 response and returns false.
func RequireMethod(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	w.Header().Set("Allow", strings.Join(methods, ", "))
	WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// RequireUser returns the trimmed "user" query parameter. When it is absent
// a 400 is written and ok is false.
func RequireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	user := strings.TrimSpace(r.URL.Query().Get("user"))
	if user == "" {
		WriteErrorWithCode(w, http.StatusBadRequest, wallet.ErrUserRequired.Error(), CodeMissingUser)
		return "", false
	}
	return user, true
}

// QueryInt reads an integer query parameter. Missing or malformed values
// yield def.
func QueryInt(r *http.Request, name string, def int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// QueryBool reads an optional boolean query parameter; nil when absent or
// not a boolean.
func QueryBool(r *http.Request, name string) *bool {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &b
}

// PathParam extracts a path parameter from the URL path.
// For a pattern like /api/wallets/{address}/positions, calling
// PathParam(r, "/api/wallets/", "/positions") extracts the {address} part.
func PathParam(r *http.Request, prefix, suffix string) string {
	path := r.URL.Path
	if !strings.HasPrefix(path, prefix) {
		return ""
	}
	rest := path[len(prefix):]
	if suffix != "" {
		idx := strings.Index(rest, suffix)
		if idx < 0 {
			return rest
		}
		return rest[:idx]
	}
	if idx := strings.Index(rest, "/"); idx >= 0 {
		return rest[:idx]
	}
	return rest
}
