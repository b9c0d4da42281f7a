/*
handlers.go - HTTP handler context and auth endpoints

PURPOSE:
  Exposes the life-ledger services via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS (auth):
  POST /api/auth/register   Create an account, returns token + user
  POST /api/auth/login      Exchange credentials for token + user
  GET  /api/auth/verify     Validate a bearer token, returns the user

ARCHITECTURE:
  Handler struct holds all service dependencies:
  - Auth:        Registration, login, token verification
  - Activities:  Tasks, goals, priorities, routines
  - Finance:     Transactions, categories, goals, monthly expenses
  - Health:      Metrics, goals, insights
  - Development: Plans, milestones, habits, skills

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 401: Missing/invalid credentials or token
  - 404: Record not found
  - 409: Duplicate email or CPF
  - 500: Storage and other internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - middleware.go: Bearer token middleware
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/mindflow/life-ledger/activity"
	"github.com/mindflow/life-ledger/auth"
	"github.com/mindflow/life-ledger/development"
	"github.com/mindflow/life-ledger/finance"
	"github.com/mindflow/life-ledger/generic"
	"github.com/mindflow/life-ledger/health"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Auth        *auth.Service
	Activities  *activity.Service
	Finance     *finance.Service
	Health      *health.Service
	Development *development.Service
}

// NewHandler creates a new handler with the given services.
func NewHandler(a *auth.Service, act *activity.Service, fin *finance.Service, h *health.Service, dev *development.Service) *Handler {
	return &Handler{
		Auth:        a,
		Activities:  act,
		Finance:     fin,
		Health:      h,
		Development: dev,
	}
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// RegisterUser creates an account.
// POST /api/auth/register
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var in auth.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}

	token, user, err := h.Auth.Register(r.Context(), in)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, AuthResponseDTO{Token: token, User: user})
}

// Login exchanges credentials for a token.
// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in LoginRequestDTO
	if !decodeJSON(w, r, &in) {
		return
	}

	token, user, err := h.Auth.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponseDTO{Token: token, User: user})
}

// VerifyToken validates the bearer token and returns its user.
// GET /api/auth/verify
func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Missing bearer token", nil)
		return
	}

	user, err := h.Auth.Verify(r.Context(), token)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, VerifyResponseDTO{Valid: true, User: user})
}

// Liveness reports service health.
// GET /api/health
func (h *Handler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// decodeJSON decodes the request body into dst, writing a 400 on failure.
// Returns false when the response has already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var conflict *auth.ConflictError
	switch {
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Validation failed", err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", nil)
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Invalid token", nil)
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, "Already registered", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
