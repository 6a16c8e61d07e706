package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/brandloop-labs/brandloop-core/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"connection not found"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// AccessTokenResponse carries a plaintext access token for immediate use.
// Callers must not persist it.
type AccessTokenResponse struct {
	ConnectionID string `json:"connection_id"`
	AccessToken  string `json:"access_token"`
}

// PlatformInfo describes one supported platform.
type PlatformInfo struct {
	Platform    domain.Platform `json:"platform"`
	DisplayName string          `json:"display_name"`
	Configured  bool            `json:"configured"`
}

// AuthStateResponse carries the per-attempt values for an authorization flow.
type AuthStateResponse struct {
	State         string `json:"state"`
	CodeVerifier  string `json:"code_verifier"`
	CodeChallenge string `json:"code_challenge"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (checks backing stores)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if s.redisClient != nil {
		if err := s.redisClient.Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "redis unavailable")
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Tags         Health
// @Produce      json
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Platform endpoints

// handleListPlatforms godoc
// @Summary      List supported platforms
// @Description  Returns every supported platform and whether app credentials are configured
// @Tags         Platforms
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  PlatformInfo
// @Router       /platforms [get]
func (s *Server) handleListPlatforms(w http.ResponseWriter, r *http.Request) {
	out := make([]PlatformInfo, 0, len(domain.AllPlatforms))
	for _, p := range domain.AllPlatforms {
		out = append(out, PlatformInfo{
			Platform:    p,
			DisplayName: p.DisplayName(),
			Configured:  s.configuredPlatforms[p],
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Connection endpoints

// handleGetConnection godoc
// @Summary      Get connection summary
// @Description  Returns connection state without any token material
// @Tags         Connections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Connection ID"
// @Success      200  {object}  domain.ConnectionSummary
// @Failure      404  {object}  ErrorResponse
// @Router       /connections/{id} [get]
func (s *Server) handleGetConnection(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	summary, err := s.tokenService.GetConnection(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "connection not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load connection")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// handleIssueToken godoc
// @Summary      Get a valid access token
// @Description  Returns a plaintext access token, refreshing it first if it is expiring
// @Tags         Connections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Connection ID"
// @Success      200  {object}  AccessTokenResponse
// @Failure      404  {object}  ErrorResponse  "Connection not found"
// @Failure      409  {object}  ErrorResponse  "Connection unusable without re-authorization"
// @Failure      502  {object}  ErrorResponse  "Provider rejected the refresh"
// @Router       /connections/{id}/token [post]
func (s *Server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	token, err := s.tokenService.GetValidAccessToken(r.Context(), id)
	if err != nil {
		writeTokenError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AccessTokenResponse{
		ConnectionID: id,
		AccessToken:  token,
	})
}

// handleForceRefresh godoc
// @Summary      Force a token refresh
// @Description  Performs a refresh exchange regardless of stored expiry and returns the updated connection
// @Tags         Connections
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Connection ID"
// @Success      200  {object}  domain.ConnectionSummary
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      502  {object}  ErrorResponse
// @Router       /connections/{id}/refresh [post]
func (s *Server) handleForceRefresh(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	conn, err := s.tokenService.RefreshConnection(r.Context(), id)
	if err != nil {
		writeTokenError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, conn.ToSummary())
}

// OAuth flow support

// handleAuthState godoc
// @Summary      Generate authorization-flow values
// @Description  Returns a fresh anti-CSRF state and PKCE verifier/challenge pair
// @Tags         OAuth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  AuthStateResponse
// @Router       /oauth/state [post]
func (s *Server) handleAuthState(w http.ResponseWriter, r *http.Request) {
	state, err := s.stateService.GenerateState()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "state generation failed")
		return
	}

	pkce, err := s.stateService.GeneratePKCE()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "pkce generation failed")
		return
	}

	writeJSON(w, http.StatusOK, AuthStateResponse{
		State:         state,
		CodeVerifier:  pkce.Verifier,
		CodeChallenge: pkce.Challenge,
	})
}

// writeTokenError maps token-service failures to API status codes.
// Refresh failures have already been persisted by the service; this is
// presentation only.
func writeTokenError(w http.ResponseWriter, err error) {
	var exchErr *domain.RefreshExchangeError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "connection not found")
	case errors.Is(err, domain.ErrConnectionInactive):
		writeError(w, http.StatusConflict, "connection is inactive and needs re-authorization")
	case errors.Is(err, domain.ErrMissingRefreshToken):
		writeError(w, http.StatusConflict, "connection has no refresh token; re-authorization required")
	case errors.As(err, &exchErr):
		writeError(w, http.StatusBadGateway, exchErr.Error())
	default:
		writeError(w, http.StatusInternalServerError, "token operation failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
