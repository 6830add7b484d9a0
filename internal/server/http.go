package server

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"strings"
)

// NewHTTPHandler returns an http.Handler with all routes registered.
// When authToken is non-empty, requests (except GET /v1/health) must include
// a valid Authorization: Bearer <token> header.
func (s *FarmServer) NewHTTPHandler(authToken string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/fire-zones", s.handleCreateFireZone)
	mux.HandleFunc("GET /v1/fire-zones", s.handleListFireZones)
	mux.HandleFunc("GET /v1/fire-zones/{id}", s.handleGetFireZone)
	mux.HandleFunc("PATCH /v1/fire-zones/{id}", s.handleUpdateFireZone)
	mux.HandleFunc("DELETE /v1/fire-zones/{id}", s.handleDeleteFireZone)

	mux.HandleFunc("POST /v1/security-points", s.handleCreateSecurityPoint)
	mux.HandleFunc("GET /v1/security-points", s.handleListSecurityPoints)
	mux.HandleFunc("GET /v1/security-points/{id}", s.handleGetSecurityPoint)
	mux.HandleFunc("PATCH /v1/security-points/{id}", s.handleUpdateSecurityPoint)
	mux.HandleFunc("DELETE /v1/security-points/{id}", s.handleDeleteSecurityPoint)

	mux.HandleFunc("POST /v1/team-members", s.handleCreateTeamMember)
	mux.HandleFunc("GET /v1/team-members", s.handleListTeamMembers)
	mux.HandleFunc("GET /v1/team-members/{id}", s.handleGetTeamMember)
	mux.HandleFunc("PATCH /v1/team-members/{id}", s.handleUpdateTeamMember)
	mux.HandleFunc("DELETE /v1/team-members/{id}", s.handleDeleteTeamMember)

	mux.HandleFunc("POST /v1/notifications", s.handleCreateNotification)
	mux.HandleFunc("GET /v1/notifications", s.handleListNotifications)
	mux.HandleFunc("POST /v1/notifications/{id}/read", s.handleMarkNotificationRead)
	mux.HandleFunc("DELETE /v1/notifications/{id}", s.handleDeleteNotification)

	mux.HandleFunc("POST /v1/map-configs", s.handleCreateMapConfig)
	mux.HandleFunc("GET /v1/map-configs", s.handleListMapConfigs)
	mux.HandleFunc("GET /v1/map-configs/{id}", s.handleGetMapConfig)
	mux.HandleFunc("PATCH /v1/map-configs/{id}", s.handleUpdateMapConfig)
	mux.HandleFunc("DELETE /v1/map-configs/{id}", s.handleDeleteMapConfig)

	mux.HandleFunc("POST /v1/live-feeds", s.handleCreateLiveFeed)
	mux.HandleFunc("GET /v1/live-feeds", s.handleListLiveFeeds)
	mux.HandleFunc("GET /v1/live-feeds/{id}", s.handleGetLiveFeed)
	mux.HandleFunc("PATCH /v1/live-feeds/{id}", s.handleUpdateLiveFeed)
	mux.HandleFunc("DELETE /v1/live-feeds/{id}", s.handleDeleteLiveFeed)
	mux.HandleFunc("POST /v1/live-feeds/{id}/heartbeat", s.handleFeedHeartbeat)
	mux.HandleFunc("GET /v1/live-feeds/roster", s.handleFeedRoster)

	mux.HandleFunc("GET /v1/events/stream", s.handleEventStream)
	mux.HandleFunc("GET /v1/health", s.handleHealth)

	return AuthMiddleware(authToken, mux)
}

// handleHealth handles GET /v1/health.
func (s *FarmServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AuthMiddleware wraps an http.Handler and checks the Authorization header for
// a valid Bearer token. When token is empty, auth is disabled and all requests
// pass through. GET /v1/health is always exempt.
func AuthMiddleware(token string, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Exempt health check.
		if r.Method == http.MethodGet && r.URL.Path == "/v1/health" {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		if auth == "" {
			writeError(w, http.StatusUnauthorized, "missing authorization header")
			return
		}

		if !strings.HasPrefix(auth, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "invalid authorization scheme")
			return
		}

		provided := strings.TrimPrefix(auth, "Bearer ")
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
