package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"musehub/core/auth"
	"musehub/core/modfeed"
	"musehub/core/royalty"
	"musehub/logger"
	"musehub/storage"
	"musehub/store"
)

type contextKey string

const (
	callerContextKey    contextKey = "caller"
	requestIDContextKey contextKey = "requestId"
)

// APIHandler bundles the dependencies of all HTTP handlers.
type APIHandler struct {
	store     *store.Store
	hub       *modfeed.Hub
	files     *storage.TrackFiles // nil when object storage is not configured
	jwtSecret string
}

// NewAPIHandler creates the handler set.
func NewAPIHandler(st *store.Store, hub *modfeed.Hub, files *storage.TrackFiles, jwtSecret string) *APIHandler {
	return &APIHandler{store: st, hub: hub, files: files, jwtSecret: jwtSecret}
}

// AuthMiddleware extracts the caller identity from the Bearer token and
// stores it in the request context. Requests without a valid token are
// rejected.
func (h *APIHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := auth.ParseToken(h.jwtSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		caller := store.Caller{UserID: claims.UserID, Admin: claims.Admin}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), callerContextKey, caller)))
	})
}

// callerFrom returns the authenticated caller, zero value when the request
// skipped the auth middleware.
func callerFrom(r *http.Request) store.Caller {
	caller, _ := r.Context().Value(callerContextKey).(store.Caller)
	return caller
}

// RequestIDMiddleware assigns every request a uuid, echoed in the
// X-Request-Id response header and attached to access logs.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoggingMiddleware writes one access log line per request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		requestID, _ := r.Context().Value(requestIDContextKey).(string)
		logger.Debug("http request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("requestId", requestID))
	})
}

// CORSMiddleware applies the permissive CORS policy used by the web client.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Error("failed to encode response", logger.ErrorField(err))
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondStoreError maps store error kinds onto HTTP status codes.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrUnauthorized):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, royalty.ErrNoSplits):
		respondError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("internal error", logger.ErrorField(err))
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

// pathID parses a uint64 path variable.
func pathID(r *http.Request, name string) (uint64, error) {
	return strconv.ParseUint(mux.Vars(r)[name], 10, 64)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
