// internal/controller/middleware.go
package controller

import (
	"context"
	"encoding/json"
	"net/http"

	appErrors "github.com/unclebandit/broadcast-backend/internal/errors"
)

type contextKey string

const actorKey contextKey = "actor"

// RequireOperator guards the authenticated surface. Identity issuance is
// external; the upstream auth layer sets X-Actor-Id and X-Actor-Role and
// this middleware only enforces their presence and role.
func RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID := r.Header.Get("X-Actor-Id")
		if actorID == "" {
			writeErrorMessage(w, http.StatusUnauthorized, "missing actor identity")
			return
		}

		role := r.Header.Get("X-Actor-Role")
		if role != "operator" && role != "admin" {
			writeErrorMessage(w, http.StatusForbidden, "operator role required")
			return
		}

		ctx := context.WithValue(r.Context(), actorKey, actorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorID returns the authenticated actor id set by RequireOperator.
func ActorID(r *http.Request) string {
	if v, ok := r.Context().Value(actorKey).(string); ok {
		return v
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// writeError maps the error taxonomy to HTTP statuses. Every kinded error
// carries its kind in the body so clients can branch without parsing text.
func writeError(w http.ResponseWriter, err error) {
	kind := appErrors.KindOf(err)

	status := http.StatusInternalServerError
	switch kind {
	case appErrors.KindValidation, appErrors.KindInvalidAudience,
		appErrors.KindNoRecipients, appErrors.KindNotSupported:
		status = http.StatusBadRequest
	case appErrors.KindNotFound:
		status = http.StatusNotFound
	case appErrors.KindIllegalTransition, appErrors.KindAlreadySent, appErrors.KindAlreadySending:
		status = http.StatusConflict
	case appErrors.KindDelivery:
		status = http.StatusBadGateway
	}

	body := map[string]any{"error": err.Error()}
	if kind != "" {
		body["kind"] = string(kind)
	}
	writeJSON(w, status, body)
}
