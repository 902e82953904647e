package guard

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/wardcore/wardcore/pkg/middleware/auth"
	"github.com/wardcore/wardcore/pkg/middleware/logger"
	"github.com/wardcore/wardcore/pkg/middleware/metrics"
	"go.uber.org/zap"
)

const (
	ReasonUnauthenticated = "unauthenticated"
	ReasonForbidden       = "forbidden"
)

// package-level singleton for the denial audit trail.
var denialLogger = logger.NewLog("pipeline-denials.log")

// SetDenialLogger lets tests/CLIs override the denial logger (optional).
func SetDenialLogger(l *zap.Logger) {
	if l != nil {
		denialLogger = l
	}
}

func denyUnauthenticated(w http.ResponseWriter, r *http.Request, a *auth.Middleware, ref string) {
	recordDenial(r, a, ref, ReasonUnauthenticated)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthenticated"}`))
}

func denyForbidden(w http.ResponseWriter, r *http.Request, a *auth.Middleware, ref string) {
	recordDenial(r, a, ref, ReasonForbidden)
	http.Error(w, "Forbidden", http.StatusForbidden)
}

func recordDenial(r *http.Request, a *auth.Middleware, ref, reason string) {
	metrics.RecordDenial(reason, ref)

	actor := ""
	var roles []string
	if a != nil {
		u := a.GetActor(r.Context())
		actor = u.Username
		roles = u.Roles
	}
	denialLogger.Info("",
		zap.String("eventId", uuid.NewString()),
		zap.String("reason", reason),
		zap.String("middleware", ref),
		zap.String("actor", actor),
		zap.Strings("roles", roles),
		zap.String("httpMethod", r.Method),
		zap.String("uri", r.URL.Path),
		zap.String("remoteAddr", r.RemoteAddr),
	)
}
