package mockcore

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Dedezuli/mocha-API-sub002/pkg/newcore"
)

type contextKeySubject struct{}

// subjectFrom returns the token subject set by requireToken.
func subjectFrom(ctx context.Context) string {
	sub, _ := ctx.Value(contextKeySubject{}).(string)
	return sub
}

// requestLogger logs one line per request.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.DebugContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"request_id", chimw.GetReqID(r.Context()),
				"duration", time.Since(start),
			)
		})
	}
}

// requireSignature checks the new-core key and HMAC signature. An empty key
// disables the check.
func (s *Server) requireSignature(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		key := r.Header.Get(newcore.HeaderKey)
		ts := r.Header.Get(newcore.HeaderTimestamp)
		sig := r.Header.Get(newcore.HeaderSignature)
		if key != s.apiKey || ts == "" || !newcore.VerifySignature(key, s.apiSecret, ts, sig) {
			s.logger.WarnContext(r.Context(), "rejected request signature",
				"path", r.URL.Path,
				"request_id", chimw.GetReqID(r.Context()),
			)
			writeError(w, http.StatusUnauthorized, "invalid signature")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireToken validates X-Investree-Token and checks its role.
func (s *Server) requireToken(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			claims, err := s.tokens.Validate(r.Header.Get(newcore.HeaderToken))
			if err != nil {
				s.logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", chimw.GetReqID(ctx),
				)
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			if claims.Role != role {
				writeError(w, http.StatusForbidden, "token role not allowed")
				return
			}
			ctx = context.WithValue(ctx, contextKeySubject{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
