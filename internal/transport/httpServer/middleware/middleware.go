package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/GetTogetherComm/GetTogether/internal/utils"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID returns the authenticated user's id, or uuid.Nil on public routes.
func UserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(userIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// NewLogger logs every request with method, path, status and duration.
func NewLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			log.Info("request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", recorder.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// NewAuth guards mutating endpoints. The bearer token's "sub" claim carries
// the user id that attendance and authorship records point at.
func NewAuth(log *slog.Logger, secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found {
				utils.Err(w, http.StatusUnauthorized, fmt.Errorf("missing bearer token"))
				return
			}

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				log.Warn("rejected token", slog.String("path", r.URL.Path))
				utils.Err(w, http.StatusUnauthorized, fmt.Errorf("invalid token"))
				return
			}

			subject, err := token.Claims.GetSubject()
			if err != nil {
				utils.Err(w, http.StatusUnauthorized, fmt.Errorf("token has no subject"))
				return
			}
			userID, err := uuid.Parse(subject)
			if err != nil {
				utils.Err(w, http.StatusUnauthorized, fmt.Errorf("invalid subject"))
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
