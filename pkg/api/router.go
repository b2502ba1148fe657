package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dskvich/gigachat-telegram-bot/pkg/api/handler"
	"github.com/dskvich/gigachat-telegram-bot/pkg/api/response"
)

// NewRouter serves /health openly. When token is set, /api/v1 requires
// "Authorization: Bearer <token>".
func NewRouter(answers handler.AnswerGenerator, token string) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(), gin.Recovery())

	r.GET("/health", handler.Health)

	v1 := r.Group("/api/v1")
	if token != "" {
		v1.Use(bearerAuth(token))
	}
	v1.GET("/completion", handler.NewCompletion(answers).Generate)

	return r
}

func bearerAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			slog.WarnContext(c.Request.Context(), "Rejected unauthenticated API request", "path", c.FullPath())
			response.WriteError(c, http.StatusUnauthorized, "Missing or invalid bearer token.")
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		slog.InfoContext(c.Request.Context(), "HTTP request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
