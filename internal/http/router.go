package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Neuralic/Tinder-AI/internal/metrics"
	"github.com/Neuralic/Tinder-AI/internal/service"
)

const requestIDHeader = "X-Request-ID"

// RouterConfig agrupa las opciones de la capa HTTP.
type RouterConfig struct {
	AllowedOrigins []string
	Metrics        *metrics.Recorder
}

// NewRouter configura el router de Gin con middlewares y rutas del copiloto.
func NewRouter(logger *zap.Logger, cfg RouterConfig, copilotH *CopilotHandler) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: request id, logging, recovery, CORS y metricas.
	r.Use(
		requestIDMiddleware(),
		zapLoggerMiddleware(logger),
		gin.Recovery(),
		corsMiddleware(cfg.AllowedOrigins),
		metricsMiddleware(cfg.Metrics),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	r.POST("/analyze-profile", copilotH.AnalyzeProfile)
	r.POST("/analyze-image", copilotH.AnalyzeProfile)
	r.POST("/analyze-bio", copilotH.AnalyzeBio)
	r.POST("/suggest-reply", copilotH.SuggestReply)
	r.POST("/ask-out", copilotH.AskOut)

	return r
}

// requestIDMiddleware respeta X-Request-ID entrante o genera uno nuevo, y lo
// propaga al contexto para los logs del pipeline.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(requestIDHeader, id)
		c.Request = c.Request.WithContext(service.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", service.RequestIDFrom(c.Request.Context())),
		)
	}
}

// corsMiddleware responde preflights y refleja el origen permitido.
func corsMiddleware(allowed []string) gin.HandlerFunc {
	allowAll := len(allowed) == 0
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAll = true
		}
		set[o] = struct{}{}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := set[origin]; ok || allowAll {
				h := c.Writer.Header()
				if allowAll {
					h.Set("Access-Control-Allow-Origin", "*")
				} else {
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
				h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func metricsMiddleware(rec *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rec == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		rec.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
