package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"burnout-assess/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	healthH *HealthHandler,
	userH *UserHandler,
	assessH *AssessmentHandler,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", healthH.Healthz)

	auth := r.Group("/auth")
	auth.POST("/signup", userH.Signup)
	auth.POST("/login", userH.Login)
	auth.POST("/refresh", userH.RefreshToken)
	auth.POST("/logout", userH.Logout)

	r.GET("/assessment/questions", assessH.Questions)

	assessment := r.Group("/assessment", JWTAuthMiddleware(jwtSvc))
	assessment.POST("/sessions", assessH.Start)
	assessment.POST("/answers", assessH.SubmitAnswer)
	assessment.GET("/current", assessH.Current)
	assessment.GET("/sessions", assessH.History)
	assessment.GET("/sessions/:id", assessH.Detail)
	assessment.DELETE("/sessions/:id", assessH.Delete)
	assessment.POST("/analyze", assessH.Analyze)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
