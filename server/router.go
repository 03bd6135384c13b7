package server

import (
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	errs "github.com/techagentng/ain/errors"
	"go.uber.org/zap"
)

const maxMultipartMemory = 32 << 20

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	r.Use(requestLogger(s.Logger))
	r.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if origins := s.Config.AllowedOrigins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	r.Use(cors.New(corsConfig))
	r.MaxMultipartMemory = maxMultipartMemory
	s.defineRoutes(r)

	return r
}

// requestLogger writes one structured line per request.
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Info("request", fields...)
	}
}

func (s *Server) limitRatePerClient() gin.HandlerFunc {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  time.Minute,
		Limit: s.Config.RateLimitPerMinute,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc:      func(c *gin.Context) string { return c.ClientIP() },
	})
}

func (s *Server) defineRoutes(router *gin.Engine) {
	resetStore := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  10 * time.Minute,
		Limit: 3,
	})
	limitRate := limitRateForPasswordReset(resetStore)

	router.GET("/uploads/:name", s.handleServeUpload())

	apirouter := router.Group("/api/v1")
	apirouter.Use(s.limitRatePerClient())
	apirouter.POST("/auth/register", s.handleSignup())
	apirouter.POST("/auth/verify-otp", s.handleVerifyOTP())
	apirouter.POST("/auth/login", s.handleLogin())
	apirouter.POST("/auth/forget-password", limitRate, s.HandleForgotPassword())
	apirouter.POST("/auth/reset-password", s.ResetPassword())
	apirouter.POST("/auth/refresh-token", s.handleRefreshToken())
	apirouter.GET("/feed", s.handleGetFeed())
	apirouter.GET("/authorities", s.handleGetAuthorities())
	apirouter.GET("/uploads/:name", s.handleServeUpload())
	apirouter.GET("/ws/feed", s.handleFeedSocket())
	apirouter.GET("/reports/:id/interactions", s.OptionalAuthorize(), s.handleGetReportInteractions())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize(), RequireUser())
	authorized.GET("/auth/me", s.handleShowProfile())
	authorized.POST("/auth/logout", s.handleLogout())
	authorized.PUT("/users/me", s.handleEditUserProfile())
	authorized.GET("/users/:id/reports", s.handleGetUserReports())
	authorized.POST("/reports", s.handleIncidentReport())
	authorized.GET("/reports/:id", s.handleGetReport())
	authorized.PUT("/reports/:id", s.handleUpdateReport())
	authorized.DELETE("/reports/:id", s.handleDeleteReport())
	authorized.POST("/reports/:id/like", s.handleLikeReport())
	authorized.POST("/reports/:id/comments", s.handleAddComment())
	authorized.GET("/reports/:id/comments", s.handleListComments())
	authorized.GET("/comments/:id", s.handleGetComment())
	authorized.PUT("/comments/:id", s.handleUpdateComment())
	authorized.DELETE("/comments/:id", s.handleDeleteComment())
	authorized.POST("/reports/:id/attachments", s.handleUploadAttachment())

	triage := authorized.Group("/")
	triage.Use(RequireAuthority())
	triage.PATCH("/reports/:id/status", s.handleUpdateReportStatus())
	triage.GET("/authorities/:id/reports", s.handleGetAuthorityReports())
	triage.GET("/authority/dashboard", s.handleAuthorityDashboard())

	admin := authorized.Group("/")
	admin.Use(RequireAdmin())
	admin.POST("/users/:id/trustpoints", s.handleAddTrustPoints())
	admin.GET("/admin/reports", s.handleAdminListReports())
	admin.GET("/admin/users", s.handleGetAllUsers())
	admin.GET("/admin/users/:id", s.handleGetUser())
	admin.PUT("/admin/users/:id", s.handleUpdateUser())
	admin.DELETE("/admin/users/:id", s.handleDeleteUser())
}
