package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/techagentng/ain/config"
	"github.com/techagentng/ain/db"
	"github.com/techagentng/ain/scheduler"
	"github.com/techagentng/ain/services"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Server holds the dependencies shared by every handler.
type Server struct {
	Config              *config.Config
	Logger              *zap.Logger
	AuthorityRepository db.AuthorityRepository
	AuthService         services.AuthService
	ReportService       services.ReportService
	LikeService         services.LikeService
	CommentService      services.CommentService
	AdminService        services.AdminService
	AttachmentService   services.AttachmentService
	TrustPointsService  services.TrustPointsService
	Feed                *FeedHub
	Scheduler           *scheduler.Scheduler
}

func (s *Server) Start() {
	router := s.setupRouter()
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Config.Port),
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		s.Logger.Info("server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	s.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.Logger.Warn("http server shutdown failed", zap.Error(err))
	}
	if s.Feed != nil {
		s.Feed.Close()
	}
	if s.Scheduler != nil {
		s.Scheduler.Stop(shutdownCtx)
	}
	s.Logger.Info("server exited")
}
