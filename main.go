package main

import (
	"context"
	"log"

	"github.com/techagentng/ain/config"
	"github.com/techagentng/ain/db"
	"github.com/techagentng/ain/logger"
	"github.com/techagentng/ain/mailingservices"
	"github.com/techagentng/ain/scheduler"
	"github.com/techagentng/ain/server"
	"github.com/techagentng/ain/services"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(conf.LogLevel, !conf.IsProduction())
	if err != nil {
		log.Fatal(err)
	}
	defer lg.Sync()

	gormDB, err := db.GetDB(conf)
	if err != nil {
		lg.Fatal("database", zap.Error(err))
	}

	ctx := context.Background()
	if err := db.SeedAuthorities(ctx, gormDB.DB); err != nil {
		lg.Fatal("seeding authorities", zap.Error(err))
	}

	userRepo := db.NewUserRepo(gormDB)
	authorityRepo := db.NewAuthorityRepo(gormDB)
	reportRepo := db.NewReportRepo(gormDB)
	likeRepo := db.NewLikeRepo(gormDB)
	commentRepo := db.NewCommentRepo(gormDB)
	attachmentRepo := db.NewAttachmentRepo(gormDB)

	if created, err := db.SeedAdmin(ctx, userRepo, conf); err != nil {
		lg.Fatal("seeding admin", zap.Error(err))
	} else if created {
		lg.Info("admin account created", zap.String("email", conf.AdminEmail))
	}

	fileStore, err := services.NewFileStore(ctx, conf)
	if err != nil {
		lg.Fatal("file store", zap.Error(err))
	}

	mailer := mailingservices.New(conf, lg)
	feed := server.NewFeedHub(lg)
	go feed.Run()

	trustPoints := services.NewTrustPointsService(userRepo)
	routing := services.NewRoutingService(authorityRepo)

	cron := scheduler.New(userRepo, lg)
	if err := cron.Start(scheduler.PurgeSpec); err != nil {
		lg.Fatal("scheduler", zap.Error(err))
	}

	s := &server.Server{
		Config:              conf,
		Logger:              lg,
		AuthorityRepository: authorityRepo,
		AuthService:         services.NewAuthService(userRepo, mailer, conf, lg),
		ReportService:       services.NewReportService(reportRepo, likeRepo, commentRepo, authorityRepo, routing, trustPoints, feed, lg),
		LikeService:         services.NewLikeService(likeRepo, reportRepo, lg),
		CommentService:      services.NewCommentService(commentRepo, reportRepo, lg),
		AdminService:        services.NewAdminService(userRepo, authorityRepo, lg),
		AttachmentService:   services.NewAttachmentService(attachmentRepo, reportRepo, fileStore, lg),
		TrustPointsService:  trustPoints,
		Feed:                feed,
		Scheduler:           cron,
	}
	s.Start()
}
