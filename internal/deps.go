// Package internal wires the long lived dependencies shared by handlers
package internal

import (
	"context"
	"fmt"

	"pathfinder/guide-api/aws"
	"pathfinder/guide-api/config"
	"pathfinder/guide-api/db"
	"pathfinder/guide-api/internal/admin"
	"pathfinder/guide-api/internal/service"
	"pathfinder/guide-api/pkg/security"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	Config *config.Config

	DB        *gorm.DB
	Tokens    *security.TokenIssuer
	Auth      *service.AuthService
	Uploads   *service.UploadService
	Guidance  *service.GuidanceService
	Scheduler *service.SummaryScheduler
	Admin     *admin.Console
}

// NewDeps opens the database and file store and builds every service on
// top of them.
func NewDeps(ctx context.Context, cfg *config.Config) (*Deps, error) {
	conn, err := db.New(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	store, err := newFileStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return build(cfg, conn, store, security.NewPasswordHasher())
}

func newFileStore(ctx context.Context, cfg *config.Config) (service.FileStore, error) {
	if cfg.Storage.Type != "s3" {
		return service.NewLocalStore(cfg.Upload.Dir), nil
	}

	s3, err := aws.NewS3(ctx, cfg.Storage.S3)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client, %w", err)
	}

	return service.NewS3Store(s3), nil
}

// NewTestDeps builds the dependencies on an already open database with a
// local file store. Used by handler tests.
func NewTestDeps(cfg *config.Config, conn *gorm.DB, h *security.PasswordHasher) (*Deps, error) {
	return build(cfg, conn, service.NewLocalStore(cfg.Upload.Dir), h)
}

func build(cfg *config.Config, conn *gorm.DB, store service.FileStore, h *security.PasswordHasher) (*Deps, error) {
	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	var mailer service.Mailer
	if cfg.Mail.Enabled {
		mailer = service.NewSMTPMailer(cfg.Mail, cfg.AppName)
	}

	console := admin.NewConsole(conn)
	if err := console.Register(admin.DefaultViews()...); err != nil {
		return nil, fmt.Errorf("failed to register admin views, %w", err)
	}

	return &Deps{
		Config:    cfg,
		DB:        conn,
		Tokens:    tokens,
		Auth:      service.NewAuthService(conn, h, tokens, mailer),
		Uploads:   service.NewUploadService(conn, store, cfg.Upload.MaxSize),
		Guidance:  service.NewGuidanceService(conn, service.NewRecommender(cfg.AI)),
		Scheduler: service.NewSummaryScheduler(conn),
		Admin:     console,
	}, nil
}

// Close stops background work and releases the database.
func (d *Deps) Close(ctx context.Context) {
	d.Scheduler.Stop(ctx)

	sqlDB, err := d.DB.DB()
	if err != nil {
		return
	}

	if err := sqlDB.Close(); err != nil {
		zap.L().Warn("Failed to close database", zap.Error(err))
	}
}
