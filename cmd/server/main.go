// Package main is the entry point for the blog API server. It loads
// configuration, sets up logging, picks the real or fallback mail and media
// backends, and hands everything to internal/server.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sakif/kickstart-blog/internal/config"
	"github.com/sakif/kickstart-blog/internal/handler"
	"github.com/sakif/kickstart-blog/internal/mail"
	"github.com/sakif/kickstart-blog/internal/media"
	"github.com/sakif/kickstart-blog/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Dev {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	// Raw error messages only leak to clients in development.
	handler.DevMode = cfg.Dev

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(cfg.Database.Path)),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// Without SMTP, OTP codes are written to the log instead of mailed.
	var mailer mail.Sender = &mail.LogSender{Logger: logger}
	if cfg.SMTP.Enabled() {
		smtp, err := mail.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From, logger)
		if err != nil {
			logger.Error("failed to configure SMTP", slog.String("error", err.Error()))
			os.Exit(1)
		}
		mailer = smtp
	} else {
		logger.Warn("SMTP not configured, OTP codes will be logged instead of mailed")
	}

	// Without Cloudinary, image uploads are rejected but everything else works.
	var uploader media.Uploader = media.Disabled{}
	if cfg.Cloudinary.Enabled() {
		cld, err := media.NewCloudinaryUploader(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, logger)
		if err != nil {
			logger.Error("failed to configure Cloudinary", slog.String("error", err.Error()))
			os.Exit(1)
		}
		uploader = cld
	} else {
		logger.Warn("Cloudinary not configured, image uploads are disabled")
	}

	srv, err := server.New(cfg, logger, mailer, uploader)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
