package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"anoa.com/unimanage/internal/auth"
	"anoa.com/unimanage/internal/bootstrap"
	"anoa.com/unimanage/internal/config"
	"anoa.com/unimanage/internal/server"
	"anoa.com/unimanage/pkg/database"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		if errors.Is(err, config.ErrMissingSecret) {
			log.Fatal("JWT_SECRET must be set; refusing to start without a signing key")
		}
		log.Fatalf("failed to load config: %v", err)
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(database.Options{DSN: cfg.DatabaseURL, Verbose: cfg.IsDevelopment()})
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	repos := server.NewGormRepositories(db)

	if cfg.IsDevelopment() && cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		if _, err := bootstrap.EnsureAdmin(ctx, repos.Users, cfg.AdminEmail, cfg.AdminName, cfg.AdminPassword); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	var revoker auth.SessionRevoker
	if redisClient != nil {
		revoker = auth.NewRedisRevoker(redisClient, cfg.JWTTTL)
	}

	fileStorage, localDir, err := server.NewFileStorage(cfg)
	if err != nil {
		log.Fatalf("failed to initialize file storage: %v", err)
	}

	srv, err := server.NewServer(cfg, server.Dependencies{
		Repos:          repos,
		Redis:          redisClient,
		Meili:          server.NewMeiliClient(cfg),
		Storage:        fileStorage,
		Revoker:        revoker,
		LocalUploadDir: localDir,
	})
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}

	if err := srv.Run(ctx, ":"+cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
	log.Println("Server stopped")
}
