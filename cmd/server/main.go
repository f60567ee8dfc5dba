package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/fazilraphi/blig-blogs/internal/config"
	"github.com/fazilraphi/blig-blogs/internal/database"
	"github.com/fazilraphi/blig-blogs/internal/handler"
	"github.com/fazilraphi/blig-blogs/internal/queue"
	"github.com/fazilraphi/blig-blogs/internal/repository"
	"github.com/fazilraphi/blig-blogs/internal/router"
	"github.com/fazilraphi/blig-blogs/internal/service"
	"github.com/fazilraphi/blig-blogs/internal/storage"
	"github.com/fazilraphi/blig-blogs/internal/storage/memory"
	"github.com/fazilraphi/blig-blogs/internal/storage/s3"
)

func main() {
	// .env is optional; real deployments set variables directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment")
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	uploads := newUploadBackend(cfg)

	users := repository.NewUserRepo(db)
	blogs := repository.NewBlogRepo(db)
	media := repository.NewMediaRepo(db)
	comments := repository.NewCommentRepo(db)
	follows := repository.NewFollowRepo(db)
	likes := repository.NewLikeRepo(db)
	revoked := repository.NewRevokedTokenRepo(db)

	maxUpload := int64(cfg.MaxUploadMB) << 20

	tokens := service.NewTokens(
		cfg.JWTSecret,
		time.Duration(cfg.AccessTTLMin)*time.Minute,
		time.Duration(cfg.RefreshTTLDays)*24*time.Hour,
		revoked,
	)
	accounts := service.NewAccounts(users, uploads, cfg.BcryptCost, maxUpload)
	content := service.NewContent(blogs, media, comments, uploads, maxUpload)
	social := service.NewSocial(follows, likes, users, blogs)

	// Expired blocklist rows are dead weight; sweep them hourly.
	go sweepRevokedTokens(tokens)

	// Best-effort activity log fed by blog.published events.
	go func() {
		if err := queue.StartActivityConsumer(); err != nil {
			log.Printf("activity consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterAll(e, router.Handlers{
		Auth:    handler.NewAuthHandler(accounts, tokens, maxUpload),
		Blogs:   handler.NewBlogHandler(content, maxUpload),
		Comment: handler.NewCommentHandler(content),
		Social:  handler.NewSocialHandler(social),
	}, tokens, config.LoadCacheConfig(), config.NewRedisClient())

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

// newUploadBackend picks the media backend from configuration. An S3
// bucket gets the real backend; otherwise uploads land in process
// memory, which only makes sense for local development.
func newUploadBackend(cfg config.Config) storage.Backend {
	if cfg.S3Bucket == "" {
		log.Println("S3_BUCKET not set, using in-memory media storage")
		return memory.New()
	}
	b, err := s3.New(s3.Config{
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		AccessKeyID:     cfg.S3AccessKey,
		SecretAccessKey: cfg.S3SecretKey,
		Endpoint:        cfg.S3Endpoint,
		UsePathStyle:    cfg.S3UsePathStyle,
	})
	if err != nil {
		log.Fatalf("s3 storage: %v", err)
	}
	return b
}

func sweepRevokedTokens(tokens *service.Tokens) {
	t := time.NewTicker(time.Hour)
	defer t.Stop()
	for range t.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		n, err := tokens.SweepExpired(ctx)
		cancel()
		if err != nil {
			log.Printf("revoked token sweep: %v", err)
			continue
		}
		if n > 0 {
			log.Printf("revoked token sweep: removed %d expired entries", n)
		}
	}
}
