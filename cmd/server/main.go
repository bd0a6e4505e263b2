package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"Folio/internal/api/middleware"
	"Folio/internal/api/routes"
	"Folio/internal/config"
	"Folio/internal/core/blog"
	"Folio/internal/core/cache"
	"Folio/internal/core/contact"
	"Folio/internal/core/feeds"
	"Folio/internal/core/page"
	"Folio/internal/core/repositories"
	"Folio/internal/core/thumbnails"
	"Folio/internal/db/migrations"
	postgresRepo "Folio/internal/db/postgres"
	"Folio/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger := newLogger(cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Shared by the feeds and the contact relay
	httpClient := &http.Client{Timeout: 10 * time.Second}

	fetcherOpts := []feeds.FetcherOption{
		feeds.WithHTTPClient(httpClient),
		feeds.WithLogger(logger),
	}

	// Snapshots are optional; without a database the cache lives in memory only
	if cfg.DatabaseURL != "" {
		db := openDatabase(cfg.DatabaseURL)
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				log.Printf("Failed to close database: %v", closeErr)
			}
		}()
		fetcherOpts = append(fetcherOpts, feeds.WithSnapshots(postgresRepo.NewSnapshotRepository(db)))
	}

	fetcher := feeds.NewFetcher(cache.New[any](), fetcherOpts...)

	repoOpts := []repositories.ServiceOption{}
	if cfg.GitHub.Token != "" {
		repoOpts = append(repoOpts, repositories.WithToken(cfg.GitHub.Token))
	}
	repoService := repositories.NewService(fetcher, cfg.GitHub.User, repoOpts...)
	blogService := blog.NewService(fetcher, cfg.Medium.User, blog.WithSource(blog.Source(cfg.Medium.Source)))

	templates, err := web.NewTemplates()
	if err != nil {
		log.Fatal("Failed to load web templates: ", err)
	}
	renderer := web.NewRenderer(templates, logger)

	controller, err := page.New(web.Pipelines(renderer, repoService, blogService),
		page.WithRefreshInterval(cfg.RefreshInterval),
		page.WithLogger(logger))
	if err != nil {
		log.Fatal("Failed to create page controller: ", err)
	}

	// Sections show their skeletons until the first load lands
	go func() {
		start := time.Now()
		controller.Load(ctx)
		logger.Info("initial page load complete", "duration", time.Since(start))
	}()
	controller.Start(ctx)

	themes, err := web.NewThemeStore(cfg.SessionSecret, cfg.SecureCookies)
	if err != nil {
		log.Fatal("Failed to create theme store: ", err)
	}

	if !cfg.ContactConfigured() {
		log.Println("Contact relay not configured - submissions will be rejected")
	}
	relay := contact.NewRelay(contact.Config{
		ServiceID:         cfg.EmailJS.ServiceID,
		PublicKey:         cfg.EmailJS.PublicKey,
		PrivateKey:        cfg.EmailJS.PrivateKey,
		AutoReplyTemplate: cfg.EmailJS.AutoReplyTemplate,
		NotifyTemplate:    cfg.EmailJS.NotifyTemplate,
		OwnerName:         cfg.Site.Owner,
		OwnerEmail:        cfg.Site.OwnerEmail,
	}, contact.WithHTTPClient(httpClient))

	handlers := web.NewHandlers(templates, controller, themes, relay, web.Site{
		Owner:       cfg.Site.Owner,
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		GitHubUser:  cfg.GitHub.User,
		MediumUser:  cfg.Medium.User,
	}, logger)

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	// Rate limiting: 100 requests per minute per IP
	rateLimiter := middleware.NewRateLimiter(100, 1*time.Minute)
	r.Use(rateLimiter.Middleware)

	// Contact submissions get a much stricter per-client budget
	contactLimiter := middleware.NewRateLimiter(cfg.ContactRateLimit, 1*time.Minute)

	thumbs := thumbnails.NewService(thumbnails.NewHTTPFetcher(httpClient, nil), thumbnails.NewProcessor(),
		thumbnails.WithLogger(logger))

	routes.RegisterWebRoutes(r, handlers, controller, web.NewThumbnailHandler(thumbs, logger), contactLimiter, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Folio starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed: ", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	controller.Stop()
	rateLimiter.Stop()
	contactLimiter.Stop()
	log.Println("Shutdown complete")
}

func newLogger(format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func openDatabase(dbURL string) *sql.DB {
	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Connected to snapshot database")

	// Run migrations
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Failed to set goose dialect:", err)
	}

	if err := goose.Up(db, "."); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Migrations completed successfully")
	return db
}
