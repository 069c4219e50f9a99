package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	shutdownTimeout = 30 * time.Second
	readTimeout     = 15 * time.Second
	writeTimeout    = 15 * time.Second
	idleTimeout     = 60 * time.Second
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	appConfig = cfg
	appConfig.warnInsecureDefaults()

	initDatabase()
	defer closeDatabase(db)

	listCache, err = NewListCache(appConfig.CacheSize, appConfig.CacheTTL)
	if err != nil {
		log.Fatalf("failed to initialize cache: %v", err)
	}

	server := &http.Server{
		Addr:         appConfig.Addr(),
		Handler:      initRouter(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		color.Green("Running on http://%s", appConfig.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		log.Fatalf("Server failed: %v", err)
	case sig := <-shutdown:
		log.Printf("Received %v, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Error during graceful shutdown: %v", err)
		server.Close()
	}
	log.Println("Server shutdown complete")
}

func initDatabase() {
	var err error
	db, err = openDatabase(appConfig)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := seedAdmin(context.Background(), db, appConfig); err != nil {
		log.Fatalf("failed to seed admin account: %v", err)
	}
}

func rateLimited() func(http.Handler) http.Handler {
	return httprate.LimitByIP(appConfig.RateLimitPerMinute, time.Minute)
}

func initRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Use(PrometheusMiddleware)
	r.Use(SessionMiddleware)

	r.Get("/", Home)
	r.Get("/success", Success)
	r.Get("/site_map", SiteMap)
	r.Get("/healthz", Healthz)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/login", GetLogin)
	r.With(rateLimited()).Post("/login", PostLogin)
	r.Get("/register", GetRegister)
	r.With(rateLimited()).Post("/register", PostRegister)
	r.With(rateLimited()).Post("/contact", ContactSubmit)

	// the review widget is embedded on other sites
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: appConfig.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
		r.Get("/get_reviews", GetReviews)
		r.With(rateLimited()).Post("/add_review", AddReview)
	})

	r.Group(func(r chi.Router) {
		r.Use(RequireSession)
		r.Get("/logout", Logout)
		r.Get("/dashboard", Dashboard)
		r.Post("/dashboard", DashboardSubmit)
		r.Get("/quote_details/{quoteID:[0-9]+}", QuoteDetails)
		r.Get("/get_updates", GetUpdates)
		r.Post("/add_update", AddUpdate)
		r.Get("/admin/messages", AdminMessages)
	})

	return r
}
