package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"absensi-guard/bot"
	"absensi-guard/config"
	"absensi-guard/internal/antifraud"
	"absensi-guard/internal/cache"
	"absensi-guard/internal/handlers"
	"absensi-guard/internal/repository"
	"absensi-guard/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Println("Config loaded successfully")

	// Create application context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Shutdown signal received, initiating graceful shutdown...")
		cancel()
	}()

	// Initialize application dependencies
	app := initApplication(cfg)
	defer app.close()

	// Initialize Telegram Bot
	if err := initBot(cfg); err != nil {
		log.Printf("Warning: Failed to init Telegram Bot: %v", err)
	}

	// Setup HTTP server
	mux := http.NewServeMux()
	mux.HandleFunc("/api/attendance/clock-in", app.attendance.HandleClockIn)
	mux.HandleFunc("/api/attendance/clock-out", app.attendance.HandleClockOut)
	mux.HandleFunc("/api/attendance/report", app.admin.HandleReport)
	mux.HandleFunc("/api/location/validate", app.attendance.HandleValidate)
	mux.HandleFunc("/api/location/history", app.attendance.HandleClearHistory)
	mux.HandleFunc("/api/makeup-requests", app.admin.HandleMakeupRequests)
	mux.HandleFunc("/api/makeup-requests/", app.admin.HandleMakeupDecision)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on :%s", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped gracefully")
}

// initBot initializes the Telegram bot
func initBot(cfg *config.Config) error {
	if err := bot.Init(cfg.TelegramBotToken, cfg.AuthorizedChatID); err != nil {
		return err
	}

	// Set PocketBase URL and token for bot
	bot.SetPocketBaseURL(cfg.PocketBaseURL)
	bot.SetPocketBaseToken(cfg.PocketBaseToken)
	bot.StartPolling()

	log.Println("Telegram Bot Initialized")
	return nil
}

// application bundles the wired handlers and the resources that need
// closing on shutdown
type application struct {
	attendance *handlers.AttendanceHandler
	admin      *handlers.AdminHandler
	redis      *cache.Redis
}

func (a *application) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Printf("Redis close error: %v", err)
		}
	}
}

// initApplication initializes all application dependencies
func initApplication(cfg *config.Config) *application {
	// Initialize repositories with PocketBase REST API
	profileRepo := repository.NewPocketBaseRESTProfileRepository(cfg.PocketBaseURL, cfg.PocketBaseToken)
	shiftRepo := repository.NewPocketBaseRESTShiftRepository(cfg.PocketBaseURL, cfg.PocketBaseToken)
	attendanceRepo := repository.NewPocketBaseRESTAttendanceRepository(cfg.PocketBaseURL, cfg.PocketBaseToken)
	locationRepo := repository.NewPocketBaseRESTLocationRepository(cfg.PocketBaseURL, cfg.PocketBaseToken)
	makeupRepo := repository.NewPocketBaseRESTMakeupRepository(cfg.PocketBaseURL, cfg.PocketBaseToken)

	// Redis is optional: without it history lives in memory and geofence
	// lookups always hit PocketBase
	var redisCache *cache.Redis
	var history antifraud.HistoryStore = antifraud.NewMemoryHistoryStore()
	if cfg.RedisAddr != "" {
		r, err := cache.New(cfg.RedisAddr)
		if err != nil {
			log.Printf("Warning: Redis unavailable, falling back to in-memory history: %v", err)
		} else {
			redisCache = r
			history = cache.NewRedisHistoryStore(r)
			log.Println("Redis connected")
		}
	}

	// Validation pipeline
	validator := antifraud.NewValidator()
	if cfg.IPGeoURL != "" {
		validator.Network = antifraud.NewNetworkLocator(cfg.IPGeoURL)
	}

	// Create bot notifier wrapper
	botNotifier := bot.NewNotifier()

	// Initialize services
	locationSource := services.NewCachedLocationSource(locationRepo, redisCache)
	attendanceService := services.NewAttendanceService(
		profileRepo,
		shiftRepo,
		attendanceRepo,
		locationSource,
		history,
		validator,
		botNotifier,
	)
	attendanceService.GracePeriod = time.Duration(cfg.GraceMinutes) * time.Minute
	attendanceService.ClockOutLead = time.Duration(cfg.ClockOutLeadMinutes) * time.Minute

	makeupService := services.NewMakeupService(makeupRepo, attendanceRepo, profileRepo, botNotifier)
	reportService := services.NewReportService(attendanceRepo)

	// Initialize handlers
	return &application{
		attendance: handlers.NewAttendanceHandler(attendanceService),
		admin:      handlers.NewAdminHandler(reportService, makeupService),
		redis:      redisCache,
	}
}
