package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"eventro/internal/cache"
	"eventro/internal/config"
	"eventro/internal/database"
	"eventro/internal/external"
	"eventro/internal/handlers"
	"eventro/internal/logger"
	"eventro/internal/mail"
	"eventro/internal/messaging"
	"eventro/internal/metrics"
	"eventro/internal/middleware"
	"eventro/internal/notify"
	"eventro/internal/repository"
	"eventro/internal/search"
	"eventro/internal/service"
	"eventro/internal/storage"

	"github.com/gin-gonic/gin"
)

// Server представляет HTTP сервер API
type Server struct {
	router     *gin.Engine
	config     *config.Config
	db         *database.DB
	nats       *messaging.NATSClient
	cache      *cache.ValkeyClient
	dispatcher *notify.Dispatcher
	services   *service.Services
}

// NewServer создает новый экземпляр сервера
func NewServer(cfg *config.Config) (*Server, error) {
	// Устанавливаем режим Gin
	gin.SetMode(cfg.GinMode)

	// Подключаемся к базе данных
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Запускаем миграции
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	server := &Server{
		config: cfg,
		db:     db,
	}

	deps, err := server.buildDeps(context.Background())
	if err != nil {
		server.Cleanup()
		return nil, err
	}

	// Создаем репозитории и сервисы
	repos := repository.NewRepositories(db)
	server.services = service.NewServices(repos, deps)

	// Создаем роутер
	router := gin.New()

	// Применяем middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())

	server.router = router
	server.setupRoutes()

	return server, nil
}

// buildDeps подключает необязательные компоненты. Отключенный компонент
// остается nil интерфейсом в service.Deps.
func (s *Server) buildDeps(ctx context.Context) (service.Deps, error) {
	cfg := s.config
	log := logger.Get()
	var deps service.Deps

	var publisher notify.Publisher
	if cfg.NATS.Enabled() {
		natsClient, err := messaging.NewNATSClient(cfg.NATS)
		if err != nil {
			return deps, fmt.Errorf("failed to connect to NATS: %w", err)
		}
		s.nats = natsClient
		publisher = natsClient
	} else {
		log.Warn("NATS is not configured, notifications will only be logged")
	}
	s.dispatcher = notify.NewDispatcher(publisher, cfg.NotifyQueueSize, log)
	s.dispatcher.Start()
	deps.Notifier = s.dispatcher

	if cfg.Cache.Enabled() {
		valkey, err := cache.NewValkeyClient(cfg.Cache)
		if err != nil {
			return deps, fmt.Errorf("failed to connect to cache: %w", err)
		}
		s.cache = valkey
		deps.EventCache = valkey
		deps.ProfileCache = valkey
	}

	if cfg.Elasticsearch.Enabled() {
		index, err := search.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			return deps, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
		}
		deps.Index = index
	}

	if cfg.Storage.Enabled() {
		store, err := storage.NewObjectStore(ctx, cfg.Storage)
		if err != nil {
			return deps, fmt.Errorf("failed to init object storage: %w", err)
		}
		deps.Store = store
	}

	if sender := mail.NewSender(cfg.Mail); sender != nil {
		deps.Mailer = sender
	}

	deps.Functions = external.NewFunctionsClient(cfg.Functions)

	log.Info("Optional components configured",
		"nats", cfg.NATS.Enabled(),
		"cache", cfg.Cache.Enabled(),
		"elasticsearch", cfg.Elasticsearch.Enabled(),
		"storage", cfg.Storage.Enabled(),
		"smtp", cfg.Mail.Enabled(),
		"functions", cfg.Functions.BaseURL != "",
	)

	return deps, nil
}

// setupRoutes настраивает все API роуты
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Публичные роуты
	public := s.router.Group("/api")
	{
		public.GET("/events", h.ListEvents)
		public.GET("/events/search", h.SearchEvents)
		public.GET("/events/:id", h.GetEvent)
	}

	// Роуты с JWT авторизацией
	api := s.router.Group("/api")
	api.Use(middleware.JWTAuth(s.config.JWT))
	{
		events := api.Group("/events")
		{
			events.POST("", h.CreateEvent)
			events.PUT("/:id", h.UpdateEvent)
			events.POST("/:id/image", h.UploadEventImage)
			events.GET("/:id/attendees", h.ListAttendees)

			events.POST("/:id/checkins", h.CheckIn)
			events.GET("/:id/checkins", h.ListCheckIns)
			events.GET("/:id/checkins/stats", h.CheckInStats)

			events.POST("/:id/distributions", h.Distribute)
			events.GET("/:id/distributions", h.ListDistributions)

			events.POST("/:id/broadcast", h.Broadcast)

			events.POST("/:id/feedback", h.SubmitFeedback)
			events.GET("/:id/feedback", h.ListFeedback)

			events.GET("/:id/bills", h.ListBills)
			events.POST("/:id/bills", h.CreateBill)
			events.DELETE("/:id/bills/:billId", h.DeleteBill)
			events.POST("/:id/bills/:billId/receipt", h.UploadReceipt)
			events.GET("/:id/finance/summary", h.FinanceSummary)
			events.GET("/:id/finance/insights", h.FinanceInsights)

			events.POST("/:id/reminder-email", h.ReminderEmailPreview)
		}

		profile := api.Group("/profile")
		{
			profile.GET("", h.GetProfile)
			profile.PUT("", h.UpsertProfile)
			profile.POST("/avatar", h.UploadAvatar)
			profile.POST("/banner", h.UploadBanner)
		}

		tickets := api.Group("/tickets")
		{
			tickets.POST("", h.PurchaseTicket)
			tickets.GET("", h.ListTickets)
			tickets.POST("/lookup", h.LookupTicket)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", h.ListNotifications)
			notifications.PATCH("/read-all", h.MarkAllNotificationsRead)
			notifications.PATCH("/:id/read", h.MarkNotificationRead)
			notifications.DELETE("/:id", h.DeleteNotification)
		}

		messages := api.Group("/messages")
		{
			messages.POST("", h.SendMessage)
			messages.GET("/inbox", h.Inbox)
			messages.GET("/sent", h.SentMessages)
			messages.PATCH("/:id/read", h.MarkMessageRead)
		}

		favorites := api.Group("/favorites")
		{
			favorites.GET("", h.ListFavorites)
			favorites.POST("/:eventId", h.AddFavorite)
			favorites.DELETE("/:eventId", h.RemoveFavorite)
		}

		api.POST("/finance/analyze-receipt", h.AnalyzeReceipt)
		api.GET("/recommendations", h.Recommendations)
	}
}

// healthCheck обрабатывает health check запросы
func (s *Server) healthCheck(c *gin.Context) {
	check := s.db.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if check.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   check.Status,
		"service":  "eventro-api",
		"version":  "1.0.0",
		"database": check,
	})
}

// Run запускает HTTP сервер
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%s", s.config.Port)
	return s.router.Run(addr)
}

// GetRouter возвращает роутер для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup закрывает соединения
func (s *Server) Cleanup() error {
	log := logger.Get()

	if s.dispatcher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := s.dispatcher.Stop(ctx); err != nil {
			log.Error("Error draining notification queue", "error", err)
		}
		cancel()
	}

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			log.Error("Error closing NATS connection", "error", err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			log.Error("Error closing cache connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			log.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
