package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers/cancel_booking"
	chatSessionHandler "github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers/chat_session"
	decideBookingHandler "github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers/decide_booking"
	getAvailabilityHandler "github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers/get_availability"
	getBookingHandler "github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers/get_booking"
	getEquipmentHandler "github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers/get_equipment"
	getEquipmentBookingsHandler "github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers/get_equipment_bookings"
	getUserBookingsHandler "github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers/get_user_bookings"
	listMessagesHandler "github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers/list_messages"
	listNotificationsHandler "github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers/list_notifications"
	markNotificationReadHandler "github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers/mark_notification_read"
	postMessageHandler "github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers/post_message"
	requestBookingHandler "github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers/request_booking"
	updateAvailabilityHandler "github.com/kaamconnect/KaamConnect-RentalService/internal/api/handlers/update_equipment_availability"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/api/middleware"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/chat"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/config"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/infra/realtime"
	bookingRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/booking"
	equipmentRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/equipment"
	messageRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/message"
	notificationRepo "github.com/kaamconnect/KaamConnect-RentalService/internal/infra/storage/notification"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/integrations/eventbus"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/integrations/profileservice"
	"github.com/kaamconnect/KaamConnect-RentalService/internal/notify"
	bookingsService "github.com/kaamconnect/KaamConnect-RentalService/internal/service/bookings"
	equipmentService "github.com/kaamconnect/KaamConnect-RentalService/internal/service/equipment"
	messagesService "github.com/kaamconnect/KaamConnect-RentalService/internal/service/messages"
	notificationsService "github.com/kaamconnect/KaamConnect-RentalService/internal/service/notifications"
	decideBookingUC "github.com/kaamconnect/KaamConnect-RentalService/internal/usecase/decide_booking"
	getAvailabilityUC "github.com/kaamconnect/KaamConnect-RentalService/internal/usecase/get_availability"
	requestBookingUC "github.com/kaamconnect/KaamConnect-RentalService/internal/usecase/request_booking"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/dbmetrics"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/logger"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/metrics"
	"github.com/kaamconnect/KaamConnect-RentalService/pkg/txmanager"
)

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting KaamConnect-RentalService...")
	log.Info("Configuration loaded from %s", configPath)

	// Метрики выключены - компоненты получают nil и ничего не пишут
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	// Репозитории
	bookingRepository := bookingRepo.NewRepository(wrappedDB)
	equipmentRepository := equipmentRepo.NewRepository(wrappedDB)
	messageRepository := messageRepo.NewRepository(wrappedDB)
	notificationRepository := notificationRepo.NewRepository(wrappedDB)

	// Интеграции
	profileClient := profileservice.NewClient(
		cfg.ProfileService.URL,
		time.Duration(cfg.ProfileService.Timeout)*time.Second,
		log,
	)
	eventPublisher := eventbus.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, log)
	defer eventPublisher.Close()
	log.Info("Integrations initialized (ProfileService=%s, EventBus=%s)", cfg.ProfileService.URL, eventbus.Mode(eventPublisher))

	notifier := notify.NewSender(notificationRepository, eventPublisher, profileClient, log)

	// Change feed чата
	rootCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	hub := realtime.NewHub(metricsCollector, log)
	var changePublisher messagesService.ChangePublisher = realtime.NoopPublisher{}
	var background sync.WaitGroup

	switch cfg.Realtime.Backend {
	case config.RealtimeBackendRedis:
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(rootCtx, 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Warn("Redis is not reachable at %s: %v", cfg.Redis.Addr, err)
		}
		cancelPing()

		changePublisher = realtime.NewRedisPublisher(redisClient, cfg.Realtime.Channel)
		source := realtime.NewRedisSource(redisClient, cfg.Realtime.Channel, hub, log)
		runBackground(rootCtx, &background, log, "redis change feed", source.Run)

	default:
		listener := realtime.NewPostgresListener(
			cfg.Database.DSN(),
			time.Duration(cfg.Realtime.MinReconnectInterval)*time.Second,
			time.Duration(cfg.Realtime.MaxReconnectInterval)*time.Second,
			log,
		)
		source := realtime.NewPostgresSource(listener, cfg.Realtime.Channel, messageRepository, hub, log)
		runBackground(rootCtx, &background, log, "postgres change feed", source.Run)
	}
	log.Info("Realtime change feed started (backend=%s, channel=%s)", cfg.Realtime.Backend, cfg.Realtime.Channel)

	// Сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, equipmentRepository, log)
	equipmentSvc := equipmentService.NewService(equipmentRepository, txMgr, log)
	messageSvc := messagesService.NewService(messageRepository, equipmentRepository, changePublisher, log)
	notificationSvc := notificationsService.NewService(notificationRepository, log)

	// Use cases
	requestBookingUseCase := requestBookingUC.NewUseCase(
		bookingRepository,
		equipmentRepository,
		notifier,
		txMgr,
		metricsCollector,
		log,
	)
	decideBookingUseCase := decideBookingUC.NewUseCase(
		bookingRepository,
		equipmentRepository,
		notifier,
		txMgr,
		metricsCollector,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(bookingRepository, equipmentRepository, log)

	newThread := func(scope chat.Scope) chatSessionHandler.Thread {
		return chat.NewThread(scope, messageSvc, hub, metricsCollector, log)
	}

	// Handlers
	requestBooking := requestBookingHandler.NewHandler(requestBookingUseCase, log)
	decideBooking := decideBookingHandler.NewHandler(decideBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getEquipmentBookings := getEquipmentBookingsHandler.NewHandler(bookingSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	getEquipment := getEquipmentHandler.NewHandler(equipmentSvc, log)
	updateAvailability := updateAvailabilityHandler.NewHandler(equipmentSvc, log)
	listMessages := listMessagesHandler.NewHandler(messageSvc, log)
	postMessage := postMessageHandler.NewHandler(messageSvc, log)
	chatSession := chatSessionHandler.NewHandler(newThread, log)
	listNotifications := listNotificationsHandler.NewHandler(notificationSvc, log)
	markNotificationRead := markNotificationReadHandler.NewHandler(notificationSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Карточка техники и календарь занятости
	api.HandleFunc("/equipment/{equipmentId}", getEquipment.Handle).Methods(http.MethodGet)
	api.HandleFunc("/equipment/{equipmentId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", requestBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/decision", decideBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление техникой (для владельцев) ---
	protected.HandleFunc("/equipment/{equipmentId}/bookings", getEquipmentBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/equipment/{equipmentId}/availability", updateAvailability.Handle).Methods(http.MethodPut)

	// --- Чат ---
	protected.HandleFunc("/equipment/{equipmentId}/messages", listMessages.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/equipment/{equipmentId}/messages", postMessage.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/equipment/{equipmentId}/chat", chatSession.Handle).Methods(http.MethodGet)

	// --- Уведомления ---
	protected.HandleFunc("/users/{userId}/notifications", listNotifications.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/notifications/{notificationId}/read", markNotificationRead.Handle).Methods(http.MethodPatch)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Останавливаем change feed и закрываем подписки чата
	stopBackground()
	background.Wait()
	if err := hub.Close(); err != nil {
		log.Warn("Realtime hub close: %v", err)
	}

	close(stopMetricsCh)
	log.Info("Server stopped gracefully")
}

// runBackground запускает фоновый процесс до отмены ctx
func runBackground(ctx context.Context, wg *sync.WaitGroup, log *logger.Logger, name string, run func(ctx context.Context) error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Background %s stopped: %v", name, err)
			return
		}
		log.Info("Background %s stopped", name)
	}()
}
