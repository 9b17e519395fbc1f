package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelBookingHandler "github.com/velokitchen/VK-BookingService/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/velokitchen/VK-BookingService/internal/api/handlers/create_booking"
	createShiftHandler "github.com/velokitchen/VK-BookingService/internal/api/handlers/create_shift"
	deleteShiftHandler "github.com/velokitchen/VK-BookingService/internal/api/handlers/delete_shift"
	getAvailableDatesHandler "github.com/velokitchen/VK-BookingService/internal/api/handlers/get_available_dates"
	getAvailableSlotsHandler "github.com/velokitchen/VK-BookingService/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/velokitchen/VK-BookingService/internal/api/handlers/get_booking"
	getShiftsHandler "github.com/velokitchen/VK-BookingService/internal/api/handlers/get_shifts"
	getUserBookingsHandler "github.com/velokitchen/VK-BookingService/internal/api/handlers/get_user_bookings"
	saveStaffingBatchHandler "github.com/velokitchen/VK-BookingService/internal/api/handlers/save_staffing_batch"
	toggleStaffingHandler "github.com/velokitchen/VK-BookingService/internal/api/handlers/toggle_staffing"
	updateBookingStatusHandler "github.com/velokitchen/VK-BookingService/internal/api/handlers/update_booking_status"
	updateShiftHandler "github.com/velokitchen/VK-BookingService/internal/api/handlers/update_shift"
	"github.com/velokitchen/VK-BookingService/internal/api/middleware"
	"github.com/velokitchen/VK-BookingService/internal/config"
	"github.com/velokitchen/VK-BookingService/internal/domain"
	"github.com/velokitchen/VK-BookingService/internal/infra/notify"
	bookingRepo "github.com/velokitchen/VK-BookingService/internal/infra/storage/booking"
	shiftRepo "github.com/velokitchen/VK-BookingService/internal/infra/storage/shift"
	profileServiceClient "github.com/velokitchen/VK-BookingService/internal/integrations/profileservice"
	bookingsService "github.com/velokitchen/VK-BookingService/internal/service/bookings"
	shiftsService "github.com/velokitchen/VK-BookingService/internal/service/shifts"
	createBookingUC "github.com/velokitchen/VK-BookingService/internal/usecase/create_booking"
	getAvailableDatesUC "github.com/velokitchen/VK-BookingService/internal/usecase/get_available_dates"
	getAvailableSlotsUC "github.com/velokitchen/VK-BookingService/internal/usecase/get_available_slots"
	"github.com/velokitchen/VK-BookingService/pkg/dbmetrics"
	"github.com/velokitchen/VK-BookingService/pkg/logger"
	"github.com/velokitchen/VK-BookingService/pkg/metrics"
	"github.com/velokitchen/VK-BookingService/pkg/simpletxmanager"
	"github.com/velokitchen/VK-BookingService/pkg/txmanager"
	"github.com/velokitchen/VK-BookingService/pkg/types"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
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

	log.Info("Starting VK-BookingService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
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

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем клиент ProfileService
	profileClient := profileServiceClient.NewClient(
		cfg.ProfileService.URL,
		time.Duration(cfg.ProfileService.Timeout)*time.Second,
		log,
	)
	log.Info("ProfileService client initialized (url=%s, timeout=%ds)",
		cfg.ProfileService.URL, cfg.ProfileService.Timeout)

	// Публикация событий бронирований (если включена)
	type notifyPublisher interface {
		BookingCreated(ctx context.Context, booking *domain.Booking, shiftDate time.Time) error
		BookingCancelled(ctx context.Context, booking *domain.Booking, shiftDate time.Time, cancelledBy, reason string) error
		BookingStatusChanged(ctx context.Context, booking *domain.Booking, shiftDate time.Time) error
		Close()
	}
	var publisher notifyPublisher

	if cfg.Notifications.Enabled {
		// Типизированный nil в интерфейсе обошёл бы проверку в publisher
		var notifyMetrics notify.Metrics
		if metricsCollector != nil {
			notifyMetrics = metricsCollector
		}

		p, err := notify.NewPublisher(cfg.Notifications.URL, cfg.Notifications.Exchange, log, notifyMetrics)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		publisher = p
		log.Info("Notification publisher connected (exchange=%s)", cfg.Notifications.Exchange)
	} else {
		publisher = notify.NewNoop()
		log.Info("Notifications disabled, using noop publisher")
	}
	defer publisher.Close()

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		bookingRepository *bookingRepo.Repository
		shiftRepository   *shiftRepo.Repository
	)

	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		shiftRepository = shiftRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		shiftRepository = shiftRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		shiftRepository,
		profileClient,
		publisher,
		log,
	)
	defaultStart, err := types.NewTimeStringFromString(cfg.Shifts.DefaultStartTime)
	if err != nil {
		log.Fatal("Invalid shifts.default_start_time: %v", err)
	}
	defaultEnd, err := types.NewTimeStringFromString(cfg.Shifts.DefaultEndTime)
	if err != nil {
		log.Fatal("Invalid shifts.default_end_time: %v", err)
	}
	shiftSvc := shiftsService.NewService(
		shiftRepository,
		bookingRepository,
		profileClient,
		txMgr,
		shiftsService.ShiftDefaults{StartTime: defaultStart, EndTime: defaultEnd},
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		shiftRepository,
		bookingRepository,
		profileClient,
		publisher,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		shiftRepository,
		bookingRepository,
		log,
	)
	getAvailableDatesUseCase := getAvailableDatesUC.NewUseCase(
		shiftRepository,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAvailableDates := getAvailableDatesHandler.NewHandler(getAvailableDatesUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	createShift := createShiftHandler.NewHandler(shiftSvc, log)
	updateShift := updateShiftHandler.NewHandler(shiftSvc, log)
	deleteShift := deleteShiftHandler.NewHandler(shiftSvc, log)
	getShifts := getShiftsHandler.NewHandler(shiftSvc, log)
	toggleStaffing := toggleStaffingHandler.NewHandler(shiftSvc, log)
	saveStaffingBatch := saveStaffingBatchHandler.NewHandler(shiftSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Идентичность из заголовков доступна на всех маршрутах
	r.Use(middleware.Identity)

	// Metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Rate limiting (если включено)
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		r.Use(limiter.Middleware)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные даты и слоты
	api.HandleFunc("/availability/dates", getAvailableDates.Handle).Methods(http.MethodGet)
	api.HandleFunc("/availability/slots", getAvailableSlots.Handle).Methods(http.MethodGet)

	// Гостевые бронирования: идентичность гостя - его email
	api.HandleFunc("/guest/bookings", createBooking.HandleGuest).Methods(http.MethodPost)
	api.HandleFunc("/guest/bookings/{bookingId}", getBooking.HandleGuest).Methods(http.MethodGet)
	api.HandleFunc("/guest/bookings/{bookingId}/cancel", cancelBooking.HandleGuest).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings", getUserBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// --- Управление статусами (для волонтёров штаба) ---
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// --- Смены и укомплектование (для волонтёров штаба) ---
	protected.HandleFunc("/shifts", createShift.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/shifts", getShifts.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/shifts/staffing", saveStaffingBatch.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/shifts/staffing/toggle", toggleStaffing.HandleByDate).Methods(http.MethodPost)
	protected.HandleFunc("/shifts/{shiftId}", getShifts.HandleByID).Methods(http.MethodGet)
	protected.HandleFunc("/shifts/{shiftId}", updateShift.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/shifts/{shiftId}", deleteShift.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/shifts/{shiftId}/staffing/toggle", toggleStaffing.Handle).Methods(http.MethodPost)

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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
