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
	"github.com/redis/go-redis/v9"

	cancelAppointmentHandler "github.com/vmezhova/SLN-BookingEngine/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/vmezhova/SLN-BookingEngine/internal/api/handlers/create_appointment"
	getAppointmentHandler "github.com/vmezhova/SLN-BookingEngine/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/vmezhova/SLN-BookingEngine/internal/api/handlers/get_available_slots"
	getCustomerAppointmentsHandler "github.com/vmezhova/SLN-BookingEngine/internal/api/handlers/get_customer_appointments"
	getOrganizationAppointmentsHandler "github.com/vmezhova/SLN-BookingEngine/internal/api/handlers/get_organization_appointments"
	getSpecialistScheduleHandler "github.com/vmezhova/SLN-BookingEngine/internal/api/handlers/get_specialist_schedule"
	updateAppointmentStatusHandler "github.com/vmezhova/SLN-BookingEngine/internal/api/handlers/update_appointment_status"
	"github.com/vmezhova/SLN-BookingEngine/internal/api/middleware"
	"github.com/vmezhova/SLN-BookingEngine/internal/config"
	slotsCache "github.com/vmezhova/SLN-BookingEngine/internal/infra/cache"
	appointmentRepo "github.com/vmezhova/SLN-BookingEngine/internal/infra/storage/appointment"
	scheduleRepo "github.com/vmezhova/SLN-BookingEngine/internal/infra/storage/schedule"
	directoryServiceClient "github.com/vmezhova/SLN-BookingEngine/internal/integrations/directoryservice"
	appointmentsService "github.com/vmezhova/SLN-BookingEngine/internal/service/appointments"
	schedulesService "github.com/vmezhova/SLN-BookingEngine/internal/service/schedules"
	createAppointmentUC "github.com/vmezhova/SLN-BookingEngine/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/vmezhova/SLN-BookingEngine/internal/usecase/get_available_slots"
	"github.com/vmezhova/SLN-BookingEngine/pkg/dbmetrics"
	"github.com/vmezhova/SLN-BookingEngine/pkg/logger"
	"github.com/vmezhova/SLN-BookingEngine/pkg/metrics"
	"github.com/vmezhova/SLN-BookingEngine/pkg/simpletxmanager"
	"github.com/vmezhova/SLN-BookingEngine/pkg/txmanager"
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

	log.Info("Starting SLN-BookingEngine...")
	log.Info("Configuration loaded from config.toml")

	// Дефолтное дневное окно для организаций без расписания
	defaultDay, err := cfg.Booking.DefaultDaySchedule()
	if err != nil {
		log.Fatal("Invalid booking defaults: %v", err)
	}

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

	// Инициализируем клиент DirectoryService
	directoryClient := directoryServiceClient.NewClient(
		cfg.DirectoryService.URL,
		time.Duration(cfg.DirectoryService.Timeout)*time.Second,
		log,
	)
	log.Info("DirectoryService client initialized (url=%s, timeout=%ds)",
		cfg.DirectoryService.URL, cfg.DirectoryService.Timeout)

	// Кэш слотов (опциональный, сервис работает и без Redis)
	var cache *slotsCache.SlotsCache

	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Fatal("Failed to ping redis: %v", err)
		}
		cancel()

		cache = slotsCache.New(redisClient, time.Duration(cfg.Redis.SlotCacheTTLSec)*time.Second)
		defer redisClient.Close()

		log.Info("Slot cache enabled (addr=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.SlotCacheTTLSec)
	}

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
	)

	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Кэш передаётся как nil-интерфейс, если Redis выключен
	var appointmentCacheForService appointmentsService.SlotsCache
	var slotsCacheForUC getAvailableSlotsUC.SlotsCache
	var claimCacheForUC createAppointmentUC.SlotsCache
	if cache != nil {
		appointmentCacheForService = cache
		slotsCacheForUC = cache
		claimCacheForUC = cache
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		directoryClient,
		appointmentCacheForService,
		log,
	)
	scheduleSvc := schedulesService.NewService(
		scheduleRepository,
		directoryClient,
		defaultDay,
		log,
	)

	// Инициализируем use cases
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		directoryClient,
		slotsCacheForUC,
		defaultDay,
		metricsCollector,
		log,
	)

	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		directoryClient,
		claimCacheForUC,
		txMgr,
		defaultDay,
		metricsCollector,
		log,
	)

	// Инициализируем handlers
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentSvc, log)
	getOrganizationAppointments := getOrganizationAppointmentsHandler.NewHandler(appointmentSvc, log)
	getSpecialistSchedule := getSpecialistScheduleHandler.NewHandler(scheduleSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Сквозной идентификатор запроса на всех маршрутах
	r.Use(middleware.RequestID)

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
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

	// Доступные слоты мастера на дату
	api.HandleFunc("/organizations/{organizationId}/specialists/{specialistId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Эффективное недельное расписание мастера
	api.HandleFunc("/organizations/{organizationId}/specialists/{specialistId}/schedule",
		getSpecialistSchedule.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи (claim слота)
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена записи
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Смена статуса записи (для менеджеров)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)

	// История записей клиента
	protected.HandleFunc("/customers/{customerId}/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)

	// --- Управление организацией (для менеджеров) ---
	// Список записей организации
	protected.HandleFunc("/organizations/{organizationId}/appointments",
		getOrganizationAppointments.Handle).Methods(http.MethodGet)

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
