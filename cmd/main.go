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

	assignStaffHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/assign_staff"
	cancelBookingHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/cancel_booking"
	checkInHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/check_in"
	completeServiceHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/complete_service"
	createBayHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/create_bay"
	createBookingHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/create_booking"
	createServiceSlotHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/create_service_slot"
	enqueueBookingHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/enqueue_booking"
	generateScheduleHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/generate_schedule"
	getAvailabilityHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/get_availability"
	getBayGridHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/get_bay_grid"
	getBookingHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/get_booking"
	getBranchBookingsHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/get_branch_bookings"
	listBaysHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/list_bays"
	pauseServiceHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/pause_service"
	peekQueueHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/peek_queue"
	reserveSlotHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/reserve_slot"
	startServiceHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/start_service"
	updateBayStateHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/update_bay_state"
	updateSlotStateHandler "github.com/m04kA/VSC-SchedulingService/internal/api/handlers/update_slot_state"
	"github.com/m04kA/VSC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/VSC-SchedulingService/internal/config"
	assignmentRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/assignment"
	bayRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bay"
	bayQueueRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bayqueue"
	bayScheduleRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/bayschedule"
	bookingRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/booking"
	serviceSlotRepo "github.com/m04kA/VSC-SchedulingService/internal/infra/storage/serviceslot"
	baysService "github.com/m04kA/VSC-SchedulingService/internal/service/bays"
	bookingsService "github.com/m04kA/VSC-SchedulingService/internal/service/bookings"
	scheduleService "github.com/m04kA/VSC-SchedulingService/internal/service/schedule"
	slotsService "github.com/m04kA/VSC-SchedulingService/internal/service/slots"
	assignStaffUC "github.com/m04kA/VSC-SchedulingService/internal/usecase/assign_staff"
	cancelBookingUC "github.com/m04kA/VSC-SchedulingService/internal/usecase/cancel_booking"
	checkInUC "github.com/m04kA/VSC-SchedulingService/internal/usecase/check_in"
	completeServiceUC "github.com/m04kA/VSC-SchedulingService/internal/usecase/complete_service"
	enqueueBookingUC "github.com/m04kA/VSC-SchedulingService/internal/usecase/enqueue_booking"
	generateScheduleUC "github.com/m04kA/VSC-SchedulingService/internal/usecase/generate_schedule"
	pauseServiceUC "github.com/m04kA/VSC-SchedulingService/internal/usecase/pause_service"
	reserveSlotUC "github.com/m04kA/VSC-SchedulingService/internal/usecase/reserve_slot"
	startServiceUC "github.com/m04kA/VSC-SchedulingService/internal/usecase/start_service"
	"github.com/m04kA/VSC-SchedulingService/pkg/dbmetrics"
	"github.com/m04kA/VSC-SchedulingService/pkg/logger"
	"github.com/m04kA/VSC-SchedulingService/pkg/metrics"
	"github.com/m04kA/VSC-SchedulingService/pkg/simpletxmanager"
	"github.com/m04kA/VSC-SchedulingService/pkg/txmanager"
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

	log.Info("Starting VSC-SchedulingService...")
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

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository     *bookingRepo.Repository
		bayRepository         *bayRepo.Repository
		bayScheduleRepository *bayScheduleRepo.Repository
		serviceSlotRepository *serviceSlotRepo.Repository
		bayQueueRepository    *bayQueueRepo.Repository
		assignmentRepository  *assignmentRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases)
	type TxManager interface {
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		bayRepository = bayRepo.NewRepository(wrappedDB)
		bayScheduleRepository = bayScheduleRepo.NewRepository(wrappedDB)
		serviceSlotRepository = serviceSlotRepo.NewRepository(wrappedDB)
		bayQueueRepository = bayQueueRepo.NewRepository(wrappedDB)
		assignmentRepository = assignmentRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		bayRepository = bayRepo.NewRepository(db)
		bayScheduleRepository = bayScheduleRepo.NewRepository(db)
		serviceSlotRepository = serviceSlotRepo.NewRepository(db)
		bayQueueRepository = bayQueueRepo.NewRepository(db)
		assignmentRepository = assignmentRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(bookingRepository, log)
	baySvc := baysService.NewService(bayRepository, log)
	slotsSvc := slotsService.NewService(serviceSlotRepository, log)
	scheduleSvc := scheduleService.NewService(
		serviceSlotRepository,
		bayScheduleRepository,
		bayQueueRepository,
		time.Duration(cfg.Scheduling.SnapshotTTLSeconds)*time.Second,
		log,
	)

	// Инициализируем use cases
	generateScheduleUseCase := generateScheduleUC.NewUseCase(
		bayRepository,
		bayScheduleRepository,
		txMgr,
		cfg.Scheduling.DefaultSlotLengthMinutes,
		log,
	)
	reserveSlotUseCase := reserveSlotUC.NewUseCase(
		bookingRepository,
		bayRepository,
		bayScheduleRepository,
		serviceSlotRepository,
		txMgr,
		scheduleSvc,
		log,
	)
	enqueueBookingUseCase := enqueueBookingUC.NewUseCase(
		bookingRepository,
		bayRepository,
		bayQueueRepository,
		txMgr,
		scheduleSvc,
		log,
	)
	checkInUseCase := checkInUC.NewUseCase(bookingRepository, txMgr, log)
	startServiceUseCase := startServiceUC.NewUseCase(
		bookingRepository,
		bayScheduleRepository,
		assignmentRepository,
		txMgr,
		scheduleSvc,
		log,
	)
	pauseServiceUseCase := pauseServiceUC.NewUseCase(bookingRepository, txMgr, log)
	completeServiceUseCase := completeServiceUC.NewUseCase(
		bookingRepository,
		bayScheduleRepository,
		bayQueueRepository,
		assignmentRepository,
		txMgr,
		scheduleSvc,
		cfg.Scheduling.EarlyCompletionThresholdMinutes,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		bayScheduleRepository,
		serviceSlotRepository,
		bayQueueRepository,
		assignmentRepository,
		txMgr,
		scheduleSvc,
		log,
	)
	assignStaffUseCase := assignStaffUC.NewUseCase(
		bookingRepository,
		assignmentRepository,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(bookingSvc, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	getBranchBookings := getBranchBookingsHandler.NewHandler(bookingSvc, log)
	createBay := createBayHandler.NewHandler(baySvc, log)
	listBays := listBaysHandler.NewHandler(baySvc, log)
	updateBayState := updateBayStateHandler.NewHandler(baySvc, log)
	createServiceSlot := createServiceSlotHandler.NewHandler(slotsSvc, log)
	updateSlotState := updateSlotStateHandler.NewHandler(slotsSvc, log)
	getAvailability := getAvailabilityHandler.NewHandler(scheduleSvc, log)
	getBayGrid := getBayGridHandler.NewHandler(scheduleSvc, log)
	peekQueue := peekQueueHandler.NewHandler(scheduleSvc, log)
	generateSchedule := generateScheduleHandler.NewHandler(generateScheduleUseCase, log)
	reserveSlot := reserveSlotHandler.NewHandler(reserveSlotUseCase, log)
	enqueueBooking := enqueueBookingHandler.NewHandler(enqueueBookingUseCase, log)
	checkIn := checkInHandler.NewHandler(checkInUseCase, log)
	startService := startServiceHandler.NewHandler(startServiceUseCase, log)
	pauseService := pauseServiceHandler.NewHandler(pauseServiceUseCase, log)
	completeService := completeServiceHandler.NewHandler(completeServiceUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	assignStaff := assignStaffHandler.NewHandler(assignStaffUseCase, log)

	// Настраиваем роутер
	r := mux.NewRouter()

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

	// Healthcheck
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные для записи слоты филиала
	api.HandleFunc("/branches/{branchId}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Список боксов филиала
	api.HandleFunc("/branches/{branchId}/bays", listBays.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Бронирования ---
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bookings/{bookingId}/reserve", reserveSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/enqueue", enqueueBooking.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/check-in", checkIn.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/start", startService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/pause", pauseService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/complete", completeService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bookings/{bookingId}/assignments", assignStaff.Handle).Methods(http.MethodPost)

	// --- Управление филиалом (для операторов) ---
	protected.HandleFunc("/branches/{branchId}/bays", createBay.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/branches/{branchId}/bookings", getBranchBookings.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bays/{bayId}/state", updateBayState.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/branches/{branchId}/slots", createServiceSlot.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/slots/{slotId}/state", updateSlotState.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/bays/{bayId}/schedule", generateSchedule.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/bays/{bayId}/schedule", getBayGrid.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/bays/{bayId}/queue", peekQueue.Handle).Methods(http.MethodGet)

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
