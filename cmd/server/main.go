package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"elon_broker/internal/api"
	"elon_broker/internal/auth"
	"elon_broker/internal/config"
	"elon_broker/internal/copytrading"
	"elon_broker/internal/dashboard"
	"elon_broker/internal/funding"
	"elon_broker/internal/keepalive"
	"elon_broker/internal/kyc"
	"elon_broker/internal/loans"
	"elon_broker/internal/market"
	"elon_broker/internal/plans"
	"elon_broker/internal/referrals"
	"elon_broker/internal/storage"
	"elon_broker/internal/trading"
)

func main() {
	// Конфигурация slog для вывода в файл и stdout
	bootstrapLogger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen,
	}))

	cfg := config.Load(bootstrapLogger)

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		log.Fatal("Failed to open log file:", err)
	}
	defer logFile.Close()

	// Pretty handler для stdout с цветами
	prettyHandler := tint.NewHandler(os.Stdout, &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: time.Kitchen, // "3:04PM"
		AddSource:  false,
		NoColor:    false,
	})

	// Обычный текстовый handler для файла
	fileHandler := slog.NewTextHandler(logFile, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	// Мультиплексируем логи в оба handler'а
	logger := slog.New(&multiHandler{
		handlers: []slog.Handler{prettyHandler, fileHandler},
	})

	logger.Info("=== Elon Investment Broker API ===")

	// Инициализация БД. Сервер стартует и без базы, чтобы health чеки
	// продолжали работать, но регистрация и вход будут недоступны.
	var users api.UserStore

	if cfg.DatabaseURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		userStorage, err := storage.NewUserStorage(ctx, cfg.DatabaseURL)
		cancel()

		if err != nil {
			logger.Error("❌ Database initialization failed, starting without user accounts", slog.Any("error", err))
		} else {
			defer userStorage.Close()
			users = userStorage

			logger.Info("✅ Database synchronized")
		}
	}

	// Инициализация сервисов
	authService := auth.NewService(cfg.JWTSecret, cfg.AdminJWTSecret, 24*time.Hour) // Токен действителен 24 часа
	admins := auth.NewAdminStore(authService, "admin123", logger)

	ledger := funding.NewLedger()
	withdrawals := funding.NewWithdrawalService(ledger, logger)
	deposits := funding.NewDepositService(ledger, logger)
	defer deposits.Stop()

	seed := time.Now().UnixNano()
	simulator := copytrading.NewSimulator(seed, logger)
	copyTrading := copytrading.NewService(simulator, logger)
	marketService := market.NewService(seed, logger)

	handler := api.New(api.Deps{
		Auth:                 authService,
		Admins:               admins,
		Users:                users,
		Ledger:               ledger,
		Withdrawals:          withdrawals,
		Deposits:             deposits,
		Simulator:            simulator,
		CopyTrading:          copyTrading,
		Market:               marketService,
		Trading:              trading.NewService(logger),
		Plans:                plans.NewService(logger),
		KYC:                  kyc.NewService(logger),
		Loans:                loans.NewService(seed, logger),
		Referrals:            referrals.NewService(logger),
		Dashboard:            dashboard.NewService(),
		KeepAlive:            keepalive.NewTracker(),
		FrontendURL:          cfg.FrontendURL,
		Environment:          cfg.Environment,
		TempAdminResetSecret: cfg.TempAdminResetSecret,
	}, logger)

	router := handler.SetupRouter()

	// Фоновые симуляции трейдеров и котировок
	simCtx, stopSims := context.WithCancel(context.Background())
	defer stopSims()

	go simulator.Run(simCtx)
	go marketService.Run(simCtx)

	// HTTP сервер
	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		logger.Info("🚀 Server starting...", slog.String("address", cfg.Address))
		logger.Info("🌍 Environment: " + cfg.Environment)
		logger.Info("🔗 Frontend URL: " + cfg.FrontendURL)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("🛑 Shutting down server...")

	stopSims()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", slog.Any("error", err))
	}

	logger.Info("✅ Server stopped")
}

// multiHandler отправляет логи в несколько handlers одновременно
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}

	return false
}

func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if err := h.Handle(ctx, record); err != nil {
			return err
		}
	}

	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}

	return &multiHandler{handlers: handlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		handlers[i] = h.WithGroup(name)
	}

	return &multiHandler{handlers: handlers}
}
