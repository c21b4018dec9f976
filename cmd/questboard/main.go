package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"questboard/internal/api"
	"questboard/internal/config"
	"questboard/internal/repository"
	"questboard/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	missionRepo := repository.NewMissionRepository(db)
	userMissionRepo := repository.NewUserMissionRepository(db)
	itemRepo := repository.NewShopItemRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)

	clock := service.SystemClock()
	ledgerSvc := service.NewLedgerService(db, userRepo, transactionRepo, clock)
	userSvc := service.NewUserService(userRepo)
	taskSvc := service.NewTaskService(taskRepo, userRepo, clock)
	missionSvc := service.NewMissionService(db, missionRepo, userMissionRepo, userRepo, taskRepo, ledgerSvc, clock, logger)
	shopSvc := service.NewShopService(db, itemRepo, purchaseRepo, userRepo, ledgerSvc, clock)

	scheduler := service.NewSchedulerService(time.Local)
	if _, err := scheduler.ScheduleInterval(cfg.SweepInterval, func() {
		jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := missionSvc.SweepExpired(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("mission sweep", zap.Error(err))
		}
	}); err != nil {
		logger.Fatal("schedule sweep", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(userSvc, taskSvc, missionSvc, shopSvc, ledgerSvc, logger)
	router := api.NewRouter(handler, logger, cfg.AllowOrigins)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Info("questboard started", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
