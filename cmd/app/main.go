package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/todo-list/internal/config"
	"github.com/BuzzLyutic/todo-list/internal/handler"
	"github.com/BuzzLyutic/todo-list/internal/repo"
	"github.com/BuzzLyutic/todo-list/internal/service"
)

func main() {
	// Подключаем логгер
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Подключаем БД и создаем таблицу todos
	taskRepo, err := repo.Open(context.Background(), cfg.Driver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to open the Database", zap.String("driver", cfg.Driver), zap.Error(err)) // Fatal потому что дальнейшая работа теряет смысл
	}
	defer taskRepo.Close() // Запланированное закрытие соединения
	logger.Info("Successfully connected to the Database!", zap.String("driver", cfg.Driver))

	taskService := service.NewTaskService(taskRepo)
	r := handler.NewRouter(
		handler.NewTaskHandler(taskService, logger),
		handler.NewPageHandler(taskService, logger, cfg.DateLayout, cfg.PollInterval),
	)

	srv := http.Server{ // Создаем сервер
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	go func() { // Запуск сервера и обработка ошибок
		logger.Info("Server started", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
	logger.Info("Server stopped successfully!")
}
