package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skalibog/lqhunter/internal/analysis/aggregator"
	"github.com/skalibog/lqhunter/internal/cache"
	"github.com/skalibog/lqhunter/internal/config"
	"github.com/skalibog/lqhunter/internal/exchange"
	"github.com/skalibog/lqhunter/internal/server"
	"github.com/skalibog/lqhunter/internal/storage"
	"github.com/skalibog/lqhunter/internal/ui"
	"github.com/skalibog/lqhunter/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	logger.Init()
	defer logger.GetLogger().Sync()

	// Обработка флагов командной строки
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	flag.Parse()

	// Проверяем наличие файла конфигурации
	logger.Info("Проверка наличия файла конфигурации", zap.String("path", *configPath))
	if _, err := os.Stat(*configPath); os.IsNotExist(err) {
		logger.Fatal("Файл конфигурации не найден", zap.String("path", *configPath))
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatal("Ошибка загрузки конфигурации", zap.Error(err))
	}

	// Создаем контекст с возможностью отмены через горутину
	ctx, cancel := context.WithCancel(context.Background())

	// Настраиваем обработку сигналов завершения
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nЗавершение работы...")
		cancel()
		time.Sleep(3 * time.Second) // Даем горутинам время на завершение
		os.Exit(0)
	}()

	// Инициализируем клиент биржи
	client := exchange.NewBinanceClient(cfg.Binance)

	// Создаем аналитический конвейер и кеш снимков
	analyzer := aggregator.NewAnalyzer(client, cfg.Trading.Symbols)
	store := cache.New()

	// Инициализируем регистратор показаний, если он включен
	var recorder storage.Recorder
	if cfg.Storage.Enabled {
		recorder, err = storage.NewInfluxRecorder(cfg.Storage)
		if err != nil {
			logger.Fatal("Ошибка инициализации хранилища", zap.Error(err))
		}
		defer recorder.Close()
	}

	// Запускаем периодическое обновление снимков
	go func() {
		refresh := func() {
			snapshots := analyzer.AnalyzeAll(ctx)
			store.PutAll(snapshots)
			logger.Info("Цикл анализа завершен", zap.Int("symbols", len(snapshots)))

			if recorder == nil {
				return
			}
			for _, snapshot := range snapshots {
				if err := recorder.RecordReading(ctx, snapshot); err != nil {
					logger.Warn("Показания не записаны",
						zap.String("symbol", snapshot.Symbol), zap.Error(err))
				}
			}
		}

		refresh()

		ticker := time.NewTicker(time.Duration(cfg.Trading.RefreshSeconds) * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				refresh()
			case <-ctx.Done():
				return
			}
		}
	}()

	// Запускаем HTTP-сервер
	srv := server.New(cfg.Server, analyzer, store)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Ошибка HTTP-сервера", zap.Error(err))
		}
	}()
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	// Панель запускается в основном потоке (блокирующий вызов),
	// иначе процесс просто ждет отмены контекста
	if cfg.UI.Enabled {
		dashboard := ui.NewTermUI(cfg.UI, store)
		if err := dashboard.Start(); err != nil {
			logger.Error("Ошибка запуска панели", zap.Error(err))
		}
		cancel()
		return
	}

	<-ctx.Done()
}
