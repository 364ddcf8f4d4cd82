// Command order-pipeline обрабатывает демонстрационные заказы и ждёт Enter перед выходом.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orderflow/internal/app"
	"github.com/vladislavdragonenkov/orderflow/internal/version"
)

// setupLogger настраивает формат и уровень логирования.
func setupLogger(level log.Level) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetLevel(level)
}

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		setupLogger(log.InfoLevel)
		log.WithError(err).Fatal("некорректная конфигурация")
	}
	setupLogger(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.WithFields(log.Fields{
		"storage":      cfg.StorageDriver,
		"metrics_addr": cfg.MetricsAddr,
		"kafka":        len(cfg.Brokers()) > 0,
	}).Info(version.Banner("order-pipeline"))

	if err := app.Run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		log.WithError(err).Fatal("пайплайн завершился с ошибкой")
	}

	log.Info("order-pipeline остановлен")
}
