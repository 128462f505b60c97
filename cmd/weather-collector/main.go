package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/i474232898/weather-dashboard/internal/collector"
	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/logging"
)

func main() {
	log := logging.New("weather-collector")

	cfg, err := config.LoadCollector()
	if err != nil {
		log.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	publisher, err := collector.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		log.Error("failed to connect to rabbitmq", "err", err)
		os.Exit(1)
	}
	defer publisher.Close()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	client := collector.NewOpenMeteoClient(httpClient, cfg.OpenMeteoURL, cfg.Lat, cfg.Lon, log)

	runner := collector.NewRunner(client, publisher, cfg.FetchInterval, log)
	if err := runner.Start(); err != nil {
		log.Error("failed to start collector", "err", err)
		os.Exit(1)
	}
	defer runner.Stop()

	log.Info("collector started", "interval", cfg.FetchInterval, "queue", cfg.RabbitQueue)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info("collector stopping")
}
