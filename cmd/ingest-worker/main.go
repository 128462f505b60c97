package main

import (
	"os"
	"time"

	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/logging"
	"github.com/i474232898/weather-dashboard/internal/worker"
)

func main() {
	log := logging.New("ingest-worker")

	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	w := worker.New(cfg, log)
	for {
		if err := w.Run(); err != nil {
			log.Error("worker stopped, retrying in 5s", "err", err)
		}
		time.Sleep(5 * time.Second)
	}
}
