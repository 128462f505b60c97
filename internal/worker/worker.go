// Package worker drains the observation queue and reposts each payload to the
// dashboard's ingestion endpoint, authenticated with the shared secret.
package worker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Worker consumes queued observations and forwards them over HTTP.
type Worker struct {
	cfg    *config.WorkerConfig
	client *http.Client
	logger *slog.Logger
}

// New creates a Worker from the given configuration.
func New(cfg *config.WorkerConfig, logger *slog.Logger) *Worker {
	return &Worker{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.HTTPTimeout},
		logger: logger,
	}
}

// Run connects to the broker and processes deliveries until the channel
// closes. It always returns a non-nil error; the caller decides whether to
// reconnect.
func (w *Worker) Run() error {
	conn, err := amqp.Dial(w.cfg.RabbitURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(w.cfg.RabbitQueue, true, false, false, false, nil)
	if err != nil {
		return err
	}

	msgs, err := ch.Consume(q.Name, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	w.logger.Info("worker started, waiting for messages", "queue", q.Name)

	for d := range msgs {
		w.Handle(d)
	}

	return amqp.ErrClosed
}

// Handle processes one delivery: malformed payloads are dropped, failed posts
// are requeued, successes are acked.
func (w *Worker) Handle(d amqp.Delivery) {
	var in weather.CreateInput
	if err := json.Unmarshal(d.Body, &in); err != nil {
		w.logger.Warn("dropping invalid payload", "err", err)
		d.Nack(false, false)
		return
	}

	if err := w.post(d.Body); err != nil {
		w.logger.Error("failed to post observation, requeueing", "err", err)
		d.Nack(false, true)
		return
	}

	d.Ack(false)
	w.logger.Info("processed observation", "timestamp", in.Timestamp)
}

func (w *Worker) post(body []byte) error {
	req, err := http.NewRequest(http.MethodPost, w.cfg.BackendURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-worker-secret", w.cfg.WorkerSecret)

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return &backendError{status: resp.StatusCode}
	}
	return nil
}

type backendError struct {
	status int
}

func (e *backendError) Error() string {
	return fmt.Sprintf("backend returned status %d", e.status)
}
