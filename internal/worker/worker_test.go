package worker

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/weather-dashboard/internal/config"
)

// fakeAcknowledger records the outcome of a single delivery.
type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

func newTestWorker(backendURL string) *Worker {
	return New(&config.WorkerConfig{
		BackendURL:   backendURL,
		WorkerSecret: "test-worker-secret",
		HTTPTimeout:  5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func delivery(body string) (amqp.Delivery, *fakeAcknowledger) {
	ack := &fakeAcknowledger{}
	return amqp.Delivery{Acknowledger: ack, Body: []byte(body)}, ack
}

func TestHandleAcksOnSuccessfulPost(t *testing.T) {
	var gotSecret, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("x-worker-secret")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	w := newTestWorker(srv.URL)
	d, ack := delivery(`{"timestamp":"2024-01-01T00:00:00Z","temperature":20}`)

	w.Handle(d)

	require.True(t, ack.acked)
	require.False(t, ack.nacked)
	require.Equal(t, "test-worker-secret", gotSecret)
	require.JSONEq(t, `{"timestamp":"2024-01-01T00:00:00Z","temperature":20}`, gotBody)
}

func TestHandleDropsMalformedPayload(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	w := newTestWorker(srv.URL)
	d, ack := delivery(`{not json`)

	w.Handle(d)

	require.False(t, ack.acked)
	require.True(t, ack.nacked)
	require.False(t, ack.requeue, "malformed payloads must not be requeued")
	require.Zero(t, calls, "malformed payloads must not reach the backend")
}

func TestHandleRequeuesOnBackendFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	w := newTestWorker(srv.URL)
	d, ack := delivery(`{"timestamp":"2024-01-01T00:00:00Z","temperature":20}`)

	w.Handle(d)

	require.False(t, ack.acked)
	require.True(t, ack.nacked)
	require.True(t, ack.requeue, "transient backend failures must requeue")
}

func TestHandleRequeuesWhenBackendUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	w := newTestWorker(srv.URL)
	d, ack := delivery(`{"timestamp":"2024-01-01T00:00:00Z","temperature":20}`)

	w.Handle(d)

	require.True(t, ack.nacked)
	require.True(t, ack.requeue)
}
