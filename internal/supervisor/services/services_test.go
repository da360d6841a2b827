// Newsdesk - News Headlines Ingestion and Engagement API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/newsdesk

package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/newsdesk/internal/ingest"
)

// mockHTTPServer is a test double for HTTPServer.
type mockHTTPServer struct {
	listenErr     error
	shutdownErr   error
	listenCount   atomic.Int32
	shutdownCount atomic.Int32
	started       chan struct{}
	stopCh        chan struct{}
	stopOnce      sync.Once
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{
		started: make(chan struct{}, 1),
		stopCh:  make(chan struct{}),
	}
}

func (m *mockHTTPServer) ListenAndServe() error {
	m.listenCount.Add(1)
	select {
	case m.started <- struct{}{}:
	default:
	}
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.stopCh
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(ctx context.Context) error {
	m.shutdownCount.Add(1)
	m.stopOnce.Do(func() { close(m.stopCh) })
	return m.shutdownErr
}

var (
	_ suture.Service = (*HTTPServerService)(nil)
	_ suture.Service = (*IngestService)(nil)
	_ suture.Service = (*EventsService)(nil)
	_ suture.Service = (*MaintenanceService)(nil)
)

func TestHTTPServerService_GracefulShutdown(t *testing.T) {
	mock := newMockHTTPServer()
	svc := NewHTTPServerService(mock, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	select {
	case <-mock.started:
	case <-time.After(2 * time.Second):
		t.Fatal("ListenAndServe was not called")
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
	if mock.shutdownCount.Load() != 1 {
		t.Errorf("Shutdown called %d times, want 1", mock.shutdownCount.Load())
	}
}

func TestHTTPServerService_ListenError(t *testing.T) {
	mock := newMockHTTPServer()
	mock.listenErr = errors.New("address already in use")
	svc := NewHTTPServerService(mock, 0)

	err := svc.Serve(context.Background())
	if err == nil || !errors.Is(err, mock.listenErr) {
		t.Errorf("Serve() = %v, want wrapped listen error", err)
	}
	if svc.shutdownTimeout != 10*time.Second {
		t.Errorf("default shutdown timeout = %v", svc.shutdownTimeout)
	}
	if svc.String() != "http-server" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestHTTPServerService_RecordsAddr(t *testing.T) {
	svc := NewHTTPServerService(&http.Server{Addr: "127.0.0.1:3000"}, time.Second)
	if svc.addr != "127.0.0.1:3000" {
		t.Errorf("addr = %q", svc.addr)
	}
}

type countingIngester struct {
	runs atomic.Int32
}

func (c *countingIngester) IngestAll(ctx context.Context) ingest.Summary {
	c.runs.Add(1)
	return ingest.Summary{
		Results: []ingest.Result{{Category: "general", Inserted: 3}},
		Errors:  map[string]error{"sports": errors.New("boom")},
	}
}

func TestIngestService_RunsOnce(t *testing.T) {
	ing := &countingIngester{}
	svc := NewIngestService(ing)

	if svc.Done() || svc.Summary() != nil {
		t.Fatal("new service should not be done")
	}
	if err := svc.Serve(context.Background()); !errors.Is(err, suture.ErrDoNotRestart) {
		t.Fatalf("Serve() = %v, want ErrDoNotRestart", err)
	}
	if err := svc.Serve(context.Background()); !errors.Is(err, suture.ErrDoNotRestart) {
		t.Fatalf("second Serve() = %v, want ErrDoNotRestart", err)
	}
	if ing.runs.Load() != 1 {
		t.Errorf("IngestAll ran %d times, want 1", ing.runs.Load())
	}
	if !svc.Done() {
		t.Error("Done() = false after run")
	}
	if s := svc.Summary(); s == nil || !s.Failed() || s.Results[0].Inserted != 3 {
		t.Errorf("Summary() = %+v", s)
	}
}

type fakeTransport struct {
	startErr  error
	running   atomic.Bool
	shutdowns atomic.Int32
}

func (f *fakeTransport) Start(ctx context.Context) error {
	if f.startErr != nil {
		return f.startErr
	}
	f.running.Store(true)
	return nil
}

func (f *fakeTransport) Shutdown(ctx context.Context) {
	f.running.Store(false)
	f.shutdowns.Add(1)
}

func (f *fakeTransport) IsRunning() bool { return f.running.Load() }

func TestEventsService_Lifecycle(t *testing.T) {
	tr := &fakeTransport{}
	svc := NewEventsService(tr)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !tr.IsRunning() {
		if time.Now().After(deadline) {
			t.Fatal("transport never started")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if tr.shutdowns.Load() != 1 || tr.IsRunning() {
		t.Errorf("shutdowns = %d, running = %v", tr.shutdowns.Load(), tr.IsRunning())
	}
}

func TestEventsService_StartError(t *testing.T) {
	tr := &fakeTransport{startErr: errors.New("no broker")}
	if err := NewEventsService(tr).Serve(context.Background()); !errors.Is(err, tr.startErr) {
		t.Errorf("Serve() = %v, want start error", err)
	}
}

func TestMaintenanceService_RunsPeriodically(t *testing.T) {
	var calls atomic.Int32
	svc := NewMaintenanceService("checkpoint", 10*time.Millisecond, func(ctx context.Context) error {
		if calls.Add(1) == 1 {
			return errors.New("transient")
		}
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := svc.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve() = %v, want DeadlineExceeded", err)
	}
	if calls.Load() < 2 {
		t.Errorf("task ran %d times, want it to keep running after an error", calls.Load())
	}
	if svc.String() != "checkpoint" {
		t.Errorf("String() = %q", svc.String())
	}
}
