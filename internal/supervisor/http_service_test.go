// JNFO - Jellyfin Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/jnfo

package supervisor

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// fakeServer implements HTTPServer for lifecycle tests.
type fakeServer struct {
	listenErr   error
	shutdownErr error
	closed      chan struct{}
	shutdowns   int
}

func newFakeServer() *fakeServer {
	return &fakeServer{closed: make(chan struct{})}
}

func (f *fakeServer) ListenAndServe() error {
	if f.listenErr != nil {
		return f.listenErr
	}
	<-f.closed
	return http.ErrServerClosed
}

func (f *fakeServer) Shutdown(_ context.Context) error {
	f.shutdowns++
	close(f.closed)
	return f.shutdownErr
}

func TestServeGracefulShutdown(t *testing.T) {
	srv := newFakeServer()
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// Give the server goroutine a moment to start, then request shutdown
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}

	if srv.shutdowns != 1 {
		t.Errorf("expected exactly one Shutdown call, got %d", srv.shutdowns)
	}
}

func TestServeListenFailure(t *testing.T) {
	listenErr := errors.New("address already in use")
	srv := newFakeServer()
	srv.listenErr = listenErr
	svc := NewHTTPServerService(srv, time.Second)

	err := svc.Serve(context.Background())
	if !errors.Is(err, listenErr) {
		t.Errorf("expected listen error to propagate, got %v", err)
	}
}

func TestServeShutdownFailure(t *testing.T) {
	shutdownErr := errors.New("shutdown deadline exceeded")
	srv := newFakeServer()
	srv.shutdownErr = shutdownErr
	svc := NewHTTPServerService(srv, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, shutdownErr) {
			t.Errorf("expected shutdown error to propagate, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}

func TestServiceName(t *testing.T) {
	svc := NewHTTPServerService(newFakeServer(), 0)
	if svc.String() != "http-server" {
		t.Errorf("unexpected service name %q", svc.String())
	}
	if svc.shutdownTimeout != 10*time.Second {
		t.Errorf("expected default shutdown timeout, got %v", svc.shutdownTimeout)
	}
}
