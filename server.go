package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/mirosubs/xdrpc/endpoint"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServer(options Options) (*endpoint.Server, error) {
	srv := &endpoint.Server{
		AllowedOrigins:   options.Serve.AllowOrigin,
		MaxContentLength: options.Serve.MaxContentLength,
	}
	if err := srv.Register("", &Builtins{Started: time.Now()}); err != nil {
		return nil, err
	}
	return srv, nil
}

func runServe(options Options) error {
	srv, err := newServer(options)
	if err != nil {
		return err
	}
	listener, err := net.Listen("tcp", options.Serve.Bind)
	if err != nil {
		if strings.HasSuffix(err.Error(), "bind: permission denied") {
			err = ErrExplain{err, "Binding to low-numbered ports requires elevated permissions. Try a port above 1024 with --bind."}
		}
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return serve(ctx, listener, srv)
}

// serve runs srv on listener until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, listener net.Listener, srv *endpoint.Server) error {
	httpServer := &http.Server{
		Handler: srv.Handler(),
	}
	if len(srv.AllowedOrigins) == 0 {
		logger.Warning("No --allow-origin given, cross-domain calls are accepted from any origin.")
	}
	logger.Infof("Serving methods %s (version %s), listening on: http://%s/", strings.Join(srv.MethodNames(), ", "), Version, listener.Addr())

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := httpServer.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
