// Package reportserver serves the run reports in an output directory over
// HTTP.
package reportserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"chatcheck/internal/store"
)

const shutdownTimeout = 5 * time.Second

// Config captures the settings for serving an output directory.
type Config struct {
	Addr      string
	OutputDir string
	// DBPath optionally enables the history endpoints.
	DBPath string
	Logger logrus.FieldLogger
}

// Serve starts an HTTP server and blocks until ctx is done or the server
// fails.
func Serve(ctx context.Context, cfg Config) error {
	if ctx == nil {
		return errors.New("reportserver: context is nil")
	}
	if cfg.Addr == "" {
		return errors.New("reportserver: addr is required")
	}
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("component", "reportserver")

	var history HistorySource
	if cfg.DBPath != "" {
		st, err := store.Open(ctx, cfg.DBPath, log)
		if err != nil {
			return err
		}
		defer st.Close()
		history = st
	}
	handler, err := NewHandler(cfg.OutputDir, history, log)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()
	log.WithFields(logrus.Fields{"addr": cfg.Addr, "output_dir": cfg.OutputDir}).Info("serving reports")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) || err == nil {
			return nil
		}
		return err
	}
}
