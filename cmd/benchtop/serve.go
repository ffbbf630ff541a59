package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/benchtop-sh/benchtop/internal/config"
	"github.com/benchtop-sh/benchtop/internal/httpapi"
	"github.com/benchtop-sh/benchtop/internal/lab"
)

func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: benchtop serve [--addr ADDR] [--data-dir DIR]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Serve the lab data HTTP API the bench widgets read from.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	addr := fs.String("addr", "", "Listen address (default: from config, 127.0.0.1:8470)")
	dataDir := fs.String("data-dir", "", "Data directory (default: from config)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "serve takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *addr == "" {
		*addr = cfg.HTTP.Addr
	}
	if *dataDir == "" {
		if *dataDir, err = cfg.DataDir(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))

	store, err := lab.Open(*dataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	srv := &http.Server{
		Addr:         *addr,
		Handler:      httpapi.NewServer(store, logger),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, cancel := signalContext()
	defer cancel()
	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("lab API listening", "addr", *addr, "data_dir", *dataDir)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
