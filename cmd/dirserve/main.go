// Package main implements the dirserve static file server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"dirserve/internal/config"
	"dirserve/internal/dirlist"
	"dirserve/internal/mimetype"
	"dirserve/internal/statcache"
	"dirserve/internal/vhttp"
)

const (
	statCacheSize = 1024
	statCacheTTL  = time.Second
)

var (
	flagListen string
	flagRoot   string
)

func main() {
	cmd := &cobra.Command{
		Use:   "dirserve [config.yaml]",
		Short: "Static file server with customizable directory listings",
		Long: `dirserve serves a directory tree over HTTP and renders an HTML
listing for every directory it is asked for. Listings can be styled with a
custom stylesheet, filtered by prefix/suffix rules and framed with HEADER.txt
and README.txt companion files, all controlled from a YAML configuration
file.`,
		Example: `dirserve /etc/dirserve.yaml
dirserve --root /srv/files --listen :9090`,
		Args: cobra.MaximumNArgs(1),
		RunE: runServer,
	}
	cmd.Flags().StringVar(&flagListen, "listen", "", "listen address (overrides config)")
	cmd.Flags().StringVar(&flagRoot, "root", "", "document root (overrides config)")

	if err := fang.Execute(
		context.Background(),
		cmd,
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if len(args) > 0 {
		var err error
		cfg, err = config.Load(args[0])
		if err != nil {
			return err
		}
	}
	if flagListen != "" {
		cfg.Listen = flagListen
	}
	if flagRoot != "" {
		cfg.Root = flagRoot
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	logrus.SetLevel(level)

	cache, err := statcache.New(statCacheSize, statCacheTTL)
	if err != nil {
		return fmt.Errorf("stat cache: %w", err)
	}

	policy := cfg.Policy()
	renderer := dirlist.NewRenderer(policy, mimetype.New(cfg.MimeTypes), cfg.ServerTag)

	pipeline := &vhttp.Pipeline{
		Root: cfg.Root,
		Handlers: []vhttp.Handler{
			dirlist.NewHandler(policy, cache, renderer),
			vhttp.FileHandler{},
		},
	}

	srv := &http.Server{
		Addr:        cfg.Listen,
		Handler:     pipeline,
		ReadTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	logrus.WithFields(logrus.Fields{
		"listen": cfg.Listen,
		"root":   cfg.Root,
	}).Info("dirserve started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		logrus.WithField("signal", sig.String()).Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
