package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/lojf/clientbook/internal/config"
	"github.com/lojf/clientbook/internal/db"
	"github.com/lojf/clientbook/internal/handlers"
	"github.com/lojf/clientbook/internal/logger"
	"github.com/lojf/clientbook/internal/metrics"
	"github.com/lojf/clientbook/internal/services"
	"github.com/lojf/clientbook/internal/suggest"
	"github.com/lojf/clientbook/internal/views"
	"github.com/lojf/clientbook/internal/web"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().Int("port", 0, "listen port (overrides PORT)")
	_ = opts.v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}

func serve(ctx context.Context, cfg *config.Config) error {
	z, err := logger.New("clientbook", cfg.Env)
	if err != nil {
		return err
	}
	defer logger.Sync(z)
	log := z.Sugar()

	conn, err := db.Open(cfg.DBPath, z)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			log.Warnw("closing database", "err", err)
		}
	}()

	set, err := views.Parse()
	if err != nil {
		return err
	}

	m := metrics.New("clientbook")
	sg := suggest.New(cfg.Suggest.URL, cfg.Suggest.Token, cfg.Suggest.Timeout)
	if _, ok := sg.(suggest.Nop); ok {
		log.Infow("suggestion service disabled")
	}

	h := handlers.New(handlers.Deps{
		Views:   set,
		Clients: services.NewClients(conn, log.Named("clients"), m),
		Suggest: sg,
		Metrics: m,
		Ping:    func() error { return db.Ping(conn) },
		Log:     log.Named("handlers"),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           web.Router(h, z),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("clientbook listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		log.Infow("shutting down", "timeout", cfg.ShutdownTimeout)
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Errorw("server stopped", "err", err)
		return err
	}
	return nil
}
