package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rvalen1123/msc-admin-assist-sub001/internal/auth"
	"github.com/rvalen1123/msc-admin-assist-sub001/internal/server"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/renderers/vanilla"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the wizard pages and the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Addr = addr
			}
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides INTAKE_ADDR")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	svc, records, err := a.services(ctx)
	if err != nil {
		return err
	}
	defer records.Close()

	stopSweeper, err := svc.StartSweeper(a.cfg.SweepSchedule)
	if err != nil {
		return err
	}
	defer stopSweeper()

	tokens, err := auth.NewTokens(a.cfg.JWTSecret, auth.WithTTL(a.cfg.TokenTTL))
	if err != nil {
		return err
	}
	selector, err := render.NewThemeSelector(render.DefaultThemeManifest())
	if err != nil {
		return err
	}
	theme, err := render.ResolveTheme(selector, a.cfg.Theme, a.cfg.ThemeVariant)
	if err != nil {
		return err
	}

	pages, err := vanilla.New(a.pageOptions()...)
	if err != nil {
		return err
	}
	translator, err := a.translator()
	if err != nil {
		return err
	}

	srv, err := server.New(svc, auth.NewService(records.Users, tokens), tokens,
		server.WithLogger(a.logger),
		server.WithTheme(theme),
		server.WithPages(pages),
		server.WithTranslator(translator, a.cfg.Locale),
	)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Addr:              a.cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("listening", zap.String("addr", a.cfg.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
