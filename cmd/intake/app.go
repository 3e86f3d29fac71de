package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	intake "github.com/rvalen1123/msc-admin-assist-sub001"
	"github.com/rvalen1123/msc-admin-assist-sub001/internal/auth"
	"github.com/rvalen1123/msc-admin-assist-sub001/internal/config"
	"github.com/rvalen1123/msc-admin-assist-sub001/internal/logging"
	"github.com/rvalen1123/msc-admin-assist-sub001/internal/service"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/redirect"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/render"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/renderers/tui"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/renderers/vanilla"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/store"
	"github.com/rvalen1123/msc-admin-assist-sub001/pkg/templates"
)

// app carries state shared by every subcommand. driver and opener are nil
// outside tests.
type app struct {
	envFiles []string
	logLevel string

	cfg    *config.Config
	logger *zap.Logger

	driver tui.PromptDriver
	opener redirect.Opener
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "intake",
		Short: "Multi-step intake and order wizard service",
		Long: `intake serves the onboarding, order and insurance wizards over HTTP,
walks them interactively in the terminal, and checks template files.

Settings are read from .env and INTAKE_* environment variables.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides INTAKE_LOG_LEVEL")

	root.AddCommand(newServeCmd(a), newFillCmd(a), newRenderCmd(a), newLintCmd(a))
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.envFiles...)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

// services opens and seeds the store, loads templates and builds the intake
// service. The caller closes the returned set.
func (a *app) services(ctx context.Context) (*service.Service, *store.Set, error) {
	if err := a.cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if a.cfg.UsesDevSecret() {
		a.logger.Warn("using the development JWT secret; set INTAKE_JWT_SECRET")
	}

	records, err := store.Open(ctx, a.cfg.DBDriver, a.cfg.DBDSN)
	if err != nil {
		return nil, nil, err
	}
	admin, err := auth.NewAdmin(a.cfg.AdminEmail, a.cfg.AdminPassword)
	if err != nil {
		records.Close()
		return nil, nil, fmt.Errorf("admin account: %w", err)
	}
	if err := store.Seed(ctx, records, admin); err != nil {
		records.Close()
		return nil, nil, err
	}

	tpls, err := a.templates()
	if err != nil {
		records.Close()
		return nil, nil, err
	}
	svc, err := service.New(tpls, records,
		service.WithLogger(a.logger),
		service.WithSessionTTL(a.cfg.SessionTTL),
		service.WithDocuSealURL(a.cfg.DocuSealURL),
	)
	if err != nil {
		records.Close()
		return nil, nil, err
	}
	a.logger.Info("intake ready",
		zap.String("db_driver", a.cfg.DBDriver),
		zap.Strings("templates", svc.TemplateIDs()),
	)
	return svc, records, nil
}

// templates returns the built-in templates plus those under
// INTAKE_TEMPLATES_DIR.
func (a *app) templates() (*templates.Store, error) {
	var fsys fs.FS
	if dir := a.cfg.TemplatesDir; dir != "" {
		fsys = os.DirFS(dir)
	}
	return intake.LoadTemplates(fsys)
}

// pageOptions points the HTML renderer at INTAKE_PAGES_DIR when set.
func (a *app) pageOptions() []vanilla.Option {
	if a.cfg.PagesDir == "" {
		return nil
	}
	return []vanilla.Option{vanilla.WithTemplatesDir(a.cfg.PagesDir)}
}

// translator loads INTAKE_TRANSLATIONS_FILE. It returns nil when unset.
func (a *app) translator() (render.Translator, error) {
	if a.cfg.Translations == "" {
		return nil, nil
	}
	data, err := os.ReadFile(a.cfg.Translations)
	if err != nil {
		return nil, fmt.Errorf("translations: %w", err)
	}
	catalog, err := render.ParseCatalog(data)
	if err != nil {
		return nil, err
	}
	return catalog, nil
}
