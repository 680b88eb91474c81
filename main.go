package main

import (
	"StoreImport/internal/config"
	"StoreImport/internal/database"
	"StoreImport/internal/handlers/httphandler"
	"StoreImport/internal/metrics"
	"StoreImport/internal/migrate"
	"StoreImport/internal/source"
	"StoreImport/internal/store/wpdb"
	"StoreImport/internal/telegram"
	"StoreImport/internal/version"
	"StoreImport/pkg/logging"
	"fmt"
	"net/http"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type app struct {
	cfg      *config.Config
	db       *sqlx.DB
	backend  *wpdb.Backend
	legacy   *wpdb.Legacy
	reporter *telegram.Reporter
}

func newApp(cfg *config.Config) (*app, error) {
	logger := logging.GetLogger()
	logger.Info("Start newApp")
	defer logger.Info("End newApp")

	db, err := database.Connect(cfg.DATABASE.Driver, cfg.DATABASE.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.DATABASE.Driver == database.DriverSQLite {
		if err := database.CreateDB(db, cfg.DATABASE.Prefix, false); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	a := &app{
		cfg:     cfg,
		db:      db,
		backend: wpdb.New(db, cfg.DATABASE.Prefix, cfg.DATABASE.UploadsURL),
		legacy:  wpdb.NewLegacy(db, cfg.DATABASE.Prefix),
	}
	if cfg.TELEGRAM.Report == 1 {
		a.reporter, err = telegram.New(cfg.TELEGRAM.BotToken, cfg.TELEGRAM.ChatID)
		if err != nil {
			logger.Errorf("Telegram report disabled: %v", err)
		}
	}
	return a, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		logging.GetLogger().Errorf("failed close db, error: %v", err)
	}
}

func (a *app) run(kind source.Kind) *migrate.Result {
	logger := logging.GetLogger()
	collector := metrics.New()

	adapter := migrate.NewAdapter(kind, a.backend, a.legacy, a.cfg.MIGRATION.OrderPageSize)
	res := migrate.New(a.backend, adapter, migrate.WithObserver(collector)).Run()

	if url := a.cfg.METRICS.PushgatewayURL; url != "" {
		if err := collector.Push(url, a.cfg.METRICS.Job); err != nil {
			logger.Error(err)
		}
	}
	if a.reporter != nil {
		a.reporter.Report(res)
	}
	return res
}

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "storeimport",
		Short:         "Migrate Velocity and WooCommerce shop data into the store schema",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "path to config.ini")

	load := func() (*config.Config, error) {
		config.SetPath(configPath)
		cfg := config.GetConfig()
		if err := logging.Init(cfg.LOG.Dir, cfg.LOG.Debug == 1); err != nil {
			return nil, err
		}
		logging.GetLogger().Infof("Version %s", version.GetVersion().String())
		return cfg, nil
	}

	var sourceName string
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run one migration and print the result as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if sourceName == "" {
				sourceName = cfg.MIGRATION.Source
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			res := a.run(source.ParseKind(sourceName))
			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return errors.Wrap(err, "failed json.MarshalIndent result")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	runCmd.Flags().StringVarP(&sourceName, "source", "s", "", "velocity or woocommerce (default from config)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP migration trigger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			addr := fmt.Sprintf(":%d", cfg.SERVICE.Port)
			logging.GetLogger().Infof("Listen %s", addr)
			return http.ListenAndServe(addr, httphandler.New(a.run).Router())
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetVersion().String())
		},
	}

	root.AddCommand(runCmd, serveCmd, versionCmd)
	if err := root.Execute(); err != nil {
		logging.GetLogger().Error(err)
		os.Exit(1)
	}
}
