// manager-dashboard serves the manager dashboard page and renders its
// widgets from the metrics backend.
//
// Usage:
//
//	manager-dashboard --config config.yaml --addr :8870
package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "manager-dashboard",
		Usage: "serve the manager dashboard",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to the YAML config file",
				EnvVars: []string{"DASHBOARD_CONFIG"},
				Value:   "config.yaml",
				Aliases: []string{"c"},
			},
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "listen address, overrides server.addr",
				EnvVars: []string{"DASHBOARD_ADDR"},
			},
			&cli.StringFlag{
				Name:    "backend",
				Usage:   "metrics backend base URL, overrides backend.base_url",
				EnvVars: []string{"DASHBOARD_BACKEND"},
			},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx.String("config"))
	if err != nil {
		return err
	}
	if v := ctx.String("addr"); v != "" {
		cfg.Server.Addr = v
	}
	if v := ctx.String("backend"); v != "" {
		cfg.Backend.BaseURL = v
	}

	logger, closer, err := newLogger(cfg.Logging.File, cfg.Logging.Level)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	var store prefStore
	if cfg.MySQL.Host == "" {
		logger.Warn("mysql not configured, manager id cache is in-memory")
		store = newMemPrefStore()
	} else {
		db, err := openDB(cfg.MySQL)
		if err != nil {
			return err
		}
		store = &gormPrefStore{db: db}
	}

	reg := prometheus.NewRegistry()
	m := newMetrics(reg)
	sessions := newSessionRegistry(cfg, store, m, logger, nil)
	sessions.startSweeper(cfg.Dashboard.SweepInterval)
	defer sessions.closeAll()

	r := newRouter(sessions, logger)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	logger.WithFields(logrus.Fields{
		"addr":            cfg.Server.Addr,
		"backend":         cfg.Backend.BaseURL,
		"callstats_owner": parseCallStatsOwner(cfg.Dashboard.CallStatsOwner),
	}).Info("dashboard listening")
	return r.Run(cfg.Server.Addr)
}

func newRouter(sessions *sessionRegistry, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	r.GET("/", serveDashboard)
	registerEventRoutes(r, sessions)
	return r
}
