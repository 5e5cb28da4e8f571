package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/Luismorlan/scrooge_coin/config"
	"github.com/Luismorlan/scrooge_coin/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "scrooge",
		Usage: "admit batches of transactions into a ledger of unspent outputs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the yaml config, defaults are used when empty",
				EnvVars: []string{"SCROOGE_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			demoCommand(),
			replayCommand(),
		},
	}
}

// setup loads the config and builds the logger. Logs go to stderr so stdout only carries results.
func setup(c *cli.Context) (config.AppConfig, zerolog.Logger, error) {
	cfg := config.DefaultAppConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.LoadAppConfig(path); err != nil {
			return cfg, zerolog.Nop(), err
		}
	}
	log, err := logger.New("scrooge", cfg.LogLevel, cfg.PrettyLogs, c.App.ErrWriter)
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	if cfg.MetricsEnabled && cfg.MetricsAddr != "" {
		go serveMetrics(cfg.MetricsAddr, log)
	}
	return cfg, log, nil
}

func serveMetrics(addr string, log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info().Str("addr", addr).Msg("serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics server stopped")
	}
}
