package server

import (
	"flag"
	"net/http"
	"time"

	"github.com/iov-one/weave-escrow/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagDebug   = "debug"
	flagMetrics = "metrics"
)

// StartConfig holds the parsed flags of the start command.
type StartConfig struct {
	Bind    string
	Debug   bool
	Metrics string
}

func parseFlags(args []string) (StartConfig, error) {
	var cfg StartConfig
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&cfg.Bind, flagBind, "tcp://localhost:26658", "address server listens on")
	startFlags.BoolVar(&cfg.Debug, flagDebug, false, "call stack returned on error")
	startFlags.StringVar(&cfg.Metrics, flagMetrics, "", "address to expose prometheus metrics on, disabled if empty")
	if err := startFlags.Parse(args); err != nil {
		return cfg, errors.Wrap(errors.ErrInput, err.Error())
	}
	return cfg, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(string, log.Logger, bool) (abci.Application, error)

// StartCmd initializes the application, and runs the abci server until
// the process is terminated.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	cfg, err := parseFlags(args)
	if err != nil {
		return err
	}

	// Generate the app in the proper dir
	app, err := gen(home, logger, cfg.Debug)
	if err != nil {
		return err
	}

	svr, err := server.NewServer(cfg.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))

	metrics := metricsServer(cfg.Metrics, logger)

	logger.Info("Starting ABCI app", "bind", cfg.Bind)
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "cannot start server")
	}

	cmn.TrapSignal(logger, func() {
		// Cleanup
		if metrics != nil {
			metrics.Close()
		}
		svr.Stop()
	})

	// Run forever.
	select {}
}

// metricsServer exposes the default prometheus registry over http. It
// returns nil when addr is empty.
func metricsServer(addr string, logger log.Logger) *http.Server {
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server failed", "err", err)
		}
	}()
	return srv
}
