package main

import (
	"bitbucket_v2/handler"
	"bitbucket_v2/helper"
	"bitbucket_v2/helper/atlassian/bitbucket_impl"
	"bitbucket_v2/log"
	"bitbucket_v2/metrics"
	"bitbucket_v2/model"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	gommonlog "github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	os.Setenv("APP_NAME", "bitbucket-watch")
	logger := log.InitLogger(false)
	// Check if KUBERNETES_SERVICE_HOST is set
	if _, exists := os.LookupEnv("KUBERNETES_SERVICE_HOST"); !exists {
		// If not in Kubernetes, set LOG_LEVEL to DEBUG
		os.Setenv("LOG_LEVEL", "DEBUG")
	}
	logger.SetLevel(log.GetLogLevel("LOG_LEVEL"))
}

func main() {
	configPath := os.Getenv("WATCH_CONFIG_FILE")
	if configPath == "" {
		configPath = "config_file/watch-config.yaml"
	}
	var cfg model.WatchConfig
	if err := helper.LoadConfigFile(configPath, &cfg); err != nil {
		log.Fatal(err)
	}

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Fatal(err)
	}

	options := cfg.Bitbucket
	options.WrapTransport = metrics.InstrumentTransport
	bitbucket := bitbucket_impl.New(&options)

	watchHandler := handler.NewWatchHandler(bitbucket)
	if err := watchHandler.HandlerWatchRepositories(cfg.WatchRepositories); err != nil {
		log.Fatal(err)
	}
	apiHandler := handler.ApiHandler{
		Bitbucket: bitbucket,
		Watch:     watchHandler,
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(gommonlog.INFO)
	apiHandler.Register(e)

	address := cfg.Server.Address
	if address == "" {
		address = ":1994"
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down bitbucket-watch")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := watchHandler.Shutdown(); err != nil {
		log.Error(err)
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error(err)
	}
}
