// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/HN-Vignolles/sounds/api/recorder-api/config"
	recorder_routers "github.com/HN-Vignolles/sounds/api/recorder-api/router"
	"github.com/HN-Vignolles/sounds/pkg/commons"
	"github.com/HN-Vignolles/sounds/pkg/utils"
)

func main() {
	v, err := config.InitConfig()
	if err != nil {
		log.Fatalf("unable to read config: %v", err)
	}
	cfg, err := config.GetApplicationConfig(v)
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := commons.NewApplicationLogger(
		commons.Name(cfg.Name),
		commons.Level(cfg.LogLevel),
		commons.Path(cfg.LogPath),
	)
	if err != nil {
		log.Fatalf("unable to create logger: %v", err)
	}
	defer logger.Sync()

	gin.SetMode(utils.FromEnvironmentStr(cfg.Env).GinMode())
	engine, recorder, err := recorder_routers.NewRecorderService(cfg, logger)
	if err != nil {
		logger.Fatalf("unable to create recorder: %v", err)
	}
	server := &http.Server{Addr: cfg.Address(), Handler: engine}

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	drained := make(chan struct{})
	go func() {
		defer close(drained)
		<-sigChan
		logger.Info("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := recorder.Close(); err != nil {
			logger.Warnw("recorder did not stop cleanly", "error", err)
		}
		if err := server.Shutdown(ctx); err != nil {
			logger.Errorf("server shutdown: %v", err)
		}
	}()

	logger.Infof("recorder listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("recorder server failed: %v", err)
	}
	<-drained
	logger.Info("recorder stopped")
}
