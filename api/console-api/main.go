// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/HN-Vignolles/sounds/api/console-api/config"
	internal_controller "github.com/HN-Vignolles/sounds/api/console-api/internal/controller"
	internal_render "github.com/HN-Vignolles/sounds/api/console-api/internal/render"
	internal_session "github.com/HN-Vignolles/sounds/api/console-api/internal/session"
	internal_transport "github.com/HN-Vignolles/sounds/api/console-api/internal/transport"
	console_routers "github.com/HN-Vignolles/sounds/api/console-api/router"
	"github.com/HN-Vignolles/sounds/pkg/commons"
	"github.com/HN-Vignolles/sounds/pkg/utils"
)

const shutdownTimeout = 5 * time.Second

// console is one wired console process.
type console struct {
	logger     commons.Logger
	session    *internal_session.Session
	channel    *internal_transport.PushChannel
	controller *internal_controller.Controller
	engine     *gin.Engine
}

// newConsole queries the recorder for the media geometry and wires the
// session around it. Nothing is started when the geometry is unusable.
func newConsole(ctx context.Context, cfg *config.ConsoleConfig, logger commons.Logger) (*console, error) {
	recorder := internal_controller.NewRecorderClient(logger, cfg.Recorder.Url, cfg.Recorder.Timeout)
	geometry, err := internal_controller.LoadGeometry(ctx, recorder)
	if err != nil {
		return nil, err
	}
	logger.Infof("media geometry: dcs=%d capacity=%d atr=%.0f",
		geometry.ChunkSampleCount, geometry.Capacity(), geometry.AverageTransferRate)

	surface, err := internal_render.NewRasterSurface(cfg.Render.Width, cfg.Render.Height)
	if err != nil {
		return nil, err
	}
	session, err := internal_session.NewSession(logger, geometry, surface,
		internal_session.WithRenderInterval(cfg.Render.Interval),
		internal_session.WithInboxSize(cfg.Stream.InboxSize),
		internal_session.WithStride(cfg.Render.Stride),
	)
	if err != nil {
		return nil, err
	}

	streamURL, err := cfg.StreamURL()
	if err != nil {
		return nil, fmt.Errorf("invalid recorder url: %w", err)
	}
	channel, err := internal_transport.NewPushChannel(logger, streamURL, session,
		internal_transport.WithMaxBackoff(cfg.Stream.MaxBackoff),
	)
	if err != nil {
		return nil, err
	}

	controller := internal_controller.NewController(logger, recorder, session)
	return &console{
		logger:     logger,
		session:    session,
		channel:    channel,
		controller: controller,
		engine:     console_routers.NewEngine(cfg, logger, session, controller),
	}, nil
}

// run serves until ctx is cancelled or one of the parts fails.
func (c *console) run(ctx context.Context, server *http.Server) error {
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.session.Run(gCtx)
	})
	g.Go(func() error {
		return c.channel.Run(gCtx)
	})
	g.Go(func() error {
		c.logger.Infof("console listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("Shutting down...")
		cancel()
	}()

	gin.SetMode(utils.FromEnvironmentStr(cfg.Env).GinMode())
	app, err := newConsole(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("console startup failed: %v", err)
	}

	server := &http.Server{Addr: cfg.Address(), Handler: app.engine}
	if err := app.run(ctx, server); err != nil {
		logger.Errorf("console stopped: %v", err)
		os.Exit(1)
	}
	logger.Info("console stopped")
}
