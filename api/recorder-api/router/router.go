// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package recorder_routers

import (
	"io"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	recorder_api "github.com/HN-Vignolles/sounds/api/recorder-api/api"
	"github.com/HN-Vignolles/sounds/api/recorder-api/config"
	internal_recorder "github.com/HN-Vignolles/sounds/api/recorder-api/internal/recorder"
	"github.com/HN-Vignolles/sounds/pkg/commons"
)

// NewRecorderService creates the recorder described by cfg and its engine.
// Closing the returned closer stops a running take.
func NewRecorderService(cfg *config.RecorderConfig, logger commons.Logger) (*gin.Engine, io.Closer, error) {
	recorder, err := internal_recorder.NewRecorder(logger, cfg.Recorder())
	if err != nil {
		return nil, nil, err
	}
	return NewEngine(cfg, logger, recorder), recorder, nil
}

func NewEngine(cfg *config.RecorderConfig, logger commons.Logger, recorder *internal_recorder.Recorder) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "PUT", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))

	rApi := recorder_api.NewRecorderApi(cfg, logger, recorder)
	HealthCheckRoutes(engine, logger, rApi)
	RecorderRoutes(engine, logger, rApi)
	return engine
}

func HealthCheckRoutes(engine *gin.Engine, logger commons.Logger, rApi *recorder_api.RecorderApi) {
	logger.Info("Internal HealthCheckRoutes added to engine.")
	apiv1 := engine.Group("")
	{
		apiv1.GET("/readiness/", rApi.Readiness)
		apiv1.GET("/healthz/", rApi.Healthz)
	}
}

func RecorderRoutes(engine *gin.Engine, logger commons.Logger, rApi *recorder_api.RecorderApi) {
	logger.Info("Recorder routes added to engine.")
	apiv1 := engine.Group("/api")
	{
		apiv1.GET("/info", rApi.Info)
		apiv1.GET("/devices", rApi.Devices)
		apiv1.GET("/table", rApi.Table)
		apiv1.PUT("/rec", rApi.Rec)
	}
	engine.GET("/datasets/:name", rApi.Dataset)
	engine.GET("/ws", rApi.Stream)
}
