// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package console_routers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	console_api "github.com/HN-Vignolles/sounds/api/console-api/api"
	"github.com/HN-Vignolles/sounds/api/console-api/config"
	"github.com/HN-Vignolles/sounds/pkg/commons"
)

// NewEngine builds the console engine with every route registered.
func NewEngine(cfg *config.ConsoleConfig, logger commons.Logger, session console_api.SessionView, controller console_api.RecordingControl) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "PUT", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))

	cApi := console_api.NewConsoleApi(cfg, logger, session, controller)
	HealthCheckRoutes(engine, logger, cApi)
	ConsoleRoutes(engine, logger, cApi)
	return engine
}

func HealthCheckRoutes(engine *gin.Engine, logger commons.Logger, cApi *console_api.ConsoleApi) {
	logger.Info("Internal HealthCheckRoutes added to engine.")
	apiv1 := engine.Group("")
	{
		apiv1.GET("/readiness/", cApi.Readiness)
		apiv1.GET("/healthz/", cApi.Healthz)
	}
}

func ConsoleRoutes(engine *gin.Engine, logger commons.Logger, cApi *console_api.ConsoleApi) {
	logger.Info("Console routes added to engine.")
	engine.GET("/", cApi.Index)
	apiv1 := engine.Group("/v1")
	{
		apiv1.GET("/frame.png", cApi.Frame)
		apiv1.GET("/status", cApi.Status)
		apiv1.GET("/devices", cApi.Devices)
		apiv1.GET("/table", cApi.Table)
		apiv1.PUT("/rec", cApi.Rec)
	}
}
