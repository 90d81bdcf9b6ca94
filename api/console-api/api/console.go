// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package console_api

import (
	"context"
	"errors"
	"image"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/HN-Vignolles/sounds/api/console-api/config"
	internal_controller "github.com/HN-Vignolles/sounds/api/console-api/internal/controller"
	internal_render "github.com/HN-Vignolles/sounds/api/console-api/internal/render"
	internal_type "github.com/HN-Vignolles/sounds/api/console-api/internal/type"
	"github.com/HN-Vignolles/sounds/pkg/commons"
)

// SessionView is the read side of a console session.
type SessionView interface {
	Status(ctx context.Context) (internal_type.Status, error)
	Frame(ctx context.Context) (*image.RGBA, error)
}

// RecordingControl is implemented by the recording controller.
type RecordingControl interface {
	Start(ctx context.Context) error
	Cancel(ctx context.Context) error
	Save(ctx context.Context, event string, fold int) (internal_type.SavedTake, error)
	SelectDevice(ctx context.Context, index int) (internal_type.Device, error)
	Devices(ctx context.Context) (internal_type.DeviceList, error)
	Table(ctx context.Context, fold int) (internal_type.Table, error)
}

type consoleApi struct {
	cfg        *config.ConsoleConfig
	logger     commons.Logger
	session    SessionView
	controller RecordingControl
}

type ConsoleApi struct {
	consoleApi
}

func NewConsoleApi(cfg *config.ConsoleConfig, logger commons.Logger, session SessionView, controller RecordingControl) *ConsoleApi {
	return &ConsoleApi{
		consoleApi{
			cfg:        cfg,
			logger:     logger,
			session:    session,
			controller: controller,
		},
	}
}

func (cApi *ConsoleApi) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"healthy": true})
}

// Readiness answers once the session loop is serving requests.
func (cApi *ConsoleApi) Readiness(c *gin.Context) {
	if _, err := cApi.session.Status(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ready": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ready": true, "version": cApi.cfg.Version})
}

func (cApi *ConsoleApi) Status(c *gin.Context) {
	status, err := cApi.session.Status(c.Request.Context())
	if err != nil {
		cApi.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Frame serves the current surface as a PNG.
func (cApi *ConsoleApi) Frame(c *gin.Context) {
	frame, err := cApi.session.Frame(c.Request.Context())
	if err != nil {
		cApi.fail(c, err)
		return
	}
	if frame == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no frame available"})
		return
	}
	data, err := internal_render.EncodePNG(frame)
	if err != nil {
		cApi.fail(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", data)
}

func (cApi *ConsoleApi) Devices(c *gin.Context) {
	devices, err := cApi.controller.Devices(c.Request.Context())
	if err != nil {
		cApi.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, devices)
}

func (cApi *ConsoleApi) Table(c *gin.Context) {
	fold := internal_controller.DefaultFold
	if raw := c.Query("fold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fold must be a positive integer"})
			return
		}
		fold = parsed
	}
	table, err := cApi.controller.Table(c.Request.Context(), fold)
	if err != nil {
		cApi.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// Rec dispatches a recording action.
func (cApi *ConsoleApi) Rec(c *gin.Context) {
	var req internal_type.RecAction
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad request"})
		return
	}
	ctx := c.Request.Context()
	switch req.Action {
	case internal_type.ActionDevice:
		if req.Index == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "index is required"})
			return
		}
		device, err := cApi.controller.SelectDevice(ctx, *req.Index)
		if err != nil {
			cApi.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"action": req.Action, "device": device})
	case internal_type.ActionStart:
		if err := cApi.controller.Start(ctx); err != nil {
			cApi.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"action": req.Action})
	case internal_type.ActionCancel:
		if err := cApi.controller.Cancel(ctx); err != nil {
			cApi.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"action": req.Action})
	case internal_type.ActionSave:
		take, err := cApi.controller.Save(ctx, req.Event, req.Fold)
		if err != nil {
			cApi.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, take)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad request"})
	}
}

func (cApi *ConsoleApi) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		cApi.logger.Errorw("console request failed", "path", c.FullPath(), "error", err)
	} else {
		cApi.logger.Debugf("console request rejected: %v", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	var rejected *internal_controller.StatusError
	if errors.As(err, &rejected) && rejected.Status >= 400 && rejected.Status < 500 {
		return rejected.Status
	}
	switch {
	case errors.Is(err, internal_type.ErrIllegalTransition),
		errors.Is(err, internal_type.ErrAlreadyRecording),
		errors.Is(err, internal_type.ErrNotRecording):
		return http.StatusConflict
	case errors.Is(err, internal_controller.ErrRecorderUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, internal_type.ErrSessionClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
