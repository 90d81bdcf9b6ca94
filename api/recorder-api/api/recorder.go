// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package recorder_api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/HN-Vignolles/sounds/api/recorder-api/config"
	internal_recorder "github.com/HN-Vignolles/sounds/api/recorder-api/internal/recorder"
	"github.com/HN-Vignolles/sounds/pkg/commons"
)

const writeWait = 5 * time.Second

var streamUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type recorderApi struct {
	cfg      *config.RecorderConfig
	logger   commons.Logger
	recorder *internal_recorder.Recorder
}

type RecorderApi struct {
	recorderApi
}

func NewRecorderApi(cfg *config.RecorderConfig, logger commons.Logger, recorder *internal_recorder.Recorder) *RecorderApi {
	return &RecorderApi{
		recorderApi{
			cfg:      cfg,
			logger:   logger,
			recorder: recorder,
		},
	}
}

type recRequest struct {
	Action string `json:"action"`
	Index  *int   `json:"index"`
	Event  string `json:"event"`
	Fold   int    `json:"fold"`
}

type rollMessage struct {
	Roll []int16 `json:"roll"`
}

func (rApi *RecorderApi) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"healthy": true})
}

func (rApi *RecorderApi) Readiness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ready": true, "version": rApi.cfg.Version, "recording": rApi.recorder.IsRecording()})
}

// Info reports the media geometry.
func (rApi *RecorderApi) Info(c *gin.Context) {
	c.JSON(http.StatusOK, rApi.recorder.Geometry())
}

func (rApi *RecorderApi) Devices(c *gin.Context) {
	devices, selected := rApi.recorder.Devices()
	c.JSON(http.StatusOK, gin.H{"devices": devices, "selected": selected})
}

func (rApi *RecorderApi) Table(c *gin.Context) {
	fold := internal_recorder.DefaultFold
	if raw := c.Query("fold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "fold must be a positive integer"})
			return
		}
		fold = parsed
	}
	c.JSON(http.StatusOK, gin.H{"fold": fold, "table": rApi.recorder.Table(fold)})
}

func (rApi *RecorderApi) Rec(c *gin.Context) {
	var req recRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Bad request")
		return
	}
	switch req.Action {
	case "start":
		if err := rApi.recorder.Start(c.Request.Context()); err != nil {
			rApi.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"action": "start"})
	case "device":
		if req.Index == nil {
			c.String(http.StatusBadRequest, "Bad request")
			return
		}
		device, err := rApi.recorder.SetDevice(*req.Index)
		if err != nil {
			rApi.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"action": "device", "device": device})
	case "cancel":
		if err := rApi.recorder.Cancel(); err != nil {
			rApi.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"action": "cancel"})
	case "save":
		take, err := rApi.recorder.Save(req.Event, req.Fold)
		if err != nil {
			rApi.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"action":   "save",
			"filename": take.Filename,
			"fold":     take.Fold,
			"samples":  take.Samples,
			"table":    rApi.recorder.Table(take.Fold),
		})
	default:
		c.String(http.StatusBadRequest, "Bad request")
	}
}

// Dataset serves a saved take.
func (rApi *RecorderApi) Dataset(c *gin.Context) {
	path, ok := rApi.recorder.TakePath(c.Param("name"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown take"})
		return
	}
	c.FileAttachment(path, c.Param("name"))
}

// Stream pushes every chunk of the running take as a roll message until the
// client goes away.
func (rApi *RecorderApi) Stream(c *gin.Context) {
	conn, err := streamUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		rApi.logger.Errorf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	chunks, unsubscribe := rApi.recorder.Subscribe()
	defer unsubscribe()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	rApi.logger.Debugf("stream client connected from %s", c.Request.RemoteAddr)
	for {
		select {
		case <-gone:
			rApi.logger.Debugf("stream client %s left", c.Request.RemoteAddr)
			return
		case chunk, ok := <-chunks:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(rollMessage{Roll: chunk}); err != nil {
				rApi.logger.Warnw("stream write failed", "error", err)
				return
			}
		}
	}
}

func (rApi *RecorderApi) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, internal_recorder.ErrUnknownDevice):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, internal_recorder.ErrAlreadyRecording), errors.Is(err, internal_recorder.ErrNotRecording):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		rApi.logger.Errorw("recorder action failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
