// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_controller

import (
	"context"
	"fmt"
	"sync"

	internal_type "github.com/HN-Vignolles/sounds/api/console-api/internal/type"
	"github.com/HN-Vignolles/sounds/pkg/commons"
	"github.com/HN-Vignolles/sounds/pkg/utils"
)

const (
	DefaultEvent = "unnamed-event"
	DefaultFold  = 1
)

// Controller is the only writer of the recording state. The state is
// flipped after the recorder acknowledges the action, never before. Once the
// recorder has acknowledged, the flip no longer depends on the caller's ctx.
type Controller struct {
	mu       sync.Mutex
	logger   commons.Logger
	recorder RecorderClient
	state    internal_type.RecordingSwitch
	current  internal_type.RecordingState
}

func NewController(logger commons.Logger, recorder RecorderClient, state internal_type.RecordingSwitch) *Controller {
	return &Controller{
		logger:   logger,
		recorder: recorder,
		state:    state,
		current:  internal_type.Idle,
	}
}

func (c *Controller) State() internal_type.RecordingState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == internal_type.Active {
		return internal_type.ErrAlreadyRecording
	}
	if err := c.recorder.Start(ctx); err != nil {
		return err
	}
	if err := c.flip(ctx, internal_type.Active); err != nil {
		// put the recorder back to idle so both sides agree again
		if undoErr := c.recorder.Cancel(context.WithoutCancel(ctx)); undoErr != nil {
			c.logger.Errorf("unable to cancel take after failed state change: %v", undoErr)
		}
		return err
	}
	return nil
}

func (c *Controller) Cancel(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != internal_type.Active {
		return internal_type.ErrNotRecording
	}
	if err := c.recorder.Cancel(ctx); err != nil {
		return err
	}
	return c.flip(ctx, internal_type.Idle)
}

// Save stops the take and files it under event and fold.
func (c *Controller) Save(ctx context.Context, event string, fold int) (internal_type.SavedTake, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != internal_type.Active {
		return internal_type.SavedTake{}, internal_type.ErrNotRecording
	}
	event = utils.DefaultIfEmpty(event, DefaultEvent)
	if fold <= 0 {
		fold = DefaultFold
	}
	take, err := c.recorder.Save(ctx, event, fold)
	if err != nil {
		return internal_type.SavedTake{}, err
	}
	if err := c.flip(ctx, internal_type.Idle); err != nil {
		return internal_type.SavedTake{}, err
	}
	c.logger.Infof("saved take %s in fold %d", take.Filename, take.Fold)
	return take, nil
}

func (c *Controller) SelectDevice(ctx context.Context, index int) (internal_type.Device, error) {
	device, err := c.recorder.SelectDevice(ctx, index)
	if err != nil {
		return internal_type.Device{}, err
	}
	c.logger.Infof("selected input device %d (%s)", device.Index, device.Name)
	return device, nil
}

func (c *Controller) Devices(ctx context.Context) (internal_type.DeviceList, error) {
	return c.recorder.Devices(ctx)
}

func (c *Controller) Table(ctx context.Context, fold int) (internal_type.Table, error) {
	if fold <= 0 {
		fold = DefaultFold
	}
	return c.recorder.Table(ctx, fold)
}

func (c *Controller) flip(ctx context.Context, target internal_type.RecordingState) error {
	if err := c.state.SetRecording(context.WithoutCancel(ctx), target == internal_type.Active); err != nil {
		return fmt.Errorf("recorder acknowledged but state did not change: %w", err)
	}
	c.current = target
	c.logger.Debugf("recording state is now %s", target)
	return nil
}

// LoadGeometry queries the recorder once and validates the answer.
func LoadGeometry(ctx context.Context, recorder RecorderClient) (internal_type.MediaGeometry, error) {
	geometry, err := recorder.MediaGeometry(ctx)
	if err != nil {
		return internal_type.MediaGeometry{}, fmt.Errorf("failed to query media geometry: %w", err)
	}
	if err := geometry.Validate(); err != nil {
		return internal_type.MediaGeometry{}, err
	}
	return geometry, nil
}
