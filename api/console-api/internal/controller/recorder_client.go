// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_controller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	internal_type "github.com/HN-Vignolles/sounds/api/console-api/internal/type"
	"github.com/HN-Vignolles/sounds/pkg/commons"
)

var ErrRecorderUnavailable = errors.New("recorder request failed")

// StatusError is a non-2xx answer from the recorder.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("recorder returned status %d: %s", e.Status, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrRecorderUnavailable
}

// RecorderClient talks to the recorder REST API.
type RecorderClient interface {
	MediaGeometry(ctx context.Context) (internal_type.MediaGeometry, error)
	Devices(ctx context.Context) (internal_type.DeviceList, error)
	SelectDevice(ctx context.Context, index int) (internal_type.Device, error)
	Start(ctx context.Context) error
	Cancel(ctx context.Context) error
	Save(ctx context.Context, event string, fold int) (internal_type.SavedTake, error)
	Table(ctx context.Context, fold int) (internal_type.Table, error)
}

type restRecorderClient struct {
	logger commons.Logger
	client *resty.Client
}

func NewRecorderClient(logger commons.Logger, baseURL string, timeout time.Duration) RecorderClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &restRecorderClient{logger: logger, client: client}
}

func (r *restRecorderClient) MediaGeometry(ctx context.Context) (internal_type.MediaGeometry, error) {
	var geometry internal_type.MediaGeometry
	if err := r.get(ctx, "/api/info", nil, &geometry); err != nil {
		return internal_type.MediaGeometry{}, err
	}
	return geometry, nil
}

func (r *restRecorderClient) Devices(ctx context.Context) (internal_type.DeviceList, error) {
	var devices internal_type.DeviceList
	if err := r.get(ctx, "/api/devices", nil, &devices); err != nil {
		return internal_type.DeviceList{}, err
	}
	return devices, nil
}

func (r *restRecorderClient) SelectDevice(ctx context.Context, index int) (internal_type.Device, error) {
	var ack struct {
		Device internal_type.Device `json:"device"`
	}
	action := internal_type.RecAction{Action: internal_type.ActionDevice, Index: &index}
	if err := r.rec(ctx, action, &ack); err != nil {
		return internal_type.Device{}, err
	}
	return ack.Device, nil
}

func (r *restRecorderClient) Start(ctx context.Context) error {
	return r.rec(ctx, internal_type.RecAction{Action: internal_type.ActionStart}, nil)
}

func (r *restRecorderClient) Cancel(ctx context.Context) error {
	return r.rec(ctx, internal_type.RecAction{Action: internal_type.ActionCancel}, nil)
}

func (r *restRecorderClient) Save(ctx context.Context, event string, fold int) (internal_type.SavedTake, error) {
	var take internal_type.SavedTake
	action := internal_type.RecAction{Action: internal_type.ActionSave, Event: event, Fold: fold}
	if err := r.rec(ctx, action, &take); err != nil {
		return internal_type.SavedTake{}, err
	}
	return take, nil
}

func (r *restRecorderClient) Table(ctx context.Context, fold int) (internal_type.Table, error) {
	var table internal_type.Table
	query := map[string]string{"fold": strconv.Itoa(fold)}
	if err := r.get(ctx, "/api/table", query, &table); err != nil {
		return internal_type.Table{}, err
	}
	return table, nil
}

func (r *restRecorderClient) get(ctx context.Context, path string, query map[string]string, out interface{}) error {
	req := r.client.R().SetContext(ctx).SetResult(out)
	if query != nil {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	return r.check(path, resp, err)
}

func (r *restRecorderClient) rec(ctx context.Context, action internal_type.RecAction, out interface{}) error {
	req := r.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(action)
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Put("/api/rec")
	return r.check("/api/rec "+action.Action, resp, err)
}

func (r *restRecorderClient) check(what string, resp *resty.Response, err error) error {
	if err != nil {
		r.logger.Errorw("recorder request failed", "request", what, "error", err)
		return fmt.Errorf("%w: %s: %v", ErrRecorderUnavailable, what, err)
	}
	r.logger.Benchmark("recorder "+what, resp.Time())
	if resp.IsError() {
		r.logger.Warnw("recorder rejected request", "request", what, "status", resp.StatusCode())
		return &StatusError{Status: resp.StatusCode(), Body: resp.String()}
	}
	return nil
}
