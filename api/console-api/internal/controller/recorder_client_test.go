// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_controller

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internal_type "github.com/HN-Vignolles/sounds/api/console-api/internal/type"
	"github.com/HN-Vignolles/sounds/pkg/commons"
)

func newTestLogger() commons.Logger {
	l, _ := commons.NewApplicationLogger(commons.Level("debug"))
	return l
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type fakeRecorderServer struct {
	actions []internal_type.RecAction
	fold    string
}

func (f *fakeRecorderServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/info", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"atr": 32000.0, "dcs": 4, "x": []float64{0, 0.5, 1}})
	})
	mux.HandleFunc("/api/devices", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, internal_type.DeviceList{
			Devices:  []internal_type.Device{{Index: 0, Name: "sine-440"}, {Index: 1, Name: "silence"}},
			Selected: 0,
		})
	})
	mux.HandleFunc("/api/table", func(w http.ResponseWriter, r *http.Request) {
		f.fold = r.URL.Query().Get("fold")
		writeJSON(w, http.StatusOK, internal_type.Table{Fold: 3, Rows: []internal_type.TableRow{{Category: "dog", Count: 2}}})
	})
	mux.HandleFunc("/api/rec", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		body, _ := io.ReadAll(r.Body)
		var action internal_type.RecAction
		_ = json.Unmarshal(body, &action)
		f.actions = append(f.actions, action)
		switch action.Action {
		case internal_type.ActionDevice:
			if action.Index == nil || *action.Index > 1 {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown device"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{"device": internal_type.Device{Index: *action.Index, Name: "silence"}})
		case internal_type.ActionSave:
			writeJSON(w, http.StatusOK, internal_type.SavedTake{
				Filename: action.Event + "-abc.wav",
				Fold:     action.Fold,
				Rows:     []internal_type.TableRow{{Category: action.Event, Count: 1}},
			})
		case internal_type.ActionStart, internal_type.ActionCancel:
			writeJSON(w, http.StatusOK, map[string]string{"action": action.Action})
		default:
			http.Error(w, "Bad request", http.StatusBadRequest)
		}
	})
	return mux
}

func newClient(t *testing.T) (RecorderClient, *fakeRecorderServer) {
	t.Helper()
	fake := &fakeRecorderServer{}
	server := httptest.NewServer(fake.handler())
	t.Cleanup(server.Close)
	return NewRecorderClient(newTestLogger(), server.URL, 2*time.Second), fake
}

func TestRecorderClient_MediaGeometry(t *testing.T) {
	client, _ := newClient(t)
	geometry, err := client.MediaGeometry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, geometry.ChunkSampleCount)
	assert.Equal(t, 3, geometry.Capacity())
	assert.Equal(t, 32000.0, geometry.AverageTransferRate)
}

func TestRecorderClient_DevicesAndSelect(t *testing.T) {
	client, fake := newClient(t)
	devices, err := client.Devices(context.Background())
	require.NoError(t, err)
	assert.Len(t, devices.Devices, 2)

	device, err := client.SelectDevice(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, internal_type.Device{Index: 1, Name: "silence"}, device)
	require.Len(t, fake.actions, 1)
	require.NotNil(t, fake.actions[0].Index)
	assert.Equal(t, 1, *fake.actions[0].Index)
}

func TestRecorderClient_SelectUnknownDeviceCarriesStatus(t *testing.T) {
	client, _ := newClient(t)
	_, err := client.SelectDevice(context.Background(), 9)
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
	assert.Contains(t, statusErr.Body, "unknown device")
	assert.ErrorIs(t, err, ErrRecorderUnavailable)
}

func TestRecorderClient_StartCancelSave(t *testing.T) {
	client, fake := newClient(t)
	require.NoError(t, client.Start(context.Background()))
	require.NoError(t, client.Cancel(context.Background()))

	take, err := client.Save(context.Background(), "dog", 2)
	require.NoError(t, err)
	assert.Equal(t, "dog-abc.wav", take.Filename)
	assert.Equal(t, 2, take.Fold)
	assert.Equal(t, []internal_type.TableRow{{Category: "dog", Count: 1}}, take.Rows)

	names := make([]string, 0, len(fake.actions))
	for _, a := range fake.actions {
		names = append(names, a.Action)
	}
	assert.Equal(t, []string{"start", "cancel", "save"}, names)
}

func TestRecorderClient_TableSendsFold(t *testing.T) {
	client, fake := newClient(t)
	table, err := client.Table(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "3", fake.fold)
	assert.Equal(t, 3, table.Fold)
	assert.Equal(t, 2, table.Rows[0].Count)
}

func TestRecorderClient_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewRecorderClient(newTestLogger(), url, 500*time.Millisecond)
	_, err := client.MediaGeometry(context.Background())
	assert.ErrorIs(t, err, ErrRecorderUnavailable)
}
