// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_type

// Device is an input device offered by the recorder.
type Device struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
}

type DeviceList struct {
	Devices  []Device `json:"devices"`
	Selected int      `json:"selected"`
}

// TableRow is the number of takes of one category within a fold.
type TableRow struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type Table struct {
	Fold int        `json:"fold"`
	Rows []TableRow `json:"table"`
}

// SavedTake is the recorder's acknowledgement of a save action.
type SavedTake struct {
	Filename string     `json:"filename"`
	Fold     int        `json:"fold"`
	Rows     []TableRow `json:"table"`
}

// RecAction is the body of a recording control request.
type RecAction struct {
	Action string `json:"action"`
	Index  *int   `json:"index,omitempty"`
	Event  string `json:"event,omitempty"`
	Fold   int    `json:"fold,omitempty"`
}

const (
	ActionDevice = "device"
	ActionStart  = "start"
	ActionCancel = "cancel"
	ActionSave   = "save"
)
