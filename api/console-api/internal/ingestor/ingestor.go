// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_ingestor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	internal_type "github.com/HN-Vignolles/sounds/api/console-api/internal/type"
	internal_waveform "github.com/HN-Vignolles/sounds/api/console-api/internal/waveform"
	"github.com/HN-Vignolles/sounds/pkg/commons"
)

// RollField is the only push-channel field the ingestor consumes.
const RollField = "roll"

var errMalformedRoll = errors.New("roll is not a sequence of numbers")

// StreamIngestor appends push-channel roll payloads to the waveform window.
// It is the only writer of the window.
type StreamIngestor struct {
	logger commons.Logger
	window *internal_waveform.Window
	stats  internal_type.IngestStats
	clock  func() time.Time
}

type Option func(*StreamIngestor)

// WithClock overrides the wall clock used for first-chunk accounting.
func WithClock(clock func() time.Time) Option {
	return func(s *StreamIngestor) { s.clock = clock }
}

func NewStreamIngestor(logger commons.Logger, window *internal_waveform.Window, opts ...Option) *StreamIngestor {
	s := &StreamIngestor{
		logger: logger,
		window: window,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnMessage handles one raw push-channel frame. Malformed frames are logged
// and discarded without touching the window; frames without a roll field are
// ignored.
func (s *StreamIngestor) OnMessage(raw []byte) {
	s.stats.Messages++

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		s.stats.DecodeFailures++
		s.logger.Warnw("discarding undecodable stream message", "error", err, "size", len(raw))
		return
	}
	// a bare null unmarshals into a nil map without error
	if envelope == nil {
		s.stats.DecodeFailures++
		s.logger.Warnw("discarding stream message that is not an object", "size", len(raw))
		return
	}

	rawRoll, ok := envelope[RollField]
	if !ok {
		s.stats.Ignored++
		return
	}

	payload, err := decodeRoll(rawRoll)
	if err != nil {
		s.stats.DecodeFailures++
		s.logger.Warnw("discarding malformed roll message", "error", err)
		return
	}

	if s.stats.FirstChunkTime == nil {
		first := s.clock()
		s.stats.FirstChunkTime = &first
		s.logger.Debugf("first roll chunk received at %s", first.Format(time.RFC3339Nano))
	}
	s.stats.RollMessages++
	s.stats.SamplesAccepted += uint64(len(payload))

	if evicted := s.window.Append(payload); evicted > 0 {
		s.logger.Debugw("evicted samples from waveform window", "evicted", evicted, "length", s.window.Len())
	}
}

func (s *StreamIngestor) Stats() internal_type.IngestStats {
	return s.stats
}

func decodeRoll(raw json.RawMessage) ([]int16, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, errMalformedRoll
	}
	var values []*float64
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedRoll, err)
	}
	out := make([]int16, len(values))
	for i, v := range values {
		if v == nil {
			return nil, fmt.Errorf("%w: null at index %d", errMalformedRoll, i)
		}
		out[i] = toSample(*v)
	}
	return out, nil
}

// toSample truncates toward zero and clamps to the int16 range.
func toSample(v float64) int16 {
	v = math.Trunc(v)
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	}
	return int16(v)
}
