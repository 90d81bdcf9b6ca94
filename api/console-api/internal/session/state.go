// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_session

import (
	"fmt"

	internal_type "github.com/HN-Vignolles/sounds/api/console-api/internal/type"
)

// recordingState holds the Idle/Active flag. The only transitions are
// Idle -> Active and Active -> Idle.
type recordingState struct {
	current internal_type.RecordingState
}

func (r *recordingState) Active() bool {
	return r.current == internal_type.Active
}

func (r *recordingState) State() internal_type.RecordingState {
	return r.current
}

func (r *recordingState) transition(target internal_type.RecordingState) error {
	if r.current == target {
		return fmt.Errorf("%w: already %s", internal_type.ErrIllegalTransition, target)
	}
	r.current = target
	return nil
}
