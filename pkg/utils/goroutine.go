// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package utils

import (
	"context"
	"runtime/debug"

	"go.uber.org/zap"
)

// Go runs fn on a new goroutine unless ctx is already done. A panic inside fn
// is recovered and logged instead of taking the process down.
func Go(ctx context.Context, fn func()) {
	if ctx.Err() != nil {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				zap.S().Errorw("recovered panic in goroutine", "panic", r, "stack", string(debug.Stack()))
			}
		}()
		fn()
	}()
}
