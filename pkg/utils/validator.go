// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package utils

import "strings"

func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// DefaultIfEmpty returns fallback when s is blank.
func DefaultIfEmpty(s, fallback string) string {
	if IsEmpty(s) {
		return fallback
	}
	return strings.TrimSpace(s)
}
