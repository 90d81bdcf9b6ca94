// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_recorder

// takeRing keeps the most recent samples of the running take. Older samples
// are overwritten one at a time. Not safe for concurrent use.
type takeRing struct {
	buf    []int16
	head   int
	length int
}

func newTakeRing(capacity int) *takeRing {
	return &takeRing{buf: make([]int16, capacity)}
}

func (r *takeRing) write(samples []int16) {
	capacity := len(r.buf)
	if len(samples) >= capacity {
		copy(r.buf, samples[len(samples)-capacity:])
		r.head = 0
		r.length = capacity
		return
	}
	for _, s := range samples {
		r.buf[(r.head+r.length)%capacity] = s
		if r.length < capacity {
			r.length++
		} else {
			r.head = (r.head + 1) % capacity
		}
	}
}

func (r *takeRing) reset() {
	r.head = 0
	r.length = 0
}

func (r *takeRing) size() int { return r.length }

// snapshot returns the samples oldest first.
func (r *takeRing) snapshot() []int16 {
	out := make([]int16, r.length)
	n := copy(out, r.buf[r.head:min(r.head+r.length, len(r.buf))])
	copy(out[n:], r.buf[:r.length-n])
	return out
}
