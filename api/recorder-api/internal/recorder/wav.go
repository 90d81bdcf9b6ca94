// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_recorder

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeWAV stores samples as 16-bit mono PCM.
func writeWAV(path string, samples []int16, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create take file: %w", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, AudioBitsPerSample, AudioChannels, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: AudioChannels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: AudioBitsPerSample,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return fmt.Errorf("unable to encode take: %w", err)
	}
	return enc.Close()
}
