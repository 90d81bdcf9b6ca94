// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package internal_recorder

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/HN-Vignolles/sounds/pkg/commons"
	"github.com/HN-Vignolles/sounds/pkg/utils"
)

// Recorder captures takes from one of its input devices. While recording,
// a producer goroutine reads one chunk per chunk duration, keeps the tail
// of the take and fans the chunk out to every subscriber.
type Recorder struct {
	logger commons.Logger
	cfg    Config

	// op serializes Start, Cancel and Save so the producer can be joined
	// without holding mu.
	op sync.Mutex

	mu          sync.Mutex
	sources     []Source
	selected    int
	recording   bool
	startTime   time.Time
	take        *takeRing
	subscribers map[uint64]chan []int16
	nextID      uint64
	stop        context.CancelFunc
	done        chan struct{}

	catalog *catalog
	// clock is injectable for testing; defaults to time.Now.
	clock func() time.Time
	pace  time.Duration
}

type Option func(*Recorder)

func WithSources(sources ...Source) Option {
	return func(r *Recorder) { r.sources = sources }
}

// WithPace overrides the producer period, which defaults to the real
// duration of one chunk.
func WithPace(d time.Duration) Option {
	return func(r *Recorder) {
		if d > 0 {
			r.pace = d
		}
	}
}

func WithClock(clock func() time.Time) Option {
	return func(r *Recorder) { r.clock = clock }
}

func NewRecorder(logger commons.Logger, cfg Config, opts ...Option) (*Recorder, error) {
	if cfg.SampleRate <= 0 || cfg.RecDuration <= 0 || cfg.ChunkSamples <= 0 {
		return nil, fmt.Errorf("invalid recorder config: sample_rate=%d rec_duration=%d chunk_samples=%d",
			cfg.SampleRate, cfg.RecDuration, cfg.ChunkSamples)
	}
	if cfg.SubscriberBuffer <= 0 {
		cfg.SubscriberBuffer = 1
	}
	cat, err := openCatalog(cfg.SamplesPath)
	if err != nil {
		return nil, err
	}
	r := &Recorder{
		logger:      logger,
		cfg:         cfg,
		sources:     DefaultSources(cfg.SampleRate),
		take:        newTakeRing(cfg.TakeCapacity()),
		subscribers: map[uint64]chan []int16{},
		catalog:     cat,
		clock:       time.Now,
		pace:        cfg.ChunkDuration(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

func (r *Recorder) Devices() ([]Device, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	devices := make([]Device, len(r.sources))
	for i, s := range r.sources {
		devices[i] = Device{Index: i, Name: s.Name()}
	}
	return devices, r.selected
}

// SetDevice selects the input for the next take.
func (r *Recorder) SetDevice(index int) (Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if index < 0 || index >= len(r.sources) {
		return Device{}, fmt.Errorf("%w: %d", ErrUnknownDevice, index)
	}
	if r.recording {
		return Device{}, fmt.Errorf("%w: cannot switch device during a take", ErrAlreadyRecording)
	}
	r.selected = index
	return Device{Index: index, Name: r.sources[index].Name()}, nil
}

func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// Elapsed is the wall-clock length of the running take.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return 0
	}
	return r.clock().Sub(r.startTime)
}

// Geometry describes the take window: one x value per sample of the take
// ring spanning [0, rec_duration] seconds.
func (r *Recorder) Geometry() Geometry {
	capacity := r.cfg.TakeCapacity()
	x := make([]float64, capacity)
	if capacity > 1 {
		step := float64(r.cfg.RecDuration) / float64(capacity-1)
		for i := range x {
			x[i] = float64(i) * step
		}
	}
	return Geometry{
		AverageTransferRate: float64(r.cfg.SampleRate * AudioChannels * AudioBytesPerSample),
		ChunkSampleCount:    r.cfg.ChunkSamples,
		XAxis:               x,
	}
}

// Start begins a take. The producer outlives ctx's cancellation; it stops
// on Cancel, Save or Close.
func (r *Recorder) Start(ctx context.Context) error {
	r.op.Lock()
	defer r.op.Unlock()

	r.mu.Lock()
	if r.recording {
		r.mu.Unlock()
		return ErrAlreadyRecording
	}
	source := r.sources[r.selected]
	r.take.reset()
	r.recording = true
	r.startTime = r.clock()
	producerCtx, stop := context.WithCancel(context.WithoutCancel(ctx))
	r.stop = stop
	r.done = make(chan struct{})
	done := r.done
	r.mu.Unlock()

	utils.Go(producerCtx, func() {
		defer close(done)
		r.produce(producerCtx, source)
	})
	r.logger.Infof("recording started on %s", source.Name())
	return nil
}

func (r *Recorder) produce(ctx context.Context, source Source) {
	ticker := time.NewTicker(r.pace)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			chunk := make([]int16, r.cfg.ChunkSamples)
			source.Read(chunk)
			r.publish(chunk)
		}
	}
}

func (r *Recorder) publish(chunk []int16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.take.write(chunk)
	for id, ch := range r.subscribers {
		select {
		case ch <- chunk:
		default:
			r.logger.Warnw("Subscriber buffer full, dropping chunk", "subscriber", id, "samples", len(chunk))
		}
	}
}

// Cancel stops the take without saving it.
func (r *Recorder) Cancel() error {
	r.op.Lock()
	defer r.op.Unlock()
	if _, err := r.halt(); err != nil {
		return err
	}
	r.logger.Infof("recording cancelled")
	return nil
}

// Save stops the take and files it under event and fold.
func (r *Recorder) Save(event string, fold int) (Take, error) {
	r.op.Lock()
	defer r.op.Unlock()

	samples, err := r.halt()
	if err != nil {
		return Take{}, err
	}
	category := sanitizeEvent(event)
	if fold <= 0 {
		fold = DefaultFold
	}
	take := Take{
		Filename: fmt.Sprintf("%s-%s.wav", category, uuid.NewString()),
		Category: category,
		Fold:     fold,
		Samples:  len(samples),
		Duration: time.Duration(len(samples)) * time.Second / time.Duration(r.cfg.SampleRate),
	}
	if r.cfg.SamplesPath != "" {
		start := time.Now()
		if err := writeWAV(filepath.Join(r.cfg.SamplesPath, take.Filename), samples, r.cfg.SampleRate); err != nil {
			return Take{}, err
		}
		r.logger.Benchmark("Recorder.Save.writeWAV", time.Since(start))
	}
	if err := r.catalog.add(catalogEntry{Filename: take.Filename, Category: category, Fold: fold}); err != nil {
		return Take{}, fmt.Errorf("unable to update catalog: %w", err)
	}
	r.logger.Infof("saved take %s (%d samples, fold %d)", take.Filename, take.Samples, fold)
	return take, nil
}

// halt stops the producer and returns the take. Callers hold op.
func (r *Recorder) halt() ([]int16, error) {
	r.mu.Lock()
	if !r.recording {
		r.mu.Unlock()
		return nil, ErrNotRecording
	}
	stop, done := r.stop, r.done
	r.mu.Unlock()

	stop()
	<-done

	r.mu.Lock()
	defer r.mu.Unlock()
	r.recording = false
	r.stop, r.done = nil, nil
	return r.take.snapshot(), nil
}

// Table counts saved takes per category in fold.
func (r *Recorder) Table(fold int) []TableRow {
	if fold <= 0 {
		fold = DefaultFold
	}
	return r.catalog.table(fold)
}

// TakePath resolves a saved take on disk. It only answers for takes in the
// catalog.
func (r *Recorder) TakePath(filename string) (string, bool) {
	if r.cfg.SamplesPath == "" || filename != filepath.Base(filename) || !r.catalog.contains(filename) {
		return "", false
	}
	return filepath.Join(r.cfg.SamplesPath, filename), true
}

// Subscribe registers a chunk listener. The returned function unregisters
// it and closes the channel.
func (r *Recorder) Subscribe() (<-chan []int16, func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.nextID
	r.nextID++
	ch := make(chan []int16, r.cfg.SubscriberBuffer)
	r.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.subscribers, id)
			r.mu.Unlock()
			close(ch)
		})
	}
}

// Close stops a running take without saving it.
func (r *Recorder) Close() error {
	r.op.Lock()
	defer r.op.Unlock()
	_, err := r.halt()
	if errors.Is(err, ErrNotRecording) {
		return nil
	}
	return err
}

func sanitizeEvent(event string) string {
	event = strings.TrimSpace(event)
	if event == "" {
		return DefaultEvent
	}
	return strings.Map(func(c rune) rune {
		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '-' || c == '_' {
			return c
		}
		return '-'
	}, event)
}
