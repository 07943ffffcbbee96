// Package portaudio provides an alternate full-duplex audio engine backed by
// PortAudio, for hosts where miniaudio is unavailable.
package portaudio

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gordonklaus/portaudio"
	"github.com/voxtask/voice-core/core/audio"
)

type Engine struct {
	bufferSize int
	sampleRate int
	stream     *portaudio.Stream

	onChunk   func(chunk []byte)
	capturing atomic.Bool
	levelBits atomic.Uint64

	pending []byte

	mu      sync.Mutex
	audioMu sync.Mutex
}

type Option func(*Engine)

// WithSampleRate opens the device at the given rate instead of the wire rate.
// The engine resamples both directions, so chunks crossing its boundary stay
// at the wire rate regardless.
func WithSampleRate(rate int) Option {
	return func(e *Engine) { e.sampleRate = rate }
}

func NewEngine(bufferSize int, opts ...Option) (*Engine, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	engine := &Engine{bufferSize: bufferSize, sampleRate: audio.WireSampleRate}
	for _, opt := range opts {
		opt(engine)
	}
	stream, err := portaudio.OpenDefaultStream(
		1, 1, float64(engine.sampleRate), bufferSize, engine.processAudio,
	)
	if err != nil {
		_ = portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}
	engine.stream = stream

	return engine, nil
}

// processAudio runs on the PortAudio callback thread for both directions at
// once: microphone frames go out through onChunk, queued playback fills out.
// Device-rate frames are converted at this boundary, pending playback is kept
// in wire-rate bytes.
func (e *Engine) processAudio(in, out []int16) {
	if e.capturing.Load() {
		chunk := audio.Bytes(audio.Resample(in, e.sampleRate, audio.WireSampleRate))
		e.levelBits.Store(math.Float64bits(audio.Level(chunk)))
		if onChunk := e.onChunk; onChunk != nil {
			onChunk(chunk)
		}
	}

	e.audioMu.Lock()
	need := 2 * (len(out) * audio.WireSampleRate / e.sampleRate)
	var fill []byte
	if len(e.pending) >= need {
		fill = e.pending[:need]
		e.pending = e.pending[need:]
	} else {
		fill = e.pending
		e.pending = nil
	}
	samples := audio.Resample(audio.Samples(fill), audio.WireSampleRate, e.sampleRate)
	for i := range out {
		if i < len(samples) {
			out[i] = samples[i]
		} else {
			out[i] = 0
		}
	}
	e.audioMu.Unlock()
}

func (e *Engine) StartCapture(_ context.Context, onChunk func(chunk []byte)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stream == nil {
		return fmt.Errorf("stream not initialized")
	}
	if e.capturing.Load() {
		return nil
	}

	e.onChunk = onChunk
	e.capturing.Store(true)
	if err := e.stream.Start(); err != nil {
		e.capturing.Store(false)
		return fmt.Errorf("failed to start portaudio stream: %w", err)
	}
	return nil
}

func (e *Engine) StopCapture() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.capturing.Load() {
		return nil
	}

	e.capturing.Store(false)
	e.onChunk = nil
	e.levelBits.Store(0)
	return nil
}

func (e *Engine) EnqueuePlayback(chunk []byte) {
	e.audioMu.Lock()
	e.pending = append(e.pending, chunk...)
	e.audioMu.Unlock()

	e.mu.Lock()
	if e.stream != nil {
		// Start is a no-op on an already running stream.
		_ = e.stream.Start()
	}
	e.mu.Unlock()
}

func (e *Engine) FlushPlayback() {
	e.audioMu.Lock()
	e.pending = nil
	e.audioMu.Unlock()
}

func (e *Engine) InputLevel() float64 {
	return math.Float64frombits(e.levelBits.Load())
}

func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stream != nil {
		e.stream.Close()
		e.stream = nil
	}
	_ = portaudio.Terminate()
}

func (e *Engine) EncodingInfo() audio.EncodingInfo {
	return audio.WireEncodingInfo()
}
