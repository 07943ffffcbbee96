package miniaudio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/voxtask/voice-core/core/audio"
)

type playbackDevice struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	// pending is the ordered queue of wire-format audio awaiting the device
	// callback. The callback feeds the hardware gaplessly from the front.
	pending []byte

	mu      sync.Mutex
	audioMu sync.Mutex
}

func (p *playbackDevice) Init(audioContext *malgo.AllocatedContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	sampleRate := uint32(audio.WireSampleRate)
	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	p.config = malgo.DefaultDeviceConfig(malgo.Playback)
	p.config.SampleRate = sampleRate
	p.config.Playback.Format = format
	p.config.Playback.Channels = uint32(channels)
	p.config.Alsa.NoMMap = 1
	p.config.PeriodSizeInFrames = sampleRate / 10 // ~100ms of audio
	p.config.Periods = 4

	p.audioContext = audioContext

	var err error
	if p.device, err = malgo.InitDevice(
		p.audioContext.Context,
		p.config,
		malgo.DeviceCallbacks{Data: p.feedDevice(bytesPerFrame)},
	); err != nil {
		return err
	}

	return nil
}

// EnqueuePlayback appends a wire-format chunk to the playback queue and lazily
// starts the device. It never blocks on the hardware; the device callback
// drains the queue at its own pace. Chunks are dropped when the device is not
// initialized, playback is best-effort.
func (p *playbackDevice) EnqueuePlayback(chunk []byte) {
	p.mu.Lock()
	device := p.device
	p.mu.Unlock()
	if device == nil {
		return
	}

	p.audioMu.Lock()
	p.pending = append(p.pending, chunk...)
	p.audioMu.Unlock()

	if !device.IsStarted() {
		p.mu.Lock()
		if p.device != nil && !p.device.IsStarted() {
			_ = p.device.Start()
		}
		p.mu.Unlock()
	}
}

// FlushPlayback discards every queued-but-unplayed byte. By the time it
// returns, the device callback can only observe an empty queue, so nothing
// scheduled before the flush is audible after it.
func (p *playbackDevice) FlushPlayback() {
	p.audioMu.Lock()
	p.pending = nil
	p.audioMu.Unlock()
}

func (p *playbackDevice) StopPlayback() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.device == nil {
		return fmt.Errorf("device not initialized")
	}

	if p.device.IsStarted() {
		if err := p.device.Stop(); err != nil {
			return fmt.Errorf("failed to stop playback device: %w", err)
		}
	}

	p.FlushPlayback()
	return nil
}

func (p *playbackDevice) Uninit() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.device == nil {
		return fmt.Errorf("device not initialized")
	}

	p.device.Uninit()
	p.device = nil

	return nil
}

func (p *playbackDevice) feedDevice(bytesPerFrame int) malgo.DataProc {
	return func(pOutput, _ []byte, frameCount uint32) {
		need := int(frameCount) * bytesPerFrame

		p.audioMu.Lock()
		defer p.audioMu.Unlock()

		if len(p.pending) == 0 {
			return
		}

		if len(p.pending) < need {
			_ = copy(pOutput, p.pending)
			p.pending = nil
			return
		}

		_ = copy(pOutput, p.pending[:need])
		p.pending = p.pending[need:]
	}
}
