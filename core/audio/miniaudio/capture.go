package miniaudio

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
	"github.com/voxtask/voice-core/core/audio"
)

type captureDevice struct {
	audioContext *malgo.AllocatedContext
	device       *malgo.Device
	config       malgo.DeviceConfig

	onChunk func(chunk []byte)

	// levelBits holds the most recent mean-abs input level as float64 bits so
	// UI observers can poll it without taking mu.
	levelBits atomic.Uint64

	mu sync.Mutex
}

func (c *captureDevice) Init(audioContext *malgo.AllocatedContext) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	channels := 1
	format := malgo.FormatS16
	bytesPerFrame := malgo.SampleSizeInBytes(format) * channels

	// The device is configured directly at the wire rate; miniaudio resamples
	// from whatever the hardware natively runs at.
	c.config = malgo.DefaultDeviceConfig(malgo.Capture)
	c.config.SampleRate = uint32(audio.WireSampleRate)
	c.config.Capture.Format = format
	c.config.Capture.Channels = uint32(channels)
	c.config.Alsa.NoMMap = 1
	c.config.PerformanceProfile = malgo.LowLatency
	c.config.PeriodSizeInFrames = 480
	c.config.Periods = 3

	c.audioContext = audioContext

	var err error
	c.device, err = malgo.InitDevice(c.audioContext.Context, c.config, malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, frameCount uint32) {
			n := int(frameCount) * bytesPerFrame
			if len(pInput) < n || n == 0 {
				return
			}
			chunk := pInput[:n]
			c.levelBits.Store(math.Float64bits(audio.Level(chunk)))
			if c.onChunk != nil {
				c.onChunk(chunk)
			}
		},
	})
	if err != nil {
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	return nil
}

func (c *captureDevice) Start(onChunk func(chunk []byte)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if c.device.IsStarted() {
		return nil
	}

	c.onChunk = onChunk
	if err := c.device.Start(); err != nil {
		c.onChunk = nil
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	return nil
}

func (c *captureDevice) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.device == nil {
		return fmt.Errorf("device not initialized")
	} else if !c.device.IsStarted() {
		return nil
	}

	if err := c.device.Stop(); err != nil {
		return fmt.Errorf("failed to stop capture device: %w", err)
	}

	c.onChunk = nil
	c.levelBits.Store(0)
	return nil
}

// InputLevel reports the mean absolute amplitude of the last captured block,
// normalized to [0, 1]. Zero when capture is stopped.
func (c *captureDevice) InputLevel() float64 {
	return math.Float64frombits(c.levelBits.Load())
}

func (c *captureDevice) Uninit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.device != nil {
		c.device.Uninit()
		c.device = nil
	}

	c.onChunk = nil
	return nil
}
