// Package miniaudio provides the default full-duplex audio engine backed by
// malgo (miniaudio). Capture and playback run as two independent devices on
// one shared context so the microphone and the speaker can be open at the
// same time; which of them is actually active at any moment is the
// orchestrator's policy, not the engine's.
package miniaudio

import (
	"context"
	"fmt"

	"github.com/gen2brain/malgo"
	"github.com/voxtask/voice-core/core/audio"
)

type Engine struct {
	// audioContext is only saved to be able to uninitialize it, it is an
	// ownership thing
	audioContext *malgo.AllocatedContext
	playbackDevice
	captureDevice
}

func NewEngine() (*Engine, error) {
	audioCtx, err := malgo.InitContext(
		nil,
		malgo.ContextConfig{},
		func(message string) {},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize audio context: %w", err)
	}

	engine := Engine{audioContext: audioCtx}

	if err := engine.playbackDevice.Init(audioCtx); err != nil {
		engine.Close()
		return nil, fmt.Errorf("failed to initialize playback device: %w", err)
	}

	if err := engine.captureDevice.Init(audioCtx); err != nil {
		engine.Close()
		return nil, fmt.Errorf("failed to initialize capture device: %w", err)
	}

	return &engine, nil
}

func (e *Engine) StartCapture(_ context.Context, onChunk func(chunk []byte)) error {
	return e.captureDevice.Start(onChunk)
}

func (e *Engine) StopCapture() error {
	return e.captureDevice.Stop()
}

func (e *Engine) Close() {
	_ = e.captureDevice.Uninit()
	_ = e.playbackDevice.Uninit()
	_ = e.audioContext.Uninit()
	e.audioContext.Free()
}

func (e *Engine) EncodingInfo() audio.EncodingInfo {
	return audio.WireEncodingInfo()
}
