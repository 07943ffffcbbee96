package orchestration

import (
	"context"
	"time"

	"github.com/voxtask/voice-core/core/config"
	"github.com/voxtask/voice-core/core/events"
	"github.com/voxtask/voice-core/core/store"
	"github.com/voxtask/voice-core/core/tools"
)

type OrchestratorOption func(*Orchestrator)

// AudioEngine is the capture and playback surface the orchestrator drives.
// Both bundled engines satisfy it.
type AudioEngine interface {
	StartCapture(ctx context.Context, onChunk func(chunk []byte)) error
	StopCapture() error
	EnqueuePlayback(chunk []byte)
	FlushPlayback()
	InputLevel() float64
}

func WithAudioEngine(engine AudioEngine) OrchestratorOption {
	return func(o *Orchestrator) {
		o.audio = engine
	}
}

// RealtimeClient is the protocol surface the orchestrator needs. Without this
// option a default client is assembled from the configuration.
type RealtimeClient interface {
	Connect(ctx context.Context) error
	Disconnect() error
	SendAudio(chunk []byte) error
	IsConnected() bool
}

func WithRealtimeClient(client RealtimeClient) OrchestratorOption {
	return func(o *Orchestrator) {
		o.client = client
	}
}

// WithToolBridge advertises the bridge's functions to the model and routes
// its function calls there.
func WithToolBridge(bridge *tools.Bridge) OrchestratorOption {
	return func(o *Orchestrator) {
		o.bridge = bridge
	}
}

// WithStoreCache supplies the cached task/contact context used for prompt
// building and refreshed after each completed response.
func WithStoreCache(cache *store.Cache) OrchestratorOption {
	return func(o *Orchestrator) {
		o.cache = cache
	}
}

func WithConfig(cfg *config.Config) OrchestratorOption {
	return func(o *Orchestrator) {
		if cfg != nil {
			o.cfg = cfg
		}
	}
}

// WithSettleDelay overrides how long capture stays paused after the assistant
// finishes speaking.
func WithSettleDelay(delay time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.settleDelay = delay
	}
}

// WithEventHandler forwards every pipeline event to the given handler after
// the orchestrator has reacted to it.
func WithEventHandler(handler func(events.Event)) OrchestratorOption {
	return func(o *Orchestrator) {
		if handler != nil {
			o.onEvent = handler
		}
	}
}

// WithStateChangeHandler observes every state machine transition.
func WithStateChangeHandler(handler func(State)) OrchestratorOption {
	return func(o *Orchestrator) {
		if handler != nil {
			o.onStateChange = handler
		}
	}
}
