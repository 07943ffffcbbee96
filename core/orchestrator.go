// Package orchestration ties the audio engine, the streaming protocol client
// and the tool bridge into one full-duplex conversation loop. It owns the
// conversation state machine and the capture gate that keeps the microphone
// quiet while the assistant is speaking.
package orchestration

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/voxtask/voice-core/core/audio/miniaudio"
	"github.com/voxtask/voice-core/core/config"
	"github.com/voxtask/voice-core/core/events"
	"github.com/voxtask/voice-core/core/prompt"
	"github.com/voxtask/voice-core/core/realtime"
	"github.com/voxtask/voice-core/core/store"
	"github.com/voxtask/voice-core/core/tools"
)

type Orchestrator struct {
	cfg    *config.Config
	audio  AudioEngine
	client RealtimeClient
	bridge *tools.Bridge
	cache  *store.Cache

	settleDelay   time.Duration
	onEvent       func(events.Event)
	onStateChange func(State)

	closeOnce sync.Once

	// capturePaused gates captured chunks without touching the device; the
	// capture callback drops audio while it is set.
	capturePaused atomic.Bool

	mu             sync.Mutex
	state          State
	baseContext    context.Context
	settleTimer    *time.Timer
	audioStreaming bool
	audioDone      bool
	responseDone   bool
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		cfg:           config.Default(),
		state:         StateIdle,
		onEvent:       func(events.Event) {},
		onStateChange: func(State) {},
		baseContext:   context.Background(),
	}

	for _, opt := range opts {
		opt(o)
	}

	if o.settleDelay == 0 {
		o.settleDelay = time.Duration(o.cfg.Realtime.SettleDelayMs) * time.Millisecond
	}

	if o.client == nil {
		o.client = realtime.NewClient(o.defaultClientOptions()...)
	}

	return o
}

// defaultClientOptions assembles a protocol client from the configuration,
// the tool bridge and a prompt rebuilt from cached context on every connect.
func (o *Orchestrator) defaultClientOptions() []realtime.Option {
	builder := prompt.NewBuilder()
	instructions := func() string {
		if o.cache != nil {
			return builder.Build(o.cache.Tasks(), o.cache.Contacts())
		}
		return builder.Build(nil, nil)
	}

	clientOpts := []realtime.Option{
		realtime.WithModel(o.cfg.Realtime.Model),
		realtime.WithVoice(o.cfg.Realtime.Voice),
		realtime.WithTranscriptionModel(o.cfg.Realtime.TranscriptionModel),
		realtime.WithTurnDetection(
			o.cfg.Realtime.TurnDetection.Threshold,
			o.cfg.Realtime.TurnDetection.PrefixPaddingMs,
			o.cfg.Realtime.TurnDetection.SilenceDurationMs,
		),
		realtime.WithCredential(config.APIKey),
		realtime.WithInstructions(instructions),
		realtime.WithEventEmitter(o.HandleEvent),
	}
	if o.bridge != nil {
		clientOpts = append(clientOpts,
			realtime.WithDispatcher(o.bridge),
			realtime.WithTools(tools.Definitions()),
		)
	}
	return clientOpts
}

// State returns the current conversation state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// IsCapturePaused reports whether captured audio is currently being gated.
func (o *Orchestrator) IsCapturePaused() bool { return o.capturePaused.Load() }

// InputLevel exposes the capture amplitude of the underlying engine.
func (o *Orchestrator) InputLevel() float64 {
	if o.audio == nil {
		return 0
	}
	return o.audio.InputLevel()
}

// StartConversation connects the protocol client if needed, opens the
// microphone and moves to listening. Calling it while a conversation is
// already running is a no-op.
func (o *Orchestrator) StartConversation(ctx context.Context) error {
	o.mu.Lock()
	if _, ok := nextState(o.state, triggerStart); !ok {
		o.mu.Unlock()
		return nil
	}
	o.mu.Unlock()

	ctx, span := tracer.Start(ctx, "orchestration.start_conversation")
	defer span.End()

	// The receive loop reads the base context concurrently, so restarting
	// after an error swaps it under the state lock.
	o.mu.Lock()
	o.baseContext = ctx
	o.mu.Unlock()

	if o.audio == nil {
		engine, err := miniaudio.NewEngine()
		if err != nil {
			return fmt.Errorf("failed to initialize audio engine: %w", err)
		}
		o.audio = engine
	}

	if !o.client.IsConnected() {
		if err := o.client.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
	}

	o.capturePaused.Store(false)
	if err := o.audio.StartCapture(ctx, o.onCapturedAudio); err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}

	o.apply(triggerStart)
	return nil
}

// StopConversation stops capture, flushes anything still queued for the
// speaker and returns to idle. Safe to call in any state, repeatedly.
func (o *Orchestrator) StopConversation() error {
	o.mu.Lock()
	if o.settleTimer != nil {
		o.settleTimer.Stop()
		o.settleTimer = nil
	}
	o.audioStreaming = false
	o.audioDone = false
	o.responseDone = false
	o.mu.Unlock()

	var firstErr error
	if o.audio != nil {
		if err := o.audio.StopCapture(); err != nil {
			firstErr = fmt.Errorf("failed to stop capture: %w", err)
		}
		o.audio.FlushPlayback()
	}
	o.capturePaused.Store(false)

	o.apply(triggerStop)
	return firstErr
}

// Close tears the whole pipeline down. The orchestrator cannot be restarted
// afterwards.
func (o *Orchestrator) Close() {
	o.closeOnce.Do(func() {
		if err := o.StopConversation(); err != nil {
			logger.Warn("failed to stop conversation on close", "error", err)
		}
		if err := o.client.Disconnect(); err != nil {
			logger.Warn("failed to disconnect on close", "error", err)
		}
		if closer, ok := o.audio.(interface{ Close() }); ok {
			closer.Close()
		}
	})
}

// onCapturedAudio forwards microphone chunks to the protocol client unless
// the capture gate is closed.
func (o *Orchestrator) onCapturedAudio(chunk []byte) {
	if o.capturePaused.Load() {
		return
	}
	if err := o.client.SendAudio(chunk); err != nil {
		logger.Warn("failed to forward captured audio", "error", err)
	}
}

// HandleEvent is the single sink for protocol client events. It drives the
// state machine, the capture gate and the playback queue, then forwards the
// event to the configured handler.
func (o *Orchestrator) HandleEvent(event events.Event) {
	switch event := event.(type) {
	case events.UserSpeechStarted:
		// Barge-in: anything still queued for the speaker is stale now.
		if o.audio != nil {
			o.audio.FlushPlayback()
		}
		o.mu.Lock()
		if o.settleTimer != nil {
			o.settleTimer.Stop()
			o.settleTimer = nil
		}
		o.audioStreaming = false
		o.mu.Unlock()
		o.capturePaused.Store(false)
		o.apply(triggerSpeechStarted)

	case events.UserSpeechEnded:
		o.apply(triggerSpeechStopped)

	case events.AssistantAudioFrame:
		o.mu.Lock()
		firstFrame := !o.audioStreaming
		if firstFrame {
			o.audioStreaming = true
			o.audioDone = false
			o.responseDone = false
		}
		o.mu.Unlock()
		if firstFrame {
			o.capturePaused.Store(true)
			o.apply(triggerAudioStarted)
		}
		if o.audio != nil {
			o.audio.EnqueuePlayback(event.Audio)
		}

	case events.AssistantAudioEnded:
		o.mu.Lock()
		o.audioDone = true
		o.maybeScheduleResumeLocked()
		o.mu.Unlock()

	case events.AssistantResponseCompleted:
		o.mu.Lock()
		o.responseDone = true
		if !o.audioStreaming {
			// A response without spoken audio, typically a pure tool turn.
			o.audioDone = true
		}
		o.maybeScheduleResumeLocked()
		o.mu.Unlock()
		if o.cache != nil {
			o.cache.RefreshAsync(context.WithoutCancel(o.context()))
		}

	case events.SessionError:
		o.apply(triggerFault)

	case events.SessionClosed:
		if event.Err != nil {
			o.apply(triggerFault)
		} else {
			o.apply(triggerStop)
		}
	}

	o.onEvent(event)
}

// maybeScheduleResumeLocked arms the settle timer once the audio stream and
// the response have both finished. Capture resumes only after the delay so
// the speaker tail does not leak into the next user turn.
func (o *Orchestrator) maybeScheduleResumeLocked() {
	if !o.audioDone || !o.responseDone {
		return
	}
	if o.settleTimer != nil {
		o.settleTimer.Stop()
	}
	o.settleTimer = time.AfterFunc(o.settleDelay, o.finishTurn)
}

func (o *Orchestrator) finishTurn() {
	o.mu.Lock()
	if !o.audioDone || !o.responseDone {
		o.mu.Unlock()
		return
	}
	o.audioStreaming = false
	o.audioDone = false
	o.responseDone = false
	o.settleTimer = nil
	o.mu.Unlock()

	o.capturePaused.Store(false)
	o.apply(triggerTurnComplete)
}

// apply runs one state machine transition. Illegal moves are dropped and
// logged, never acted on.
func (o *Orchestrator) apply(t trigger) {
	o.mu.Lock()
	to, ok := nextState(o.state, t)
	if !ok {
		from := o.state
		o.mu.Unlock()
		logger.Debug("rejected state transition", "from", string(from), "trigger", string(t))
		return
	}
	changed := to != o.state
	o.state = to
	baseCtx := o.baseContext
	o.mu.Unlock()

	if changed {
		stateTransitions.Add(baseCtx, 1)
		o.onStateChange(to)
	}
}

// context returns the conversation-scoped base context under the state lock.
func (o *Orchestrator) context() context.Context {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.baseContext
}
