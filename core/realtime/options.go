package realtime

import (
	"github.com/gorilla/websocket"
	"github.com/voxtask/voice-core/core/events"
	"github.com/voxtask/voice-core/core/tools"
)

type Option func(*Client)

// WithEndpoint overrides the websocket endpoint, primarily for tests and
// proxies.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

func WithVoice(voice string) Option {
	return func(c *Client) { c.sessionConfig.Voice = voice }
}

func WithTranscriptionModel(model string) Option {
	return func(c *Client) { c.sessionConfig.InputAudioTranscription.Model = model }
}

// WithTurnDetection tunes the server-side voice activity detector used to
// delimit user turns.
func WithTurnDetection(threshold float64, prefixPaddingMs, silenceDurationMs int) Option {
	return func(c *Client) {
		c.sessionConfig.TurnDetection = TurnDetection{
			Type:              turnDetectionServer,
			Threshold:         threshold,
			PrefixPaddingMs:   prefixPaddingMs,
			SilenceDurationMs: silenceDurationMs,
		}
	}
}

// WithInstructions sets the instructions source. It is re-evaluated on every
// Connect, so reconnects pick up a prompt rebuilt against fresh context.
func WithInstructions(instructions func() string) Option {
	return func(c *Client) {
		if instructions != nil {
			c.instructions = instructions
		}
	}
}

// WithTools advertises the given function definitions to the model.
func WithTools(definitions []tools.Definition) Option {
	return func(c *Client) { c.sessionConfig.Tools = definitions }
}

// WithDispatcher routes model-issued function calls to the given executor.
// Without one, tool call events are still emitted but no result is relayed.
func WithDispatcher(dispatcher Dispatcher) Option {
	return func(c *Client) { c.dispatcher = dispatcher }
}

func WithEventEmitter(emit func(events.Event)) Option {
	return func(c *Client) {
		if emit != nil {
			c.emit = emit
		}
	}
}

// WithCredential sets the credential source, resolved on every Connect.
func WithCredential(credential func() string) Option {
	return func(c *Client) {
		if credential != nil {
			c.credential = credential
		}
	}
}

func WithDialer(dialer *websocket.Dialer) Option {
	return func(c *Client) {
		if dialer != nil {
			c.dialer = dialer
		}
	}
}
