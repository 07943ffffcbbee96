// Package realtime implements the streaming protocol client: one persistent
// full-duplex websocket to the remote speech model, a configuration handshake,
// an outbound audio queue and a receive loop that turns wire frames into
// typed events.
package realtime

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/voxtask/voice-core/core/events"
)

// DefaultEndpoint is the production realtime endpoint. The model is appended
// as a query parameter.
const DefaultEndpoint = "wss://api.openai.com/v1/realtime"

// sendQueueDepth bounds the audio queue between the capture callback and the
// websocket writer. At ~50 chunks per second this is roughly ten seconds of
// headroom; under sustained backpressure audio is delayed, not dropped, until
// the cap is hit.
const sendQueueDepth = 512

// ErrNoCredential is surfaced when Connect is called without a configured
// credential.
var ErrNoCredential = errors.New("realtime: no credential configured")

type ConnectionState int32

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
)

func (s ConnectionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	}
	return "unknown"
}

// Dispatcher executes a model-issued function call and returns the textual
// result to relay back. Implementations must never panic; the output string
// is sent to the remote side verbatim.
type Dispatcher interface {
	Execute(ctx context.Context, callID, name, arguments string) string
}

// wsSession is the per-connection state. A fresh one is created on every
// Connect so audio queued against a dead connection is dropped rather than
// replayed stale.
type wsSession struct {
	conn      *websocket.Conn
	queue     chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func (s *wsSession) close() {
	s.closeOnce.Do(func() {
		close(s.done)
		_ = s.conn.Close()
	})
}

type Client struct {
	endpoint   string
	credential func() string
	dialer     *websocket.Dialer

	sessionConfig SessionConfig
	model         string
	instructions  func() string

	dispatcher Dispatcher
	emit       func(events.Event)

	state   atomic.Int32
	closing atomic.Bool

	mu      sync.Mutex // guards session and baseCtx swaps
	session *wsSession
	baseCtx context.Context

	writeMu sync.Mutex // serializes websocket writes

	transcriptMu sync.RWMutex
	transcript   string
}

func NewClient(opts ...Option) *Client {
	client := &Client{
		endpoint:   DefaultEndpoint,
		credential: func() string { return "" },
		dialer:     websocket.DefaultDialer,
		model:      "gpt-4o-realtime-preview",
		sessionConfig: SessionConfig{
			Modalities:              []string{modalityText, modalityAudio},
			Voice:                   "alloy",
			InputAudioFormat:        audioFormatPCM16,
			OutputAudioFormat:       audioFormatPCM16,
			InputAudioTranscription: TranscriptionModel{Model: "whisper-1"},
			TurnDetection: TurnDetection{
				Type:              turnDetectionServer,
				Threshold:         0.5,
				PrefixPaddingMs:   300,
				SilenceDurationMs: 500,
			},
		},
		instructions: func() string { return "" },
		emit:         func(events.Event) {},
		baseCtx:      context.Background(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// State returns the current connection state.
func (c *Client) State() ConnectionState {
	return ConnectionState(c.state.Load())
}

// IsConnected reports whether the receive loop is live.
func (c *Client) IsConnected() bool { return c.State() == StateConnected }

// Transcript returns the transcript text accumulated for the response
// currently streaming. Cleared when the response completes.
func (c *Client) Transcript() string {
	c.transcriptMu.RLock()
	defer c.transcriptMu.RUnlock()
	return c.transcript
}

// Connect opens the persistent connection, sends the session configuration
// exactly once and starts the receive loop. Calling while connected or
// connecting is a no-op. The failure is both returned and emitted as a
// session-closed event so observers see it without inspecting return values.
func (c *Client) Connect(ctx context.Context) error {
	if !c.state.CompareAndSwap(int32(StateDisconnected), int32(StateConnecting)) {
		return nil
	}

	ctx, span := tracer.Start(ctx, "realtime.connect")
	defer span.End()

	fail := func(err error) error {
		c.state.Store(int32(StateDisconnected))
		c.emit(events.NewSessionClosed(err))
		return err
	}

	credential := c.credential()
	if credential == "" {
		return fail(ErrNoCredential)
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+credential)
	header.Set("OpenAI-Beta", "realtime=v1")

	conn, _, err := c.dialer.DialContext(ctx, c.endpoint+"?model="+c.model, header)
	if err != nil {
		return fail(fmt.Errorf("failed to open realtime connection: %w", err))
	}

	session := &wsSession{
		conn:  conn,
		queue: make(chan []byte, sendQueueDepth),
		done:  make(chan struct{}),
	}

	if err := c.configureSession(conn); err != nil {
		session.close()
		return fail(fmt.Errorf("failed to configure session: %w", err))
	}

	c.mu.Lock()
	c.session = session
	c.baseCtx = ctx
	c.mu.Unlock()
	c.closing.Store(false)
	c.state.Store(int32(StateConnected))

	go c.forwardAudio(session)
	go c.readAndProcessMessages(session)

	return nil
}

// configureSession sends the one session.update this connection gets. Audio
// is only forwarded after this returns, preserving the configure-before-audio
// ordering.
func (c *Client) configureSession(conn *websocket.Conn) error {
	session := c.sessionConfig
	session.Instructions = c.instructions()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(sessionUpdateEvent{
		EventID: uuid.NewString(),
		Type:    typeSessionUpdate,
		Session: session,
	})
}

// SendAudio queues one captured wire-format chunk for forwarding. A no-op
// while disconnected. Never blocks the caller: the queue absorbs network
// jitter and chunks are dropped with a warning once it is full.
func (c *Client) SendAudio(chunk []byte) error {
	if c.State() != StateConnected {
		return nil
	}

	c.mu.Lock()
	session := c.session
	baseCtx := c.baseCtx
	c.mu.Unlock()
	if session == nil {
		return nil
	}

	select {
	case session.queue <- chunk:
	case <-session.done:
	default:
		droppedAudioChunks.Add(baseCtx, 1)
		logger.Warn("send queue full, dropping audio chunk", "queued", len(session.queue))
	}
	return nil
}

// forwardAudio drains the per-connection queue onto the wire as base64 append
// events.
func (c *Client) forwardAudio(session *wsSession) {
	for {
		select {
		case <-session.done:
			return
		case chunk := <-session.queue:
			payload := audioAppendEvent{
				EventID: uuid.NewString(),
				Type:    typeAudioAppend,
				Audio:   base64.StdEncoding.EncodeToString(chunk),
			}
			c.writeMu.Lock()
			err := session.conn.WriteJSON(payload)
			c.writeMu.Unlock()
			if err != nil {
				logger.Warn("failed to forward audio chunk", "error", err)
				return
			}
		}
	}
}

// SendToolResult relays a tool output back into the conversation and asks the
// model to continue with a fresh response.
func (c *Client) SendToolResult(callID, output string) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()
	if session == nil || c.State() != StateConnected {
		return fmt.Errorf("not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := session.conn.WriteJSON(itemCreateEvent{
		EventID: uuid.NewString(),
		Type:    typeItemCreate,
		Item:    functionCallItem{Type: itemFunctionOutput, CallID: callID, Output: output},
	}); err != nil {
		return fmt.Errorf("failed to send tool result: %w", err)
	}
	if err := session.conn.WriteJSON(responseCreateEvent{EventID: uuid.NewString(), Type: typeResponseCreate}); err != nil {
		return fmt.Errorf("failed to request continuation: %w", err)
	}
	return nil
}

// Disconnect closes the connection and resets to disconnected. Safe to call
// repeatedly and before any Connect.
func (c *Client) Disconnect() error {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	c.closing.Store(true)
	if session != nil {
		session.close()
	}
	c.state.Store(int32(StateDisconnected))
	return nil
}

// readAndProcessMessages is the receive loop: it terminates only on close or
// transport error, and every inbound frame goes through the single dispatch
// point in processMessage.
func (c *Client) readAndProcessMessages(session *wsSession) {
	for {
		_, msg, err := session.conn.ReadMessage()
		if err != nil {
			intentional := c.closing.Load()
			c.state.Store(int32(StateDisconnected))
			session.close()
			c.mu.Lock()
			if c.session == session {
				c.session = nil
			}
			c.mu.Unlock()

			if intentional {
				c.emit(events.NewSessionClosed(nil))
			} else {
				c.emit(events.NewSessionClosed(err))
			}
			return
		}
		c.processMessage(session, msg)
	}
}

func (c *Client) processMessage(session *wsSession, msg []byte) {
	var event serverEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		logger.Warn("failed to parse server event", "error", err)
		return
	}

	switch event.Type {
	case typeSessionCreated:
		sessionID := ""
		if event.Session != nil {
			sessionID = event.Session.ID
		}
		c.emit(events.NewSessionCreated(sessionID))

	case typeSessionUpdated:
		c.emit(events.NewSessionConfigured())

	case typeSpeechStarted:
		c.emit(events.NewUserSpeechStarted())

	case typeSpeechStopped:
		c.emit(events.NewUserSpeechEnded())

	case typeTranscriptDelta:
		c.transcriptMu.Lock()
		c.transcript += event.Delta
		c.transcriptMu.Unlock()
		c.emit(events.NewAssistantTranscriptSegment(event.Delta))

	case typeTranscriptDone:
		c.transcriptMu.Lock()
		c.transcript = event.Transcript
		c.transcriptMu.Unlock()
		c.emit(events.NewAssistantTranscriptFinal(event.Transcript))

	case typeAudioDelta:
		audio, err := base64.StdEncoding.DecodeString(event.Delta)
		if err != nil {
			logger.Warn("failed to decode audio delta", "error", err)
			return
		}
		c.emit(events.NewAssistantAudioFrame(audio))

	case typeAudioDone:
		c.emit(events.NewAssistantAudioEnded())

	case typeFunctionCallDone:
		c.emit(events.NewToolCallRequested(event.CallID, event.Name, event.Arguments))
		if c.dispatcher != nil {
			// Dispatch runs detached so a slow data-store call stalls one
			// tool turn, never the receive loop.
			go c.dispatchToolCall(session, event.CallID, event.Name, event.Arguments)
		}

	case typeResponseDone:
		c.transcriptMu.Lock()
		c.transcript = ""
		c.transcriptMu.Unlock()
		c.emit(events.NewAssistantResponseCompleted())

	case typeError:
		message := "unknown error"
		if event.Error != nil {
			message = event.Error.Message
		}
		c.emit(events.NewSessionError(message))

	default:
		// Unhandled event kinds are expected, the protocol is larger than
		// what this client consumes.
	}
}

// dispatchToolCall executes one function call and relays its result. Results
// for a session that has since been torn down are discarded.
func (c *Client) dispatchToolCall(session *wsSession, callID, name, arguments string) {
	c.mu.Lock()
	baseCtx := c.baseCtx
	c.mu.Unlock()
	output := c.dispatcher.Execute(baseCtx, callID, name, arguments)

	c.mu.Lock()
	stale := c.session != session
	c.mu.Unlock()
	if stale {
		logger.Info("discarding tool result for torn-down session", "name", name)
		return
	}

	if err := c.SendToolResult(callID, output); err != nil {
		logger.Warn("failed to relay tool result", "name", name, "error", err)
	}
}
