package realtime

import "github.com/voxtask/voice-core/core/tools"

// Client → server event types.
const (
	typeSessionUpdate   = "session.update"
	typeAudioAppend     = "input_audio_buffer.append"
	typeItemCreate      = "conversation.item.create"
	typeResponseCreate  = "response.create"
	itemFunctionOutput  = "function_call_output"
	modalityText        = "text"
	modalityAudio       = "audio"
	audioFormatPCM16    = "pcm16"
	turnDetectionServer = "server_vad"
)

// Server → client event types.
const (
	typeSessionCreated   = "session.created"
	typeSessionUpdated   = "session.updated"
	typeSpeechStarted    = "input_audio_buffer.speech_started"
	typeSpeechStopped    = "input_audio_buffer.speech_stopped"
	typeTranscriptDelta  = "response.audio_transcript.delta"
	typeTranscriptDone   = "response.audio_transcript.done"
	typeAudioDelta       = "response.audio.delta"
	typeAudioDone        = "response.audio.done"
	typeFunctionCallDone = "response.function_call_arguments.done"
	typeResponseDone     = "response.done"
	typeError            = "error"
)

type sessionUpdateEvent struct {
	// EventID correlates client events with server acknowledgements and
	// error reports.
	EventID string        `json:"event_id,omitempty"`
	Type    string        `json:"type"`
	Session SessionConfig `json:"session"`
}

// SessionConfig is the session block of the configuration message sent once
// per connection before any audio.
type SessionConfig struct {
	Modalities              []string           `json:"modalities"`
	Instructions            string             `json:"instructions"`
	Voice                   string             `json:"voice"`
	InputAudioFormat        string             `json:"input_audio_format"`
	OutputAudioFormat       string             `json:"output_audio_format"`
	InputAudioTranscription TranscriptionModel `json:"input_audio_transcription"`
	TurnDetection           TurnDetection      `json:"turn_detection"`
	Tools                   []tools.Definition `json:"tools"`
}

type TranscriptionModel struct {
	Model string `json:"model"`
}

// TurnDetection tunes the server-side VAD that decides when the user is done
// speaking.
type TurnDetection struct {
	Type              string  `json:"type"`
	Threshold         float64 `json:"threshold"`
	PrefixPaddingMs   int     `json:"prefix_padding_ms"`
	SilenceDurationMs int     `json:"silence_duration_ms"`
}

type audioAppendEvent struct {
	EventID string `json:"event_id,omitempty"`
	Type    string `json:"type"`
	Audio   string `json:"audio"`
}

type itemCreateEvent struct {
	EventID string           `json:"event_id,omitempty"`
	Type    string           `json:"type"`
	Item    functionCallItem `json:"item"`
}

type functionCallItem struct {
	Type   string `json:"type"`
	CallID string `json:"call_id"`
	Output string `json:"output"`
}

type responseCreateEvent struct {
	EventID string `json:"event_id,omitempty"`
	Type    string `json:"type"`
}

// serverEvent is the superset of inbound event payloads. Only the fields
// matching the received type are populated; everything else stays zero.
type serverEvent struct {
	Type string `json:"type"`

	// Streaming payloads: transcript text or base64 PCM16, depending on type.
	Delta      string `json:"delta,omitempty"`
	Transcript string `json:"transcript,omitempty"`

	// Function call completion.
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
	CallID    string `json:"call_id,omitempty"`

	Session *struct {
		ID string `json:"id"`
	} `json:"session,omitempty"`

	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}
