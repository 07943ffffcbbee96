package orchestration

// State is the single observable conversation state. It is written only by
// the orchestrator's event handling and read freely from other goroutines.
type State string

const (
	// StateIdle means no conversation is running.
	StateIdle State = "idle"
	// StateListening means the microphone is live and user speech is expected.
	StateListening State = "listening"
	// StateProcessing means a user turn ended and the model is working.
	StateProcessing State = "processing"
	// StateSpeaking means assistant audio is playing and capture is gated.
	StateSpeaking State = "speaking"
	// StateError means the session hit a fault; a new start recovers it.
	StateError State = "error"
)

// trigger names the conditions that may move the conversation between states.
type trigger string

const (
	triggerStart         trigger = "start"
	triggerStop          trigger = "stop"
	triggerSpeechStarted trigger = "speech_started"
	triggerSpeechStopped trigger = "speech_stopped"
	triggerAudioStarted  trigger = "audio_started"
	triggerTurnComplete  trigger = "turn_complete"
	triggerFault         trigger = "fault"
)

// transitions is the full table of legal moves. Anything absent is rejected
// and leaves the state untouched.
var transitions = map[State]map[trigger]State{
	StateIdle: {
		triggerStart: StateListening,
		triggerStop:  StateIdle,
	},
	StateListening: {
		triggerSpeechStarted: StateListening,
		triggerSpeechStopped: StateProcessing,
		triggerAudioStarted:  StateSpeaking,
		triggerFault:         StateError,
		triggerStop:          StateIdle,
	},
	StateProcessing: {
		triggerAudioStarted: StateSpeaking,
		// The user started talking again before the reply arrived.
		triggerSpeechStarted: StateListening,
		triggerTurnComplete:  StateListening,
		triggerFault:         StateError,
		triggerStop:          StateIdle,
	},
	StateSpeaking: {
		// Barge-in: user speech cuts playback short.
		triggerSpeechStarted: StateListening,
		triggerTurnComplete:  StateListening,
		triggerFault:         StateError,
		triggerStop:          StateIdle,
	},
	StateError: {
		triggerStart: StateListening,
		triggerStop:  StateIdle,
	},
}

// nextState resolves one transition. ok is false for an illegal move.
func nextState(from State, t trigger) (State, bool) {
	to, ok := transitions[from][t]
	return to, ok
}
