package events

const (
	// KindUserSpeechStarted identifies server VAD detecting the user speaking.
	KindUserSpeechStarted Kind = "user_speech.started"
	// KindUserSpeechEnded identifies server VAD deciding the user is done.
	KindUserSpeechEnded Kind = "user_speech.ended"
)

// UserSpeechStarted marks the user starting to speak. When raised while the
// assistant is mid-reply it doubles as the barge-in signal.
type UserSpeechStarted struct{ Base }

func NewUserSpeechStarted() UserSpeechStarted {
	return UserSpeechStarted{Base: NewBase(KindUserSpeechStarted)}
}

// UserSpeechEnded marks the end of the user's speech turn.
type UserSpeechEnded struct{ Base }

func NewUserSpeechEnded() UserSpeechEnded {
	return UserSpeechEnded{Base: NewBase(KindUserSpeechEnded)}
}
