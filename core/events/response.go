package events

const (
	// KindAssistantTranscriptSegment identifies a streamed transcript delta.
	KindAssistantTranscriptSegment Kind = "assistant_response.transcript_segment"
	// KindAssistantTranscriptFinal identifies the terminal transcript text.
	KindAssistantTranscriptFinal Kind = "assistant_response.transcript_final"
	// KindAssistantAudioFrame identifies a decoded chunk of spoken reply.
	KindAssistantAudioFrame Kind = "assistant_response.audio_frame"
	// KindAssistantAudioEnded identifies the end of the audio stream.
	KindAssistantAudioEnded Kind = "assistant_response.audio_ended"
	// KindAssistantResponseCompleted identifies the whole response finishing,
	// after every per-stream done event.
	KindAssistantResponseCompleted Kind = "assistant_response.completed"
)

// AssistantTranscriptSegment is an append-only transcript piece emitted in
// stream order.
type AssistantTranscriptSegment struct {
	Base
	Segment string
}

func NewAssistantTranscriptSegment(segment string) AssistantTranscriptSegment {
	return AssistantTranscriptSegment{Base: NewBase(KindAssistantTranscriptSegment), Segment: segment}
}

// AssistantTranscriptFinal is the terminal full transcript of the reply.
type AssistantTranscriptFinal struct {
	Base
	Transcript string
}

func NewAssistantTranscriptFinal(transcript string) AssistantTranscriptFinal {
	return AssistantTranscriptFinal{Base: NewBase(KindAssistantTranscriptFinal), Transcript: transcript}
}

// AssistantAudioFrame carries wire-format PCM already decoded from base64.
type AssistantAudioFrame struct {
	Base
	Audio []byte
}

func NewAssistantAudioFrame(audio []byte) AssistantAudioFrame {
	return AssistantAudioFrame{Base: NewBase(KindAssistantAudioFrame), Audio: audio}
}

// AssistantAudioEnded marks the audio stream completing.
type AssistantAudioEnded struct{ Base }

func NewAssistantAudioEnded() AssistantAudioEnded {
	return AssistantAudioEnded{Base: NewBase(KindAssistantAudioEnded)}
}

// AssistantResponseCompleted marks the whole response being done.
type AssistantResponseCompleted struct{ Base }

func NewAssistantResponseCompleted() AssistantResponseCompleted {
	return AssistantResponseCompleted{Base: NewBase(KindAssistantResponseCompleted)}
}
