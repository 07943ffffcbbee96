package audio

// WireSampleRate is the sample rate the streaming protocol expects for both
// captured and played audio. All device-side conversion targets this rate.
const (
	WireSampleRate = 24000
	WireFormat     = "linear16"
)

// WireEncodingInfo returns the encoding the remote model speaks: mono,
// 16-bit signed linear PCM at [WireSampleRate].
func WireEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: WireSampleRate, Format: WireFormat}
}

// EncodingInfo describes the mono PCM stream an engine produces and consumes.
type EncodingInfo struct {
	SampleRate int
	Format     string
}
