package audio

import (
	"bytes"
	"testing"
)

func TestSamplesBytesRoundTrip(t *testing.T) {
	chunk := []byte{0x00, 0x00, 0xFF, 0x7F, 0x00, 0x80, 0x01, 0x00}

	roundTripped := Bytes(Samples(chunk))
	if !bytes.Equal(chunk, roundTripped) {
		t.Fatalf("expected round trip to preserve bytes, got %v", roundTripped)
	}
}

func TestSilenceRoundTripIsBitIdentical(t *testing.T) {
	silence := make([]byte, 4800)

	resampled := Resample(Samples(silence), WireSampleRate, WireSampleRate)
	roundTripped := Bytes(resampled)

	if len(roundTripped) != len(silence) {
		t.Fatalf("expected %d bytes, got %d", len(silence), len(roundTripped))
	}
	if !bytes.Equal(silence, roundTripped) {
		t.Fatalf("expected silence to round trip bit-identically")
	}
}

func TestResamplePreservesSampleCountAtEqualRates(t *testing.T) {
	samples := []int16{1, -1, 300, -300, 32767, -32768}

	out := Resample(samples, 24000, 24000)
	if len(out) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(out))
	}
	for i := range samples {
		if out[i] != samples[i] {
			t.Fatalf("expected sample %d to be %d, got %d", i, samples[i], out[i])
		}
	}
}

func TestResampleHalvesAndDoubles(t *testing.T) {
	samples := make([]int16, 480)
	for i := range samples {
		samples[i] = int16(i)
	}

	down := Resample(samples, 48000, 24000)
	if len(down) != 240 {
		t.Fatalf("expected 240 samples after downsampling, got %d", len(down))
	}

	up := Resample(samples, 24000, 48000)
	if len(up) != 960 {
		t.Fatalf("expected 960 samples after upsampling, got %d", len(up))
	}
}

func TestLevel(t *testing.T) {
	if level := Level(nil); level != 0 {
		t.Fatalf("expected empty chunk level 0, got %f", level)
	}

	silence := make([]byte, 960)
	if level := Level(silence); level != 0 {
		t.Fatalf("expected silence level 0, got %f", level)
	}

	fullScale := make([]int16, 480)
	for i := range fullScale {
		fullScale[i] = -32768
	}
	if level := Level(Bytes(fullScale)); level != 1 {
		t.Fatalf("expected full scale level 1, got %f", level)
	}

	halfScale := make([]int16, 480)
	for i := range halfScale {
		halfScale[i] = 16384
	}
	if level := Level(Bytes(halfScale)); level != 0.5 {
		t.Fatalf("expected half scale level 0.5, got %f", level)
	}
}
