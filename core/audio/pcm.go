package audio

import "encoding/binary"

// Samples decodes a little-endian linear16 chunk into int16 samples. A
// trailing odd byte is ignored.
func Samples(chunk []byte) []int16 {
	samples := make([]int16, len(chunk)/2)
	for i := range samples {
		samples[i] = int16(binary.LittleEndian.Uint16(chunk[2*i:]))
	}
	return samples
}

// Bytes encodes int16 samples as a little-endian linear16 chunk.
func Bytes(samples []int16) []byte {
	chunk := make([]byte, 2*len(samples))
	for i, sample := range samples {
		binary.LittleEndian.PutUint16(chunk[2*i:], uint16(sample))
	}
	return chunk
}

// Level computes the mean absolute amplitude of a linear16 chunk normalized
// to [0, 1]. Used for input level metering only, so precision loss on
// math.MinInt16 is acceptable.
func Level(chunk []byte) float64 {
	samples := Samples(chunk)
	if len(samples) == 0 {
		return 0
	}

	var total float64
	for _, sample := range samples {
		if sample < 0 {
			total -= float64(sample)
		} else {
			total += float64(sample)
		}
	}
	return total / float64(len(samples)) / 32768.0
}

// Resample converts linear16 samples between sample rates using linear
// interpolation. Equal rates return an untouched copy, so silence and any
// other signal round-trip bit-identically when no rate change is needed.
func Resample(samples []int16, fromRate, toRate int) []int16 {
	if fromRate == toRate || fromRate <= 0 || toRate <= 0 || len(samples) == 0 {
		out := make([]int16, len(samples))
		copy(out, samples)
		return out
	}

	outLen := len(samples) * toRate / fromRate
	if outLen == 0 {
		outLen = 1
	}
	out := make([]int16, outLen)
	step := float64(fromRate) / float64(toRate)
	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := pos - float64(j)
		out[i] = int16(float64(samples[j])*(1-frac) + float64(samples[j+1])*frac)
	}
	return out
}
