package cv

import "math"

// The last segment and the sealed flag share one word so that a read-modify-write of the counter
// and the Active->Sealed transition are a single compare-and-swap.
const sealedBit uint64 = 1 << 32

func pack(ext uint32, sealed bool) uint64 {
	state := uint64(ext)
	if sealed {
		state |= sealedBit
	}
	return state
}

func unpack(state uint64) (uint32, bool) {
	return uint32(state), state&sealedBit != 0
}

func digits(n uint32) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}

// exceeds reports whether a payload of the given length is too long for the version.
func exceeds(v Version, length int) bool {
	return length > v.MaxVectorLength()
}

// isOversized reports whether appending ext to prefix would exceed the version's budget.
func isOversized(v Version, prefix string, ext uint32) bool {
	return exceeds(v, len(prefix)+1+digits(ext))
}

// nextExtension returns the value an increment of ext would commit, or false when the vector has
// to seal instead.
func nextExtension(v Version, prefix string, ext uint32) (uint32, bool) {
	if ext == math.MaxUint32 {
		return 0, false
	}
	next := ext + 1
	if isOversized(v, prefix, next) {
		return 0, false
	}
	return next, true
}

// appendedLength is the payload length after appending segs to a payload of length n.
func appendedLength(n int, segs ...uint32) int {
	for _, s := range segs {
		n += 1 + digits(s)
	}
	return n
}
