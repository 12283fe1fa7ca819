package cv

import (
	"strings"
	"sync/atomic"
)

// Vector is a correlation vector. The last extension is the only mutable part and is changed
// exclusively through Increment; every other operation returns a new Vector. A Vector must not
// be copied after first use.
type Vector struct {
	gen     *Generator
	version Version
	base    string
	// prefix is the base followed by every extension but the last.
	prefix  string
	frozen  []uint32
	state   atomic.Uint64
}

func newVector(g *Generator, v Version, base string, segs []uint32, sealed bool) *Vector {
	if g == nil {
		g = defaultGenerator
	}

	last := len(segs) - 1
	frozen := append([]uint32(nil), segs[:last]...)

	var b strings.Builder
	b.WriteString(base)
	formatSegments(&b, frozen)

	vec := &Vector{
		gen:     g,
		version: v,
		base:    base,
		prefix:  b.String(),
		frozen:  frozen,
	}
	vec.state.Store(pack(segs[last], sealed))
	return vec
}

// Value is the canonical wire form, to be sent in the MS-CV header.
func (v *Vector) Value() string {
	ext, sealed := unpack(v.state.Load())
	return format(v.prefix, ext, sealed)
}

func (v *Vector) String() string {
	return v.Value()
}

func (v *Vector) Base() string {
	return v.base
}

// Extension is the current value of the last segment.
func (v *Vector) Extension() uint32 {
	ext, _ := unpack(v.state.Load())
	return ext
}

// Segments returns a copy of all extensions, the last one included.
func (v *Vector) Segments() []uint32 {
	ext, _ := unpack(v.state.Load())
	return append(append(make([]uint32, 0, len(v.frozen)+1), v.frozen...), ext)
}

func (v *Vector) Version() Version {
	return v.version
}

// Sealed reports whether the vector reached its length budget and can no longer change.
func (v *Vector) Sealed() bool {
	_, sealed := unpack(v.state.Load())
	return sealed
}

// Equal compares the canonical values of two vectors.
func (v *Vector) Equal(other *Vector) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.Value() == other.Value()
}

// Increment adds one to the last extension and returns the new value. When the increment would
// exceed the length budget the vector seals instead and the sealed value is returned; once
// sealed, every call returns the same string. Safe for concurrent use: no two callers observe
// the same incremented value.
func (v *Vector) Increment() string {
	for {
		state := v.state.Load()
		ext, sealed := unpack(state)
		if sealed {
			return format(v.prefix, ext, true)
		}

		next, ok := nextExtension(v.version, v.prefix, ext)
		if !ok {
			if v.state.CompareAndSwap(state, pack(ext, true)) {
				return format(v.prefix, ext, true)
			}
			continue
		}

		if v.state.CompareAndSwap(state, pack(next, false)) {
			return format(v.prefix, next, false)
		}
	}
}

// Extend returns a new vector one level deeper, ending in a 0 extension. If that would exceed
// the length budget, or v is already sealed, the result is v's current value sealed.
func (v *Vector) Extend() *Vector {
	return v.derive(0)
}

// derive appends segs to a snapshot of v, sealing the snapshot instead when they do not fit.
func (v *Vector) derive(segs ...uint32) *Vector {
	ext, sealed := unpack(v.state.Load())
	current := append(append(make([]uint32, 0, len(v.frozen)+1+len(segs)), v.frozen...), ext)

	if sealed {
		return newVector(v.gen, v.version, v.base, current, true)
	}

	payload := len(v.prefix) + 1 + digits(ext)
	if exceeds(v.version, appendedLength(payload, segs...)) {
		return newVector(v.gen, v.version, v.base, current, true)
	}

	return newVector(v.gen, v.version, v.base, append(current, segs...), false)
}
