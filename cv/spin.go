package cv

import (
	"fmt"
	"strings"
)

// SpinInterval is the time resolution mixed into a spin value.
type SpinInterval int

const (
	// SpinIntervalCoarse drops the 24 least significant tick bits, about 1.67 seconds.
	SpinIntervalCoarse SpinInterval = iota
	// SpinIntervalFine drops the 16 least significant tick bits, about 6.5 milliseconds.
	SpinIntervalFine
	// SpinIntervalNone leaves time out of the spin value.
	SpinIntervalNone
)

// SpinPeriodicity is the number of time bits kept in a spin value.
type SpinPeriodicity int

const (
	SpinPeriodicityNone   SpinPeriodicity = 0
	SpinPeriodicityShort  SpinPeriodicity = 16
	SpinPeriodicityMedium SpinPeriodicity = 24
	SpinPeriodicityLong   SpinPeriodicity = 32
)

// SpinEntropy is the number of random bits in a spin value.
type SpinEntropy int

const (
	SpinEntropyNone  SpinEntropy = 0
	SpinEntropyOne   SpinEntropy = 8
	SpinEntropyTwo   SpinEntropy = 16
	SpinEntropyThree SpinEntropy = 24
	SpinEntropyFour  SpinEntropy = 32
)

// SpinParameters configures the spin operator.
type SpinParameters struct {
	Interval    SpinInterval
	Periodicity SpinPeriodicity
	Entropy     SpinEntropy
}

// DefaultSpinParameters returns coarse interval, short periodicity and two bytes of entropy.
func DefaultSpinParameters() SpinParameters {
	return SpinParameters{
		Interval:    SpinIntervalCoarse,
		Periodicity: SpinPeriodicityShort,
		Entropy:     SpinEntropyTwo,
	}
}

var (
	intervalNames    = map[SpinInterval]string{SpinIntervalCoarse: "coarse", SpinIntervalFine: "fine", SpinIntervalNone: "none"}
	periodicityNames = map[SpinPeriodicity]string{SpinPeriodicityNone: "none", SpinPeriodicityShort: "short", SpinPeriodicityMedium: "medium", SpinPeriodicityLong: "long"}
	entropyNames     = map[SpinEntropy]string{SpinEntropyNone: "none", SpinEntropyOne: "one", SpinEntropyTwo: "two", SpinEntropyThree: "three", SpinEntropyFour: "four"}
)

func (i SpinInterval) String() string {
	if name, ok := intervalNames[i]; ok {
		return name
	}
	return fmt.Sprintf("SpinInterval(%d)", int(i))
}

func (p SpinPeriodicity) String() string {
	if name, ok := periodicityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("SpinPeriodicity(%d)", int(p))
}

func (e SpinEntropy) String() string {
	if name, ok := entropyNames[e]; ok {
		return name
	}
	return fmt.Sprintf("SpinEntropy(%d)", int(e))
}

func lookupName[T comparable](names map[T]string, kind, text string) (T, error) {
	want := strings.ToLower(strings.TrimSpace(text))
	for value, name := range names {
		if name == want {
			return value, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("unknown spin %s %q", kind, text)
}

func (i *SpinInterval) UnmarshalText(text []byte) (err error) {
	*i, err = lookupName(intervalNames, "interval", string(text))
	return err
}

func (p *SpinPeriodicity) UnmarshalText(text []byte) (err error) {
	*p, err = lookupName(periodicityNames, "periodicity", string(text))
	return err
}

func (e *SpinEntropy) UnmarshalText(text []byte) (err error) {
	*e, err = lookupName(entropyNames, "entropy", string(text))
	return err
}

func (i SpinInterval) MarshalText() ([]byte, error)    { return []byte(i.String()), nil }
func (p SpinPeriodicity) MarshalText() ([]byte, error) { return []byte(p.String()), nil }
func (e SpinEntropy) MarshalText() ([]byte, error)     { return []byte(e.String()), nil }

// Validate checks every field holds one of the allowed values.
func (p SpinParameters) Validate() error {
	if _, ok := intervalNames[p.Interval]; !ok {
		return fmt.Errorf("unknown spin interval %d", int(p.Interval))
	}
	if _, ok := periodicityNames[p.Periodicity]; !ok {
		return fmt.Errorf("unknown spin periodicity %d", int(p.Periodicity))
	}
	if _, ok := entropyNames[p.Entropy]; !ok {
		return fmt.Errorf("unknown spin entropy %d", int(p.Entropy))
	}
	return nil
}

func (p SpinParameters) ticksBitsToDrop() uint {
	if p.Interval == SpinIntervalFine {
		return 16
	}
	return 24
}

// TotalBits is the width of the spin value.
func (p SpinParameters) TotalBits() int {
	if p.Interval == SpinIntervalNone {
		return int(p.Entropy)
	}
	return int(p.Periodicity) + int(p.Entropy)
}

// spinValue is the time component, shifted left to make room for the random bits, masked to
// TotalBits.
func spinValue(e Entropy, ticks uint64, p SpinParameters) uint64 {
	var value uint64
	if p.Interval != SpinIntervalNone {
		value = ticks >> p.ticksBitsToDrop()
	}

	var buf [4]byte
	random := buf[:int(p.Entropy)/8]
	e.Fill(random)
	for _, b := range random {
		value = value<<8 | uint64(b)
	}

	if total := p.TotalBits(); total < 64 {
		value &= 1<<uint(total) - 1
	}
	return value
}

// spinSegments renders a spin value as one extension, or two when it is wider than 32 bits.
func spinSegments(value uint64, totalBits int) []uint32 {
	if totalBits > 32 {
		return []uint32{uint32(value >> 32), uint32(value)}
	}
	return []uint32{uint32(value)}
}

// Spin returns a new vector with a low collision, time and entropy derived extension followed by
// a 0 extension. It fails with ErrInvalidOperation for versions that do not support spin. Like
// Extend, it seals instead of exceeding the length budget.
func (v *Vector) Spin(p SpinParameters) (*Vector, error) {
	return v.spin(OpSpin, p)
}

func (v *Vector) spin(op Op, p SpinParameters) (*Vector, error) {
	if !v.version.SupportsSpin() {
		return nil, invalidOperation(op, v.Value(), "spin is not supported in %s", v.version)
	}
	if err := p.Validate(); err != nil {
		return nil, invalidArgument(op, v.Value(), "%s", err.Error())
	}
	if v.Sealed() {
		return v.derive(), nil
	}

	value := spinValue(v.gen.entropy, ticks(v.gen.clock()), p)
	return v.derive(append(spinSegments(value, p.TotalBits()), 0)...), nil
}
