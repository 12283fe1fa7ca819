package cv

import (
	"time"

	"github.com/google/uuid"
)

// Generator creates and parses vectors with a fixed configuration. Vectors remember the
// Generator that produced them and use its entropy and clock when spun.
type Generator struct {
	version                Version
	validateDuringCreation bool
	entropy                Entropy
	clock                  func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithVersion sets the version New creates. The default is V1.
func WithVersion(v Version) Option {
	return func(g *Generator) {
		if v.valid() {
			g.version = v
		}
	}
}

// WithValidateDuringCreation makes Parse check the base alphabet eagerly. When disabled, the
// default, the alphabet is only checked where raw text is mutated (Extend and Spin on strings).
func WithValidateDuringCreation(enabled bool) Option {
	return func(g *Generator) {
		g.validateDuringCreation = enabled
	}
}

// WithEntropy replaces the random source.
func WithEntropy(e Entropy) Option {
	return func(g *Generator) {
		if e != nil {
			g.entropy = e
		}
	}
}

// WithClock replaces the clock the spin operator reads.
func WithClock(clock func() time.Time) Option {
	return func(g *Generator) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// NewGenerator returns a Generator with lazy validation, V1 as the default version, a
// pseudo-random entropy source and the wall clock.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		version: V1,
		entropy: NewEntropy(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ValidatesDuringCreation reports whether Parse validates the base alphabet eagerly.
func (g *Generator) ValidatesDuringCreation() bool {
	return g.validateDuringCreation
}

// New returns a vector of the generator's default version with a random base and a single 0
// extension. Use it only when no vector arrived with the incoming request.
func (g *Generator) New() *Vector {
	return g.newRandom(g.version)
}

// NewWithVersion is New for an explicit version.
func (g *Generator) NewWithVersion(v Version) (*Vector, error) {
	if !v.valid() {
		return nil, invalidArgument(OpCreate, v.String(), "unknown version")
	}
	return g.newRandom(v), nil
}

// NewWithSeed derives the base deterministically from a 128-bit seed. Only versions that
// support seeded bases accept it.
func (g *Generator) NewWithSeed(v Version, seed [16]byte) (*Vector, error) {
	if !v.valid() {
		return nil, invalidArgument(OpCreate, v.String(), "unknown version")
	}
	if !v.SupportsSeed() {
		return nil, invalidOperation(OpCreate, v.String(), "seeded bases are not supported in %s", v)
	}
	return newVector(g, v, seedBase(seed), []uint32{0}, false), nil
}

// NewFromUUID returns a V2 vector whose base is the UUID's 16 bytes in RFC 4122 order.
func (g *Generator) NewFromUUID(id uuid.UUID) *Vector {
	return newVector(g, V2, seedBase(id), []uint32{0}, false)
}

func (g *Generator) newRandom(v Version) *Vector {
	return newVector(g, v, randomBase(g.entropy, v), []uint32{0}, false)
}

// Extend parses text and appends a 0 extension to it. The text is fully validated regardless of
// ValidatesDuringCreation.
func (g *Generator) Extend(text string) (*Vector, error) {
	v, err := g.parse(OpExtend, text, true)
	if err != nil {
		return nil, err
	}
	return v.Extend(), nil
}

// Spin parses text and applies the spin operator to it.
func (g *Generator) Spin(text string, p SpinParameters) (*Vector, error) {
	v, err := g.parse(OpSpin, text, true)
	if err != nil {
		return nil, err
	}
	return v.spin(OpSpin, p)
}

var defaultGenerator = NewGenerator()

// New returns a fresh V1 vector from the default generator.
func New() *Vector {
	return defaultGenerator.New()
}

// NewWithVersion returns a fresh vector of the given version from the default generator.
func NewWithVersion(v Version) (*Vector, error) {
	return defaultGenerator.NewWithVersion(v)
}

// NewWithSeed returns a vector whose base is derived from seed, using the default generator.
func NewWithSeed(v Version, seed [16]byte) (*Vector, error) {
	return defaultGenerator.NewWithSeed(v, seed)
}

// NewFromUUID returns a V2 vector based on id, using the default generator.
func NewFromUUID(id uuid.UUID) *Vector {
	return defaultGenerator.NewFromUUID(id)
}

// Parse decodes text with the default generator.
func Parse(text string) (*Vector, error) {
	return defaultGenerator.Parse(text)
}

// Extend extends text with the default generator.
func Extend(text string) (*Vector, error) {
	return defaultGenerator.Extend(text)
}

// Spin spins text with the default generator.
func Spin(text string, p SpinParameters) (*Vector, error) {
	return defaultGenerator.Spin(text, p)
}
