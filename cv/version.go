package cv

import (
	"fmt"
	"strings"
)

// Version selects the wire-format constants a vector is encoded with.
type Version int

const (
	V1 Version = iota + 1
	V2
)

const (
	delimiter  = '.'
	terminator = '!'

	// alphanumeric is the subset of the alphabet random bases are drawn from.
	alphanumeric   = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	base64Alphabet = alphanumeric + "+/"
)

type policy struct {
	name            string
	baseLength      int
	maxVectorLength int
	alphabet        string
	spin            bool
	seeded          bool
}

// Rows are indexed by Version. A new protocol version is a new row.
var policies = [...]policy{
	V1: {
		name:            "v1",
		baseLength:      16,
		maxVectorLength: 63,
		alphabet:        base64Alphabet,
	},
	V2: {
		name:            "v2",
		baseLength:      22,
		maxVectorLength: 127,
		alphabet:        base64Alphabet,
		spin:            true,
		seeded:          true,
	},
}

// Versions returns every known version, oldest first.
func Versions() []Version {
	versions := make([]Version, 0, len(policies)-1)
	for v := V1; int(v) < len(policies); v++ {
		versions = append(versions, v)
	}
	return versions
}

func (v Version) valid() bool {
	return v >= V1 && int(v) < len(policies)
}

func (v Version) policy() policy {
	if !v.valid() {
		return policies[V1]
	}
	return policies[v]
}

func (v Version) String() string {
	if !v.valid() {
		return fmt.Sprintf("Version(%d)", int(v))
	}
	return policies[v].name
}

// BaseLength is the number of characters in a base of this version.
func (v Version) BaseLength() int {
	return v.policy().baseLength
}

// MaxVectorLength is the longest payload, terminator excluded, a vector of this version may have.
func (v Version) MaxVectorLength() int {
	return v.policy().maxVectorLength
}

// SupportsSpin reports whether the spin operator may be applied to vectors of this version.
func (v Version) SupportsSpin() bool {
	return v.policy().spin
}

// SupportsSeed reports whether a base of this version can be derived from a 128-bit identifier.
func (v Version) SupportsSeed() bool {
	return v.policy().seeded
}

// ParseVersion accepts "v1", "V2", "1" and so on.
func ParseVersion(s string) (Version, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(name, "v") {
		name = "v" + name
	}

	for _, v := range Versions() {
		if policies[v].name == name {
			return v, nil
		}
	}

	return 0, fmt.Errorf("unknown correlation vector version %q", s)
}

func (v Version) MarshalText() ([]byte, error) {
	if !v.valid() {
		return nil, fmt.Errorf("unknown correlation vector version %d", int(v))
	}
	return []byte(v.String()), nil
}

func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// inferVersion picks the version whose base length equals the length of the text before the
// first delimiter. Anything else is treated as the oldest version.
func inferVersion(text string) Version {
	idx := strings.IndexByte(text, delimiter)
	for _, v := range Versions() {
		if policies[v].baseLength == idx {
			return v
		}
	}
	return V1
}
