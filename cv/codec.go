package cv

import (
	"strconv"
	"strings"
)

// Parse decodes a wire string. The version is inferred from the base length; the base alphabet
// is only checked when the generator validates during creation.
func (g *Generator) Parse(text string) (*Vector, error) {
	return g.parse(OpParse, text, g.validateDuringCreation)
}

func (g *Generator) parse(op Op, text string, checkAlphabet bool) (*Vector, error) {
	if text == "" {
		return nil, invalidArgument(op, text, "empty correlation vector")
	}

	payload, sealed := strings.CutSuffix(text, string(terminator))
	if strings.IndexByte(payload, terminator) >= 0 {
		return nil, invalidArgument(op, text, "terminator must be the last character")
	}

	version := inferVersion(payload)
	if exceeds(version, len(payload)) {
		return nil, invalidArgument(op, text, "length %d exceeds the %s maximum of %d", len(payload), version, version.MaxVectorLength())
	}

	parts := strings.Split(payload, string(delimiter))
	if len(parts) < 2 {
		return nil, invalidArgument(op, text, "missing extension")
	}

	base := parts[0]
	if len(base) != version.BaseLength() {
		return nil, invalidArgument(op, text, "base length %d is not valid for any version", len(base))
	}

	if checkAlphabet {
		if err := validateBase(version, base); err != nil {
			return nil, invalidArgument(op, text, "%s", err.Error())
		}
	}

	segs := make([]uint32, len(parts)-1)
	for i, part := range parts[1:] {
		seg, err := parseSegment(part)
		if err != nil {
			return nil, invalidArgument(op, text, "segment %d: %s", i+1, err.Error())
		}
		segs[i] = seg
	}

	return newVector(g, version, base, segs, sealed), nil
}

type codecError string

func (e codecError) Error() string { return string(e) }

func parseSegment(s string) (uint32, error) {
	if s == "" {
		return 0, codecError("empty")
	}
	if len(s) > 1 && s[0] == '0' {
		return 0, codecError("leading zero in " + strconv.Quote(s))
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, codecError("not a decimal number: " + strconv.Quote(s))
		}
	}

	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, codecError("out of range: " + strconv.Quote(s))
	}
	return uint32(n), nil
}

func validateBase(v Version, base string) error {
	alphabet := v.policy().alphabet
	for i := 0; i < len(base); i++ {
		if strings.IndexByte(alphabet, base[i]) < 0 {
			return codecError("invalid base character " + strconv.QuoteRune(rune(base[i])))
		}
	}
	return nil
}

func formatSegments(b *strings.Builder, segs []uint32) {
	var buf [10]byte
	for _, s := range segs {
		b.WriteByte(delimiter)
		b.Write(strconv.AppendUint(buf[:0], uint64(s), 10))
	}
}

// format renders prefix, ext and the terminator when sealed.
func format(prefix string, ext uint32, sealed bool) string {
	var b strings.Builder
	b.Grow(len(prefix) + 12)
	b.WriteString(prefix)
	formatSegments(&b, []uint32{ext})
	if sealed {
		b.WriteByte(terminator)
	}
	return b.String()
}
