package cv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	v1Base = "tul4NUsfs9Cl7mOf"
	v2Base = "KZY+dsX2jEaZesgCPjJ2Ng"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		desc     string
		in       string
		version  Version
		base     string
		segments []uint32
		sealed   bool
	}{
		{
			desc:     "v1 with a single extension",
			in:       v1Base + ".1",
			version:  V1,
			base:     v1Base,
			segments: []uint32{1},
		},
		{
			desc:     "v1 with several extensions",
			in:       v1Base + ".1.0.42",
			version:  V1,
			base:     v1Base,
			segments: []uint32{1, 0, 42},
		},
		{
			desc:     "v2 base",
			in:       v2Base + ".3.1",
			version:  V2,
			base:     v2Base,
			segments: []uint32{3, 1},
		},
		{
			desc:     "sealed vector",
			in:       v1Base + ".7!",
			version:  V1,
			base:     v1Base,
			segments: []uint32{7},
			sealed:   true,
		},
		{
			desc:     "largest extension",
			in:       v2Base + ".4294967295",
			version:  V2,
			base:     v2Base,
			segments: []uint32{4294967295},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			v, err := Parse(tc.in)
			require.NoError(t, err)

			require.Equal(t, tc.version, v.Version())
			require.Equal(t, tc.base, v.Base())
			require.Equal(t, tc.segments, v.Segments())
			require.Equal(t, tc.segments[len(tc.segments)-1], v.Extension())
			require.Equal(t, tc.sealed, v.Sealed())
			require.Equal(t, tc.in, v.Value())
		})
	}
}

func TestParseFailures(t *testing.T) {
	testCases := []struct {
		desc string
		in   string
	}{
		{desc: "empty", in: ""},
		{desc: "unknown base length with terminators", in: "bad base!!.0"},
		{desc: "unknown base length", in: "short.0"},
		{desc: "missing extension", in: v1Base},
		{desc: "empty extension", in: v1Base + "."},
		{desc: "empty extension in the middle", in: v1Base + "..1"},
		{desc: "leading zero", in: v1Base + ".05"},
		{desc: "leading zero in an earlier segment", in: v1Base + ".01.1"},
		{desc: "negative extension", in: v1Base + ".-1"},
		{desc: "signed extension", in: v1Base + ".+1"},
		{desc: "extension out of range", in: v2Base + ".4294967296"},
		{desc: "terminator followed by a segment", in: v1Base + ".1!.2"},
		{desc: "double terminator", in: v1Base + ".1!!"},
		{desc: "terminator inside the base", in: "tul4NUsfs9Cl7mO!.1"},
		{desc: "too long for v1", in: v1Base + strings.Repeat(".1", 24)},
		{desc: "too long for v2", in: v2Base + strings.Repeat(".1", 53)},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			v, err := Parse(tc.in)

			require.Nil(t, v)
			require.ErrorIs(t, err, ErrInvalidArgument)

			var cvErr *Error
			require.ErrorAs(t, err, &cvErr)
			require.Equal(t, OpParse, cvErr.Op)
			require.Equal(t, tc.in, cvErr.Value)
		})
	}
}

func TestParseLengthBoundary(t *testing.T) {
	atLimit := v1Base + strings.Repeat(".1", 22) + ".99"
	require.Len(t, atLimit, V1.MaxVectorLength())

	v, err := Parse(atLimit)
	require.NoError(t, err)
	require.Equal(t, atLimit, v.Value())

	sealed, err := Parse(atLimit + "!")
	require.NoError(t, err)
	require.True(t, sealed.Sealed())
	require.Equal(t, atLimit+"!", sealed.Value())
}

func TestParseAlphabetValidation(t *testing.T) {
	badAlphabet := "tul4NUsfs9Cl7m#f.1"

	t.Run("lazy generator accepts the base", func(t *testing.T) {
		v, err := NewGenerator().Parse(badAlphabet)
		require.NoError(t, err)
		require.Equal(t, badAlphabet, v.Value())
	})

	t.Run("eager generator rejects the base", func(t *testing.T) {
		_, err := NewGenerator(WithValidateDuringCreation(true)).Parse(badAlphabet)
		require.ErrorIs(t, err, ErrInvalidArgument)
		require.Contains(t, err.Error(), "invalid base character")
	})

	t.Run("extend always rejects the base", func(t *testing.T) {
		_, err := NewGenerator().Extend(badAlphabet)
		require.ErrorIs(t, err, ErrInvalidArgument)

		var cvErr *Error
		require.ErrorAs(t, err, &cvErr)
		require.Equal(t, OpExtend, cvErr.Op)
	})
}

func TestRoundTrip(t *testing.T) {
	g := NewGenerator(WithEntropy(NewSeededEntropy([32]byte{1})))

	var vectors []*Vector
	for _, version := range Versions() {
		v, err := g.NewWithVersion(version)
		require.NoError(t, err)

		for i := 0; i < 70; i++ {
			vectors = append(vectors, v)
			if i%3 == 0 {
				v.Increment()
			}
			v = v.Extend()
		}
		vectors = append(vectors, v)
		require.True(t, v.Sealed(), "%s should seal within 70 extensions", version)
	}

	for _, v := range vectors {
		t.Run(v.Value(), func(t *testing.T) {
			parsed, err := g.Parse(v.Value())
			require.NoError(t, err)

			require.True(t, v.Equal(parsed))
			require.Equal(t, v.Version(), parsed.Version())
			require.Equal(t, v.Base(), parsed.Base())
			require.Equal(t, v.Segments(), parsed.Segments())
			require.Equal(t, v.Sealed(), parsed.Sealed())
		})
	}
}

func TestParseSegment(t *testing.T) {
	testCases := []struct {
		in   string
		out  uint32
		fail bool
	}{
		{in: "0", out: 0},
		{in: "7", out: 7},
		{in: "10", out: 10},
		{in: "4294967295", out: 4294967295},
		{in: "4294967296", fail: true},
		{in: "00", fail: true},
		{in: "01", fail: true},
		{in: "", fail: true},
		{in: "1a", fail: true},
		{in: " 1", fail: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			out, err := parseSegment(tc.in)
			if tc.fail {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.out, out)
		})
	}
}
